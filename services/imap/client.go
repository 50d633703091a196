package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"

	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/tracing"
)

// connectToIMAPServer establishes an authenticated session with the
// configured IMAP server.
func (s *IMAPService) connectToIMAPServer(ctx context.Context) (interfaces.IMAPSession, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPService.connectToIMAPServer")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	serverAddr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	// Connect with or without TLS
	var c *client.Client
	var err error

	if s.cfg.Security == "tls" {
		tlsConfig := &tls.Config{
			ServerName: s.cfg.Server,
		}
		c, err = client.DialWithDialerTLS(dialer, serverAddr, tlsConfig)
	} else {
		c, err = client.DialWithDialer(dialer, serverAddr)
	}

	if err != nil {
		err := fmt.Errorf("connection error: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Check capabilities
	c.Timeout = 30 * time.Second
	caps, err := c.Capability()
	if err != nil {
		c.Logout()
		err := fmt.Errorf("capability error: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}
	s.log.Infof("Server capabilities: %v", caps)

	// Login
	err = c.Login(s.cfg.Username, s.cfg.Password)
	if err != nil {
		c.Logout()
		err := fmt.Errorf("login error: %w", err)
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Reset timeout
	c.Timeout = 0

	return &imapSession{c: c}, nil
}

// imapSession adapts the go-imap client to the session interface the
// scan logic operates on.
type imapSession struct {
	c *client.Client
}

func (s *imapSession) List(ctx context.Context) ([]interfaces.FolderEntry, error) {
	s.c.Timeout = 30 * time.Second
	mailboxes := make(chan *goimap.MailboxInfo, 10)
	done := make(chan error, 1)

	go func() {
		done <- s.c.List("", "*", mailboxes)
	}()

	var entries []interfaces.FolderEntry
	for m := range mailboxes {
		entries = append(entries, interfaces.FolderEntry{
			Name:       m.Name,
			Attributes: m.Attributes,
		})
	}

	s.c.Timeout = 0
	if err := <-done; err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *imapSession) Select(ctx context.Context, folder string) error {
	s.c.Timeout = 30 * time.Second
	_, err := s.c.Select(folder, false)
	s.c.Timeout = 0
	return err
}

func (s *imapSession) UIDsSince(ctx context.Context, lastUID uint32) ([]uint32, error) {
	criteria := goimap.NewSearchCriteria()
	uidRange := new(goimap.SeqSet)
	uidRange.AddRange(lastUID+1, 0) // From lastUID+1 to infinity
	criteria.Uid = uidRange

	s.c.Timeout = 30 * time.Second
	uids, err := s.c.UidSearch(criteria)
	s.c.Timeout = 0
	return uids, err
}

func (s *imapSession) FetchByUID(ctx context.Context, uids []uint32, handler func(*goimap.Message)) error {
	seqSet := new(goimap.SeqSet)
	for _, uid := range uids {
		seqSet.AddNum(uid)
	}

	items := []goimap.FetchItem{
		goimap.FetchEnvelope,
		goimap.FetchFlags,
		goimap.FetchUid,
	}

	messages := make(chan *goimap.Message, 10)
	done := make(chan error, 1)

	s.c.Timeout = 60 * time.Second

	go func() {
		done <- s.c.UidFetch(seqSet, items, messages)
	}()

	for msg := range messages {
		handler(msg)
	}

	s.c.Timeout = 0
	return <-done
}

func (s *imapSession) Logout() error {
	s.c.Timeout = 5 * time.Second
	return s.c.Logout()
}
