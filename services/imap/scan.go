package imap

import (
	"context"
	"sync"
	"time"

	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	mailerrors "github.com/chatmesh/mailstack/errors"
	"github.com/chatmesh/mailstack/internal/settings"
	"github.com/chatmesh/mailstack/internal/tracing"
)

// scanGate debounces full folder scans. It wraps the instant of the
// last committed scan behind a mutex and exposes only check-and-reserve
// and commit/abort, so the debounce decision stays atomic: while one
// caller holds a reservation, every other caller is told to skip.
type scanGate struct {
	mu       sync.Mutex
	lastScan *time.Time
	reserved bool
}

// checkAndReserve reports whether a scan may proceed now. A true result
// reserves the gate; the caller must end the scan with commit or abort.
func (g *scanGate) checkAndReserve(now time.Time, minInterval time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.reserved {
		return false
	}
	if g.lastScan != nil && now.Sub(*g.lastScan) < minInterval {
		return false
	}
	g.reserved = true
	return true
}

// commit records a completed scan and releases the reservation.
func (g *scanGate) commit(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastScan = &now
	g.reserved = false
}

// abort releases the reservation without touching the timestamp, so the
// next caller may retry without waiting out the debounce interval.
func (g *scanGate) abort() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reserved = false
}

// roleWinner folds the two classification signals for one folder role
// across a scan. An attribute-based signal always overwrites the
// current winner; a name-based signal only fills an empty slot.
type roleWinner struct {
	name string
}

func (w *roleWinner) offer(folderName string, fromAttributes bool) {
	if fromAttributes {
		w.name = folderName
		return
	}
	if w.name == "" {
		w.name = folderName
	}
}

func (w *roleWinner) value() *string {
	if w.name == "" {
		return nil
	}
	return &w.name
}

// ScanFolders walks every folder on the server, resolves the sent-items
// and spam folders, and fetches new messages from folders that are not
// watched by the continuous polling machinery. Calls are debounced to
// once per the configured interval; a debounced call is a silent no-op.
func (s *IMAPService) ScanFolders(ctx context.Context) error {
	debounceSecs, err := s.settings.GetU64(ctx, settings.ScanAllFoldersDebounceSecs)
	if err != nil {
		return err
	}

	if !s.scanGate.checkAndReserve(time.Now(), time.Duration(debounceSecs)*time.Second) {
		return nil
	}

	span, ctx := tracing.StartTracerSpan(ctx, "IMAPService.ScanFolders")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	s.log.Info("Starting full folder scan")

	session := s.currentSession()
	if session == nil {
		s.scanGate.abort()
		err := errors.Wrap(mailerrors.ErrNoConnection, "ScanFolders")
		tracing.TraceErr(span, err)
		return err
	}

	entries, err := session.List(ctx)
	if err != nil {
		s.scanGate.abort()
		err = errors.Wrap(err, "ScanFolders: listing folders")
		tracing.TraceErr(span, err)
		return err
	}
	span.LogFields(tracingLog.Int("folders.count", len(entries)))

	watched := s.watchedFolders(ctx)

	var sentboxFolder, spamFolder roleWinner

	for _, entry := range entries {
		if entry.Err != nil {
			s.log.Warnf("Can't get folder: %v", entry.Err)
			continue
		}

		meaning := folderMeaning(entry.Attributes)
		nameMeaning := folderMeaningByName(entry.Name)

		switch {
		case meaning == MeaningSent:
			// Always takes precedence
			sentboxFolder.offer(entry.Name, true)
		case meaning == MeaningSpam:
			spamFolder.offer(entry.Name, true)
		case nameMeaning == MeaningSent:
			// Only records if none has been recorded yet
			sentboxFolder.offer(entry.Name, false)
		case nameMeaning == MeaningSpam:
			spamFolder.offer(entry.Name, false)
		}

		if _, ok := watched[entry.Name]; ok {
			s.log.Infof("Not scanning folder %s as it is watched anyway", entry.Name)
			continue
		}

		s.log.Infof("Scanning folder: %s", entry.Name)
		if err := s.fetchNewMessages(ctx, session, entry.Name, false); err != nil {
			s.log.Warnf("Can't fetch new messages in scanned folder %s: %v", entry.Name, err)
		}
	}

	if err := s.settings.Set(ctx, settings.ConfiguredSentboxFolder, sentboxFolder.value()); err != nil {
		s.scanGate.abort()
		tracing.TraceErr(span, err)
		return err
	}
	if err := s.settings.Set(ctx, settings.ConfiguredSpamFolder, spamFolder.value()); err != nil {
		s.scanGate.abort()
		tracing.TraceErr(span, err)
		return err
	}

	s.scanGate.commit(time.Now())
	return nil
}

// ListFoldersExcept returns the names of all folders on the server that
// are not in exclude, in discovery order. Malformed single entries are
// logged and dropped; a failed listing is returned as the error.
func (s *IMAPService) ListFoldersExcept(ctx context.Context, exclude []string) ([]string, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "IMAPService.ListFoldersExcept")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	session := s.currentSession()
	if session == nil {
		err := errors.Wrap(mailerrors.ErrNoConnection, "ListFoldersExcept")
		tracing.TraceErr(span, err)
		return nil, err
	}

	entries, err := session.List(ctx)
	if err != nil {
		err = errors.Wrap(err, "ListFoldersExcept: listing folders")
		tracing.TraceErr(span, err)
		return nil, err
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var names []string
	for _, entry := range entries {
		if entry.Err != nil {
			s.log.Warnf("ListFoldersExcept can't get folder: %v", entry.Err)
			continue
		}
		if excluded[entry.Name] {
			continue
		}
		names = append(names, entry.Name)
	}

	return names, nil
}

// watchedFolders resolves the set of folder names that are already
// under continuous watch and therefore skipped by the scan. Unset flags
// and unresolved folder names are silently skipped.
func (s *IMAPService) watchedFolders(ctx context.Context) map[string]struct{} {
	watchedConfigured := []struct {
		watched    settings.Key
		configured settings.Key
	}{
		{settings.SentboxWatch, settings.ConfiguredSentboxFolder},
		{settings.MvboxWatch, settings.ConfiguredMvboxFolder},
		{settings.InboxWatch, settings.ConfiguredInboxFolder},
	}

	res := make(map[string]struct{})
	for _, pair := range watchedConfigured {
		on, err := s.settings.GetBool(ctx, pair.watched)
		if err != nil {
			s.log.Warnf("Can't read watch flag %s: %v", pair.watched, err)
			continue
		}
		if !on {
			continue
		}
		folder, err := s.settings.Get(ctx, pair.configured)
		if err != nil || folder == nil {
			continue
		}
		res[*folder] = struct{}{}
	}
	return res
}
