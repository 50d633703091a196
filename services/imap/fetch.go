package imap

import (
	"context"

	goimap "github.com/emersion/go-imap"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/models"
	"github.com/chatmesh/mailstack/internal/tracing"
)

// fetchNewMessages fetches the messages that arrived in a folder since
// the last recorded UID, hands them to the event handler and advances
// the per-folder high-water mark.
func (s *IMAPService) fetchNewMessages(ctx context.Context, session interfaces.IMAPSession, folderName string, isWatched bool) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPService.fetchNewMessages")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("folder.name", folderName)
	span.SetTag("folder.watched", isWatched)

	if err := session.Select(ctx, folderName); err != nil {
		err = errors.Wrapf(err, "selecting folder %s", folderName)
		tracing.TraceErr(span, err)
		return err
	}

	state, err := s.syncRepo.GetSyncState(ctx, folderName)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	var lastUID uint32
	if state != nil {
		lastUID = state.LastUID
	}

	uids, err := session.UIDsSince(ctx, lastUID)
	if err != nil {
		err = errors.Wrapf(err, "searching new messages in %s", folderName)
		tracing.TraceErr(span, err)
		return err
	}

	if len(uids) == 0 {
		s.log.Debugf("[%s] No new messages since UID %d", folderName, lastUID)
		return nil
	}

	s.log.Infof("[%s] Found %d new messages since UID %d", folderName, len(uids), lastUID)
	span.SetTag("messages.new", len(uids))

	var highestUID uint32
	messageCount := 0

	err = session.FetchByUID(ctx, uids, func(msg *goimap.Message) {
		messageCount++

		if msg.Uid > highestUID {
			highestUID = msg.Uid
		}

		if s.eventHandler != nil {
			s.eventHandler(ctx, interfaces.MailEvent{
				Source:    "imap",
				Folder:    folderName,
				UID:       msg.Uid,
				EventType: "new",
				Message:   msg,
			})
		}
	})
	if err != nil {
		err = errors.Wrapf(err, "fetching messages in %s", folderName)
		tracing.TraceErr(span, err)
		return err
	}

	s.log.Infof("[%s] Processed %d messages", folderName, messageCount)

	if highestUID == 0 {
		return nil
	}

	err = s.syncRepo.SaveSyncState(ctx, &models.FolderSyncState{
		FolderName: folderName,
		LastUID:    highestUID,
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
