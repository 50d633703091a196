package interfaces

import (
	"context"

	goimap "github.com/emersion/go-imap"
)

type IMAPService interface {
	Start(ctx context.Context) error
	Stop() error
	SetEventHandler(handler func(context.Context, MailEvent))
	// ScanFolders walks every folder on the server, classifies special
	// folders and fetches new messages from folders that are not watched.
	// Repeated calls are debounced; a debounced call is a silent no-op.
	ScanFolders(ctx context.Context) error
	// ListFoldersExcept returns the names of all folders on the server
	// that are not in exclude.
	ListFoldersExcept(ctx context.Context, exclude []string) ([]string, error)
}

// FolderEntry is a single result of a folder listing. Err is set when the
// server produced an entry that could not be parsed; such entries carry no
// usable name or attributes.
type FolderEntry struct {
	Name       string
	Attributes []string
	Err        error
}

// IMAPSession is the authenticated protocol session the scan operates on.
// It exists as an interface so orchestration logic can be exercised
// against a fake server in tests.
type IMAPSession interface {
	// List enumerates all folders under the root namespace. Transport
	// failures are returned as the error; malformed single entries are
	// reported inline via FolderEntry.Err.
	List(ctx context.Context) ([]FolderEntry, error)
	Select(ctx context.Context, folder string) error
	// UIDsSince returns the UIDs of messages newer than lastUID in the
	// currently selected folder.
	UIDsSince(ctx context.Context, lastUID uint32) ([]uint32, error)
	FetchByUID(ctx context.Context, uids []uint32, handler func(*goimap.Message)) error
	Logout() error
}

type MailEvent struct {
	Source    string
	Folder    string
	UID       uint32
	EventType string
	Message   interface{}
}
