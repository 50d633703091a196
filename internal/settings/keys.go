package settings

// Key names a single entry of the account configuration store.
type Key string

const (
	// Watch flags for the folders that are continuously monitored by
	// the polling machinery. When a flag is off the folder is picked up
	// by the full folder scan instead.
	InboxWatch   Key = "inbox_watch"
	SentboxWatch Key = "sentbox_watch"
	MvboxWatch   Key = "mvbox_watch"

	// Resolved server-side folder names for the semantic roles.
	ConfiguredInboxFolder   Key = "configured_inbox_folder"
	ConfiguredMvboxFolder   Key = "configured_mvbox_folder"
	ConfiguredSentboxFolder Key = "configured_sentbox_folder"
	ConfiguredSpamFolder    Key = "configured_spam_folder"

	// To how many seconds to debounce the full folder scan. Mainly set
	// in tests, to disable debouncing completely.
	ScanAllFoldersDebounceSecs Key = "scan_all_folders_debounce_secs"
)

// defaults holds the value returned for a key that has no stored entry.
// Keys without a default resolve to nil.
var defaults = map[Key]string{
	InboxWatch:                 "1",
	SentboxWatch:               "1",
	MvboxWatch:                 "1",
	ConfiguredInboxFolder:      "INBOX",
	ScanAllFoldersDebounceSecs: "60",
}
