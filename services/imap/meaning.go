package imap

import (
	"strings"

	specialuse "github.com/emersion/go-imap-specialuse"
)

// FolderMeaning is the semantic role of a mailbox folder.
type FolderMeaning int

const (
	MeaningUnknown FolderMeaning = iota
	MeaningInbox
	MeaningSent
	MeaningSpam
	// MeaningChats is the client-created mailbox that chat messages are
	// moved into.
	MeaningChats
)

func (m FolderMeaning) String() string {
	switch m {
	case MeaningInbox:
		return "inbox"
	case MeaningSent:
		return "sent"
	case MeaningSpam:
		return "spam"
	case MeaningChats:
		return "chats"
	default:
		return "unknown"
	}
}

// chatsFolderName is the name of the mailbox this client creates for
// chat messages.
const chatsFolderName = "Chats"

// sentNames are lowercase display names commonly used for the
// sent-items folder, including localized variants.
var sentNames = map[string]bool{
	"sent":         true,
	"sent items":   true,
	"sent mail":    true,
	"sent objects": true,
	"sentbox":      true,
	"gesendet":     true,
	"skickat":      true,
	"enviados":     true,
	"inviati":      true,
}

// spamNames are lowercase display names commonly used for the junk
// folder.
var spamNames = map[string]bool{
	"spam":      true,
	"junk":      true,
	"junk mail": true,
}

// folderMeaning classifies a folder by its server-advertised
// special-use attributes (RFC 6154). Unrecognized attribute sets yield
// MeaningUnknown.
func folderMeaning(attributes []string) FolderMeaning {
	for _, attr := range attributes {
		switch attr {
		case specialuse.Sent:
			return MeaningSent
		case specialuse.Junk:
			return MeaningSpam
		}
	}
	return MeaningUnknown
}

// folderMeaningByName classifies a folder by its display name alone.
// This is the weaker signal: attribute-based classification takes
// precedence wherever both apply.
func folderMeaningByName(name string) FolderMeaning {
	if name == chatsFolderName {
		return MeaningChats
	}
	if strings.EqualFold(name, "inbox") {
		return MeaningInbox
	}

	lower := strings.ToLower(name)
	if sentNames[lower] {
		return MeaningSent
	}
	if spamNames[lower] {
		return MeaningSpam
	}
	return MeaningUnknown
}
