package imap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolderMeaningFromAttributes(t *testing.T) {
	tests := []struct {
		name       string
		attributes []string
		expected   FolderMeaning
	}{
		{"sent attribute", []string{"\\Sent"}, MeaningSent},
		{"junk attribute", []string{"\\Junk"}, MeaningSpam},
		{"sent among others", []string{"\\HasNoChildren", "\\Sent"}, MeaningSent},
		{"unrelated attributes", []string{"\\HasNoChildren", "\\Marked"}, MeaningUnknown},
		{"drafts is not classified", []string{"\\Drafts"}, MeaningUnknown},
		{"no attributes", nil, MeaningUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, folderMeaning(tt.attributes))
		})
	}
}

func TestFolderMeaningByName(t *testing.T) {
	tests := []struct {
		name     string
		folder   string
		expected FolderMeaning
	}{
		{"inbox", "INBOX", MeaningInbox},
		{"inbox is case insensitive", "InBoX", MeaningInbox},
		{"chats", "Chats", MeaningChats},
		{"chats is case sensitive", "chats", MeaningUnknown},
		{"sent", "Sent", MeaningSent},
		{"sent items", "Sent Items", MeaningSent},
		{"localized sent", "Gesendet", MeaningSent},
		{"junk", "Junk", MeaningSpam},
		{"spam uppercase", "SPAM", MeaningSpam},
		{"junk mail", "Junk Mail", MeaningSpam},
		{"archive", "Archive", MeaningUnknown},
		{"empty", "", MeaningUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, folderMeaningByName(tt.folder))
		})
	}
}

func TestFolderMeaningString(t *testing.T) {
	assert.Equal(t, "sent", MeaningSent.String())
	assert.Equal(t, "spam", MeaningSpam.String())
	assert.Equal(t, "inbox", MeaningInbox.String())
	assert.Equal(t, "chats", MeaningChats.String())
	assert.Equal(t, "unknown", MeaningUnknown.String())
}
