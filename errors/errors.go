package errors

import "github.com/pkg/errors"

var (
	// ErrNoConnection is returned by operations that need an
	// established IMAP session when none is available.
	ErrNoConnection = errors.New("no IMAP connection established")
)
