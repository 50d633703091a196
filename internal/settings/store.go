package settings

import (
	"context"
	"strconv"

	"github.com/chatmesh/mailstack/interfaces"
)

// Store is the typed accessor layer over the raw settings repository.
// Unset or unparsable values coerce to the type's zero value, so reads
// never fail on malformed data.
type Store struct {
	repo interfaces.SettingsRepository
}

func NewStore(repo interfaces.SettingsRepository) *Store {
	return &Store{repo: repo}
}

// Get returns the stored value, falling back to the key's default.
// Returns nil when the key is unset and has no default.
func (s *Store) Get(ctx context.Context, key Key) (*string, error) {
	value, err := s.repo.Get(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if value != nil {
		return value, nil
	}
	if def, ok := defaults[key]; ok {
		return &def, nil
	}
	return nil, nil
}

func (s *Store) GetInt(ctx context.Context, key Key) (int, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if value == nil {
		return 0, nil
	}
	parsed, err := strconv.Atoi(*value)
	if err != nil {
		return 0, nil
	}
	return parsed, nil
}

func (s *Store) GetU64(ctx context.Context, key Key) (uint64, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if value == nil {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(*value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return parsed, nil
}

func (s *Store) GetBool(ctx context.Context, key Key) (bool, error) {
	value, err := s.GetInt(ctx, key)
	if err != nil {
		return false, err
	}
	return value != 0, nil
}

// Set stores the value for a key. A nil value clears the entry so the
// key falls back to its default, if any.
func (s *Store) Set(ctx context.Context, key Key, value *string) error {
	return s.repo.Set(ctx, string(key), value)
}

func (s *Store) SetBool(ctx context.Context, key Key, value bool) error {
	if value {
		one := "1"
		return s.Set(ctx, key, &one)
	}
	return s.Set(ctx, key, nil)
}
