package settings

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	values map[string]string
	getErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{values: map[string]string{}}
}

func (r *memoryRepo) Get(ctx context.Context, key string) (*string, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if v, ok := r.values[key]; ok {
		value := v
		return &value, nil
	}
	return nil, nil
}

func (r *memoryRepo) Set(ctx context.Context, key string, value *string) error {
	if value == nil {
		delete(r.values, key)
		return nil
	}
	r.values[key] = *value
	return nil
}

func TestStoreGet_Defaults(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryRepo())

	inbox, err := store.Get(ctx, ConfiguredInboxFolder)
	require.NoError(t, err)
	require.NotNil(t, inbox)
	assert.Equal(t, "INBOX", *inbox)

	debounce, err := store.GetU64(ctx, ScanAllFoldersDebounceSecs)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), debounce)

	watch, err := store.GetBool(ctx, InboxWatch)
	require.NoError(t, err)
	assert.True(t, watch)
}

func TestStoreGet_NoDefault(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryRepo())

	value, err := store.Get(ctx, ConfiguredSpamFolder)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestStoreGet_StoredValueWinsOverDefault(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.values[string(ConfiguredInboxFolder)] = "Mail/In"
	store := NewStore(repo)

	value, err := store.Get(ctx, ConfiguredInboxFolder)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "Mail/In", *value)
}

func TestStoreGet_UnparsableCoercesToZero(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.values[string(ScanAllFoldersDebounceSecs)] = "not-a-number"
	repo.values[string(InboxWatch)] = "definitely"
	store := NewStore(repo)

	debounce, err := store.GetU64(ctx, ScanAllFoldersDebounceSecs)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), debounce)

	watch, err := store.GetBool(ctx, InboxWatch)
	require.NoError(t, err)
	assert.False(t, watch)
}

func TestStoreGet_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.getErr = errors.New("connection refused")
	store := NewStore(repo)

	_, err := store.Get(ctx, ConfiguredInboxFolder)
	require.Error(t, err)

	_, err = store.GetU64(ctx, ScanAllFoldersDebounceSecs)
	require.Error(t, err)
}

func TestStoreSet_NilRestoresDefault(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryRepo())

	custom := "Mail/In"
	require.NoError(t, store.Set(ctx, ConfiguredInboxFolder, &custom))

	value, err := store.Get(ctx, ConfiguredInboxFolder)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "Mail/In", *value)

	require.NoError(t, store.Set(ctx, ConfiguredInboxFolder, nil))

	value, err = store.Get(ctx, ConfiguredInboxFolder)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "INBOX", *value)
}

func TestStoreSetBool(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	store := NewStore(repo)

	require.NoError(t, store.SetBool(ctx, MvboxWatch, false))
	// False clears the entry instead of storing "0"; with the default in
	// place that still reads back as enabled.
	assert.NotContains(t, repo.values, string(MvboxWatch))

	require.NoError(t, store.SetBool(ctx, MvboxWatch, true))
	assert.Equal(t, "1", repo.values[string(MvboxWatch)])
}
