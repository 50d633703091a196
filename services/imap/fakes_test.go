package imap

import (
	"context"
	"sync"

	goimap "github.com/emersion/go-imap"

	"github.com/chatmesh/mailstack/config"
	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/logger"
	"github.com/chatmesh/mailstack/internal/models"
	"github.com/chatmesh/mailstack/internal/settings"
)

// fakeSession implements interfaces.IMAPSession against canned data.
type fakeSession struct {
	entries      []interfaces.FolderEntry
	listErr      error
	uidsByFolder map[string][]uint32
	selectErrs   map[string]error
	fetchErrs    map[string]error

	selected  string
	selects   []string
	fetches   []string
	listCalls int
	loggedOut bool
}

func (f *fakeSession) List(ctx context.Context) ([]interfaces.FolderEntry, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeSession) Select(ctx context.Context, folder string) error {
	if err := f.selectErrs[folder]; err != nil {
		return err
	}
	f.selected = folder
	f.selects = append(f.selects, folder)
	return nil
}

func (f *fakeSession) UIDsSince(ctx context.Context, lastUID uint32) ([]uint32, error) {
	var out []uint32
	for _, uid := range f.uidsByFolder[f.selected] {
		if uid > lastUID {
			out = append(out, uid)
		}
	}
	return out, nil
}

func (f *fakeSession) FetchByUID(ctx context.Context, uids []uint32, handler func(*goimap.Message)) error {
	if err := f.fetchErrs[f.selected]; err != nil {
		return err
	}
	f.fetches = append(f.fetches, f.selected)
	for _, uid := range uids {
		handler(&goimap.Message{Uid: uid})
	}
	return nil
}

func (f *fakeSession) Logout() error {
	f.loggedOut = true
	return nil
}

// fakeSettingsRepo is an in-memory settings table.
type fakeSettingsRepo struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{values: map[string]string{}}
}

func (r *fakeSettingsRepo) Get(ctx context.Context, key string) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.values[key]; ok {
		value := v
		return &value, nil
	}
	return nil, nil
}

func (r *fakeSettingsRepo) Set(ctx context.Context, key string, value *string) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if value == nil {
		delete(r.values, key)
		return nil
	}
	r.values[key] = *value
	return nil
}

// fakeSyncRepo is an in-memory folder sync state store.
type fakeSyncRepo struct {
	mu    sync.Mutex
	states map[string]uint32
}

func newFakeSyncRepo() *fakeSyncRepo {
	return &fakeSyncRepo{states: map[string]uint32{}}
}

func (r *fakeSyncRepo) GetSyncState(ctx context.Context, folderName string) (*models.FolderSyncState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uid, ok := r.states[folderName]
	if !ok {
		return nil, nil
	}
	return &models.FolderSyncState{FolderName: folderName, LastUID: uid}, nil
}

func (r *fakeSyncRepo) SaveSyncState(ctx context.Context, state *models.FolderSyncState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.FolderName] = state.LastUID
	return nil
}

func (r *fakeSyncRepo) DeleteSyncState(ctx context.Context, folderName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, folderName)
	return nil
}

func testLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func newTestService(session interfaces.IMAPSession, settingsRepo *fakeSettingsRepo, syncRepo *fakeSyncRepo) *IMAPService {
	return &IMAPService{
		cfg:      &config.IMAPConfig{Server: "imap.example.org", Port: 993, Security: "tls"},
		log:      testLogger(),
		settings: settings.NewStore(settingsRepo),
		syncRepo: syncRepo,
		session:  session,
	}
}
