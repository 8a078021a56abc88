package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/architips/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driving"
	"github.com/custodia-labs/architips/internal/core/services"
)

// mockCatalogueService serves a fixed set of categories.
type mockCatalogueService struct {
	categories []domain.Category
	err        error
}

func (m *mockCatalogueService) LoadCategories(_ context.Context) ([]domain.Category, error) {
	return m.categories, m.err
}

func (m *mockCatalogueService) RulesFor(_ context.Context, name string) []domain.Rule {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return c.Rules
		}
	}
	return []domain.Rule{}
}

func (m *mockCatalogueService) UnlockWithAd(_ context.Context, name string) (domain.Category, error) {
	if m.err != nil {
		return domain.Category{}, m.err
	}
	for i := range m.categories {
		if strings.EqualFold(m.categories[i].Name, name) {
			m.categories[i].AdsWatched++
			m.categories[i].Locked = m.categories[i].AdsWatched < domain.AdsRequiredToUnlock
			return m.categories[i], nil
		}
	}
	return domain.Category{}, domain.ErrNotFound
}

// mockLedgerService reports states by name.
type mockLedgerService struct {
	states map[string]domain.UnlockState
	resets int
}

func (m *mockLedgerService) Reconcile(_ []string, _ bool) (map[string]domain.UnlockState, error) {
	return m.states, nil
}

func (m *mockLedgerService) IsFirstLaunch() bool { return false }

func (m *mockLedgerService) MarkLaunched() error { return nil }

func (m *mockLedgerService) RecordAdWatched(_ string) (int, error) { return 0, nil }

func (m *mockLedgerService) IsUnlocked(name string) bool { return !m.states[name].Locked }

func (m *mockLedgerService) State(name string) domain.UnlockState {
	if s, ok := m.states[name]; ok {
		return s
	}
	return domain.NewUnlockState(0)
}

func (m *mockLedgerService) Reset() error {
	m.resets++
	m.states = map[string]domain.UnlockState{}
	return nil
}

// mockSearchService returns canned results.
type mockSearchService struct {
	results []domain.Category
	err     error
}

func (m *mockSearchService) Search(_ context.Context, query string) ([]domain.Category, error) {
	if query == "" {
		return []domain.Category{}, nil
	}
	return m.results, m.err
}

// mockUpdateTask replays a fixed event sequence.
type mockUpdateTask struct {
	events chan domain.UpdateEvent
	done   chan struct{}
	result domain.UpdateEvent
}

func newMockUpdateTask(events ...domain.UpdateEvent) *mockUpdateTask {
	t := &mockUpdateTask{
		events: make(chan domain.UpdateEvent, len(events)),
		done:   make(chan struct{}),
	}
	for _, ev := range events {
		t.events <- ev
	}
	close(t.events)
	if len(events) > 0 {
		t.result = events[len(events)-1]
	}
	close(t.done)
	return t
}

func (t *mockUpdateTask) ID() string { return "task-1" }
func (t *mockUpdateTask) Events() <-chan domain.UpdateEvent { return t.events }
func (t *mockUpdateTask) Done() <-chan struct{} { return t.done }
func (t *mockUpdateTask) Result() domain.UpdateEvent { return t.result }
func (t *mockUpdateTask) Cancel() {}
func (t *mockUpdateTask) Wait(_ context.Context) (domain.UpdateEvent, error) {
	return t.result, nil
}

// mockUpdateService hands out prepared tasks.
type mockUpdateService struct {
	check       []domain.UpdateEvent
	download    []domain.UpdateEvent
	downloadErr error
}

func (m *mockUpdateService) CheckVersion(_ context.Context) driving.UpdateTask {
	return newMockUpdateTask(m.check...)
}

func (m *mockUpdateService) DownloadContent(_ context.Context) (driving.UpdateTask, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return newMockUpdateTask(m.download...), nil
}

// mockContentService records imports and reverts.
type mockContentService struct {
	categories []domain.RawCategory
	override   bool
	imported   []byte
	order      []string
	err        error
}

func (m *mockContentService) Categories(_ context.Context) []domain.RawCategory {
	return m.categories
}

func (m *mockContentService) HasOverride() bool { return m.override }

func (m *mockContentService) Import(_ context.Context, data []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	parsed, err := domain.ParseContent(data)
	if err != nil {
		return 0, err
	}
	m.imported = data
	m.override = true
	return len(parsed), nil
}

func (m *mockContentService) Revert(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.override = false
	return nil
}

func (m *mockContentService) Sorted(_ context.Context, order []string) ([]byte, error) {
	m.order = order
	return domain.EncodeContent(domain.SortCategories(m.categories, order))
}

// mockScheduler records started state and runs.
type mockScheduler struct {
	mu      sync.Mutex
	tasks   []domain.ScheduledTask
	runs    map[string][]domain.TaskRun
	started bool
	stopped bool
	runErr  error
}

func (m *mockScheduler) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return nil
}

func (m *mockScheduler) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockScheduler) Tasks(_ context.Context) ([]domain.ScheduledTask, error) {
	return m.tasks, nil
}

func (m *mockScheduler) History(_ context.Context, taskID string, limit int) ([]domain.TaskRun, error) {
	runs := m.runs[taskID]
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *mockScheduler) RunNow(_ context.Context, taskID string) (domain.TaskRun, error) {
	if m.runErr != nil {
		return domain.TaskRun{}, m.runErr
	}
	if runs := m.runs[taskID]; len(runs) > 0 {
		return runs[0], nil
	}
	return domain.TaskRun{}, domain.ErrNotFound
}

// mockWatcher counts Start and Close calls.
type mockWatcher struct {
	mu     sync.Mutex
	starts int
	closes int
}

func (m *mockWatcher) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	return nil
}

func (m *mockWatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

func testCategories() []domain.Category {
	return []domain.Category{
		{
			Name: "Kitchen", AdsWatched: 2, AdsRequiredToUnlock: 2,
			Rules: []domain.Rule{
				{Category: "Kitchen", Text: "Keep the work triangle compact"},
				{Category: "Kitchen", Text: "Counter height 90 cm", IsFavorite: true},
			},
		},
		{
			Name: "Living Room", Locked: true, AdsRequiredToUnlock: 2,
			Rules: []domain.Rule{
				{Category: "Living Room", Text: "Face seating towards the light"},
			},
		},
	}
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	catalogue *mockCatalogueService
	ledger    *mockLedgerService
	updates   *mockUpdateService
	search    *mockSearchService
	favorites *services.FavoritesService
	settings  *services.SettingsService
	content   *mockContentService
	scheduler *mockScheduler
	watcher   *mockWatcher
}

// setupTestServices installs fresh mocks and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	states := map[string]domain.UnlockState{
		"Kitchen":     domain.NewUnlockState(2),
		"Living Room": domain.NewUnlockState(1),
	}
	raw := []domain.RawCategory{
		{Name: "Kitchen", Rules: []string{"a"}},
		{Name: "Stairs", Rules: []string{"b", "c"}},
	}

	ts := &testServices{
		catalogue: &mockCatalogueService{categories: testCategories()},
		ledger:    &mockLedgerService{states: states},
		updates:   &mockUpdateService{},
		search:    &mockSearchService{},
		favorites: services.NewFavoritesService(memory.NewFavoriteStore()),
		settings:  services.NewSettingsService(memory.NewConfigStore()),
		content:   &mockContentService{categories: raw},
		scheduler: &mockScheduler{runs: map[string][]domain.TaskRun{}},
		watcher:   &mockWatcher{},
	}

	SetServices(&Services{
		Catalogue: ts.catalogue,
		Ledger:    ts.ledger,
		Updates:   ts.updates,
		Search:    ts.search,
		Favorites: ts.favorites,
		Settings:  ts.settings,
		Content:   ts.content,
		Scheduler: ts.scheduler,
		Watcher:   ts.watcher,
	})

	return ts, func() {
		SetServices(&Services{})
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
