package tracker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory storage.Provider. It enforces one open session per owner
// like the partial unique index does.
type fakeStore struct {
	mu       sync.Mutex
	plans    map[string]models.Plan
	sessions []models.ActivitySession

	failCreate error
	failClose  error
	failFind   error

	// hooks run with the lock released, before the write is applied
	beforeCreate func()
	beforeClose  func()
}

func newFakeStore(plans ...models.Plan) *fakeStore {
	f := &fakeStore{plans: make(map[string]models.Plan)}
	for _, p := range plans {
		f.plans[p.ID] = p
	}
	return f
}

func (f *fakeStore) Init(context.Context) error { return nil }
func (f *fakeStore) Load(context.Context) error { return nil }
func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) CreateUser(_ context.Context, u models.User) (models.User, error) { return u, nil }
func (f *fakeStore) GetUser(context.Context, string) (models.User, error) {
	return models.User{}, storage.ErrNotFound
}
func (f *fakeStore) GetUserByEmail(context.Context, string) (models.User, error) {
	return models.User{}, storage.ErrNotFound
}
func (f *fakeStore) UpdateUser(context.Context, models.User) error { return nil }
func (f *fakeStore) ListUsers(context.Context) ([]models.User, error) { return nil, nil }
func (f *fakeStore) GetSettings(context.Context, string) (models.Settings, error) {
	return models.DefaultSettings(), nil
}
func (f *fakeStore) SaveSettings(context.Context, string, models.Settings) error { return nil }

func (f *fakeStore) ListActivePlans(ctx context.Context, owner string) ([]models.Plan, error) {
	return f.ListPlans(ctx, owner, false)
}

func (f *fakeStore) ListPlans(_ context.Context, owner string, includeInactive bool) ([]models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Plan
	for _, p := range f.plans {
		if p.OwnerID == owner && (p.Active || includeInactive) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetPlan(_ context.Context, id string) (models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok {
		return models.Plan{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) UpsertPlan(_ context.Context, p models.Plan) (models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.plans[p.ID] = p
	return p, nil
}

func (f *fakeStore) DeactivatePlan(_ context.Context, id string) error {
	return f.setActive(id, false)
}

func (f *fakeStore) ReactivatePlan(_ context.Context, id string) error {
	return f.setActive(id, true)
}

func (f *fakeStore) setActive(id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.Active = active
	f.plans[id] = p
	return nil
}

func (f *fakeStore) FindOpenSession(_ context.Context, owner string) (*models.ActivitySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFind != nil {
		return nil, f.failFind
	}
	var found *models.ActivitySession
	for i := range f.sessions {
		s := f.sessions[i]
		if s.OwnerID == owner && s.IsOpen() && (found == nil || s.StartTime.After(found.StartTime)) {
			found = &s
		}
	}
	return found, nil
}

func (f *fakeStore) CreateSession(_ context.Context, ns models.NewSession) (models.ActivitySession, error) {
	if f.beforeCreate != nil {
		f.beforeCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return models.ActivitySession{}, f.failCreate
	}
	for _, s := range f.sessions {
		if s.OwnerID == ns.OwnerID && s.IsOpen() {
			return models.ActivitySession{}, storage.ErrOpenSessionExists
		}
	}
	s := models.ActivitySession{
		ID:           uuid.NewString(),
		OwnerID:      ns.OwnerID,
		PlanID:       ns.PlanID,
		ActivityName: ns.ActivityName,
		ActivityDate: ns.ActivityDate,
		StartTime:    ns.StartTime,
	}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *fakeStore) CloseSession(_ context.Context, id string, end time.Time, dur int64) error {
	if f.beforeClose != nil {
		f.beforeClose()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClose != nil {
		return f.failClose
	}
	for i := range f.sessions {
		if f.sessions[i].ID == id && f.sessions[i].IsOpen() {
			e, d := end, dur
			f.sessions[i].EndTime = &e
			f.sessions[i].DurationSeconds = &d
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ListClosedSessions(_ context.Context, owner string, r models.DateRange) ([]models.ActivitySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ActivitySession
	for _, s := range f.sessions {
		if s.OwnerID == owner && !s.IsOpen() && s.ActivityDate >= r.From && s.ActivityDate <= r.To {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeStore) GetDailyTotal(_ context.Context, owner, date string) (*models.DailyTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	found := false
	for _, s := range f.sessions {
		if s.OwnerID == owner && !s.IsOpen() && s.ActivityDate == date {
			total += s.Seconds()
			found = true
		}
	}
	if !found {
		return nil, nil
	}
	return &models.DailyTotal{ActivityDate: date, TotalSeconds: total}, nil
}

func (f *fakeStore) PlanTotalsForDate(_ context.Context, owner, date string) ([]models.PlanTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sums := make(map[string]int64)
	for _, s := range f.sessions {
		if s.OwnerID == owner && !s.IsOpen() && s.ActivityDate == date {
			sums[s.PlanID] += s.Seconds()
		}
	}
	var out []models.PlanTotal
	for id, sec := range sums {
		out = append(out, models.PlanTotal{PlanID: id, Seconds: sec})
	}
	return out, nil
}

func (f *fakeStore) OpenSessionCounts(context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, s := range f.sessions {
		if s.IsOpen() {
			counts[s.OwnerID]++
		}
	}
	return counts, nil
}

func (f *fakeStore) GetConfigPath() string { return ":memory:" }

func (f *fakeStore) openCount(owner string) int {
	counts, _ := f.OpenSessionCounts(context.Background())
	return counts[owner]
}

// seedOpen inserts an open session directly, as another device would.
func (f *fakeStore) seedOpen(owner, planID, name string, start time.Time) models.ActivitySession {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.ActivitySession{
		ID:           uuid.NewString(),
		OwnerID:      owner,
		PlanID:       planID,
		ActivityName: name,
		ActivityDate: start.Format("2006-01-02"),
		StartTime:    start,
	}
	f.sessions = append(f.sessions, s)
	return s
}

func (f *fakeStore) seedClosed(owner, planID, date string, start time.Time, seconds int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	end := start.Add(time.Duration(seconds) * time.Second)
	f.sessions = append(f.sessions, models.ActivitySession{
		ID:              uuid.NewString(),
		OwnerID:         owner,
		PlanID:          planID,
		ActivityName:    planID,
		ActivityDate:    date,
		StartTime:       start,
		EndTime:         &end,
		DurationSeconds: &seconds,
	})
}

var _ storage.Provider = (*fakeStore)(nil)
