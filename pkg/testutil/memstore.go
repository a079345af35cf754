package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/store"
)

var _ store.Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory store.Store with the same ordering, scoping and
// error semantics as the SQL store.
type MemoryStore struct {
	mu         sync.Mutex
	now        func() time.Time
	users      map[string]model.User
	properties map[uuid.UUID]model.Property
	goals      map[uuid.UUID]model.RetirementGoals
	snapshots  []model.NetWorthSnapshot
	items      []model.LinkedItem
	migrated   int
}

// NewMemoryStore returns an empty store whose timestamps come from now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryStore{
		now:        now,
		users:      make(map[string]model.User),
		properties: make(map[uuid.UUID]model.Property),
		goals:      make(map[uuid.UUID]model.RetirementGoals),
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := m.users[u.Email]; ok {
		return apperr.ErrConflict
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now()
	}
	m.users[u.Email] = *u
	return nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, apperr.NotFound("user")
	}
	return u, nil
}

func (m *MemoryStore) ListProperties(_ context.Context, userID uuid.UUID) ([]model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Property
	for _, p := range m.properties {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *MemoryStore) GetProperty(_ context.Context, userID, id uuid.UUID) (model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok || p.UserID != userID {
		return model.Property{}, apperr.NotFound("property")
	}
	return p, nil
}

func (m *MemoryStore) CreateProperty(_ context.Context, p *model.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.NormalizeCategories()
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.properties[p.ID] = *p
	return nil
}

func (m *MemoryStore) UpdateProperty(_ context.Context, p *model.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.properties[p.ID]
	if !ok || existing.UserID != p.UserID {
		return apperr.NotFound("property")
	}
	p.NormalizeCategories()
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = m.now()
	m.properties[p.ID] = *p
	return nil
}

func (m *MemoryStore) DeleteProperty(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok || p.UserID != userID {
		return apperr.NotFound("property")
	}
	delete(m.properties, id)
	return nil
}

func (m *MemoryStore) GetGoals(_ context.Context, userID uuid.UUID) (model.RetirementGoals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.goals[userID]
	if !ok {
		return model.RetirementGoals{}, apperr.NotFound("retirement goals")
	}
	return g, nil
}

func (m *MemoryStore) SaveGoals(_ context.Context, g *model.RetirementGoals) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g.UpdatedAt = m.now()
	m.goals[g.UserID] = *g
	return nil
}

func (m *MemoryStore) ListSnapshots(_ context.Context, userID uuid.UUID) ([]model.NetWorthSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []model.NetWorthSnapshot{}
	for _, s := range m.snapshots {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out, nil
}

func (m *MemoryStore) LatestSnapshot(ctx context.Context, userID uuid.UUID) (model.NetWorthSnapshot, error) {
	snapshots, _ := m.ListSnapshots(ctx, userID)
	if len(snapshots) == 0 {
		return model.NetWorthSnapshot{}, apperr.NotFound("net worth snapshot")
	}
	return snapshots[len(snapshots)-1], nil
}

func (m *MemoryStore) SaveSnapshot(_ context.Context, s *model.NetWorthSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.RecordedAt.IsZero() {
		s.RecordedAt = m.now()
	}
	m.snapshots = append(m.snapshots, *s)
	return nil
}

func (m *MemoryStore) SaveLinkedItem(_ context.Context, item *model.LinkedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.items {
		if existing.ItemID == item.ItemID {
			return apperr.ErrConflict
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = m.now()
	}
	m.items = append(m.items, *item)
	return nil
}

func (m *MemoryStore) ListLinkedItems(_ context.Context) ([]model.LinkedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.LinkedItem(nil), m.items...), nil
}

func (m *MemoryStore) ListLinkedItemsForUser(_ context.Context, userID uuid.UUID) ([]model.LinkedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.LinkedItem
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MemoryStore) MarkItemSynced(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == id {
			synced := at
			m.items[i].LastSyncedAt = &synced
			return nil
		}
	}
	return apperr.NotFound("linked item")
}

// Migrate counts calls so tests can assert it ran.
func (m *MemoryStore) Migrate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.migrated++
	return nil
}

// Migrations returns how many times Migrate was called.
func (m *MemoryStore) Migrations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.migrated
}

func (m *MemoryStore) Close() error { return nil }
