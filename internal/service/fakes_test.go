package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
)

// fakeLeads keeps leads and report records in memory. recordAgent maps a
// record ID to its assigned agent for scoped reads.
type fakeLeads struct {
	mu          sync.Mutex
	leads       map[int64]domain.Lead
	records     []domain.LeadRecord
	recordAgent map[int64]int64
	recordsErr  error
	scopes      []int64
	nextID      int64
}

func newFakeLeads() *fakeLeads {
	return &fakeLeads{leads: map[int64]domain.Lead{}, recordAgent: map[int64]int64{}, nextID: 100}
}

func (f *fakeLeads) ListRecords(ctx context.Context, start, end time.Time, agentID int64) ([]domain.LeadRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, agentID)
	if f.recordsErr != nil {
		return nil, f.recordsErr
	}
	var out []domain.LeadRecord
	for _, r := range f.records {
		if r.CreatedDate.Before(start) || !r.CreatedDate.Before(end) {
			continue
		}
		if agentID != 0 && f.recordAgent[r.ID] != agentID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLeads) List(ctx context.Context, q domain.ListQuery, agentID int64) ([]domain.Lead, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, agentID)
	var out []domain.Lead
	for _, l := range f.leads {
		if agentID != 0 && l.AssignedAgentID != agentID {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeLeads) Get(ctx context.Context, id int64) (*domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (f *fakeLeads) Create(ctx context.Context, lead *domain.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	lead.ID = f.nextID
	f.leads[lead.ID] = *lead
	return nil
}

func (f *fakeLeads) Update(ctx context.Context, lead *domain.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[lead.ID]; !ok {
		return domain.ErrNotFound
	}
	f.leads[lead.ID] = *lead
	return nil
}

func (f *fakeLeads) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

type fakeRefs struct {
	mu          sync.Mutex
	items       map[domain.ReferenceKind]map[int64]domain.ReferenceItem
	statusesErr error
	kindUpdates map[int64]domain.StatusKind
	nextID      int64
}

func newFakeRefs() *fakeRefs {
	return &fakeRefs{
		items:       map[domain.ReferenceKind]map[int64]domain.ReferenceItem{},
		kindUpdates: map[int64]domain.StatusKind{},
		nextID:      100,
	}
}

func (f *fakeRefs) add(kind domain.ReferenceKind, id int64, name string, statusKind domain.StatusKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items[kind] == nil {
		f.items[kind] = map[int64]domain.ReferenceItem{}
	}
	f.items[kind][id] = domain.ReferenceItem{ID: id, Name: name, Kind: statusKind}
}

func (f *fakeRefs) ListStatuses(ctx context.Context) ([]domain.LeadStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusesErr != nil {
		return nil, f.statusesErr
	}
	var out []domain.LeadStatus
	for _, it := range f.items[domain.ReferenceStatuses] {
		out = append(out, domain.LeadStatus{ID: it.ID, Label: it.Name, Kind: it.Kind})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return domain.NormalizeStatuses(out), nil
}

func (f *fakeRefs) List(ctx context.Context, kind domain.ReferenceKind, q domain.ListQuery) ([]domain.ReferenceItem, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ReferenceItem, 0)
	for _, it := range f.items[kind] {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeRefs) Get(ctx context.Context, kind domain.ReferenceKind, id int64) (*domain.ReferenceItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[kind][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (f *fakeRefs) Create(ctx context.Context, kind domain.ReferenceKind, name string, statusKind domain.StatusKind) (*domain.ReferenceItem, error) {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.mu.Unlock()
	f.add(kind, id, name, statusKind)
	return f.Get(ctx, kind, id)
}

func (f *fakeRefs) Update(ctx context.Context, kind domain.ReferenceKind, id int64, name string, statusKind domain.StatusKind) (*domain.ReferenceItem, error) {
	if _, err := f.Get(ctx, kind, id); err != nil {
		return nil, err
	}
	f.add(kind, id, name, statusKind)
	return f.Get(ctx, kind, id)
}

func (f *fakeRefs) Delete(ctx context.Context, kind domain.ReferenceKind, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[kind][id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items[kind], id)
	return nil
}

func (f *fakeRefs) SetStatusKind(ctx context.Context, id int64, kind domain.StatusKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kindUpdates[id] = kind
	return nil
}

// fakeBudgets applies a transaction to a copy of its state and only keeps the
// copy when the callback succeeds.
type fakeBudgets struct {
	mu        sync.Mutex
	adCodes   map[int64]bool
	budgets   map[int64]domain.AdBudget
	history   []domain.BudgetHistoryEntry
	listErr   error
	saveErr   error
	txCount   int
	historyID int64
}

func newFakeBudgets(adCodes ...int64) *fakeBudgets {
	f := &fakeBudgets{adCodes: map[int64]bool{}, budgets: map[int64]domain.AdBudget{}}
	for _, id := range adCodes {
		f.adCodes[id] = true
	}
	return f
}

func (f *fakeBudgets) ListBudgets(ctx context.Context) (map[int64]domain.AdBudget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[int64]domain.AdBudget, len(f.budgets))
	for k, v := range f.budgets {
		out[k] = v
	}
	return out, nil
}

func (f *fakeBudgets) Get(ctx context.Context, adCodeID int64) (*domain.AdBudget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.budgets[adCodeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBudgets) ListHistory(ctx context.Context, adCodeID int64) ([]domain.BudgetHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.BudgetHistoryEntry, 0)
	for i := len(f.history) - 1; i >= 0; i-- {
		if f.history[i].AdCodeID == adCodeID {
			out = append(out, f.history[i])
		}
	}
	return out, nil
}

func (f *fakeBudgets) WithinTx(ctx context.Context, fn func(tx repository.BudgetTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCount++

	tx := &fakeBudgetTx{parent: f, budgets: map[int64]domain.AdBudget{}}
	for k, v := range f.budgets {
		tx.budgets[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	f.budgets = tx.budgets
	f.history = append(f.history, tx.history...)
	return nil
}

type fakeBudgetTx struct {
	parent  *fakeBudgets
	budgets map[int64]domain.AdBudget
	history []domain.BudgetHistoryEntry
}

func (t *fakeBudgetTx) GetForUpdate(ctx context.Context, adCodeID int64) (*domain.AdBudget, error) {
	if !t.parent.adCodes[adCodeID] {
		return nil, domain.ErrNotFound
	}
	b, ok := t.budgets[adCodeID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (t *fakeBudgetTx) Save(ctx context.Context, b domain.AdBudget) error {
	if t.parent.saveErr != nil {
		return t.parent.saveErr
	}
	t.budgets[b.AdCodeID] = b
	return nil
}

func (t *fakeBudgetTx) AppendHistory(ctx context.Context, entry *domain.BudgetHistoryEntry) error {
	t.parent.historyID++
	entry.ID = t.parent.historyID
	t.history = append(t.history, *entry)
	return nil
}
