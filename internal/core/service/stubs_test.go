package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

// passTx runs fn without a real transaction. When rollback is set it restores
// the stub stores after fn fails.
type passTx struct {
	calls    int
	rollback func()
	snapshot func()
}

func (t *passTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	if t.snapshot != nil {
		t.snapshot()
	}
	err := fn(ctx)
	if err != nil && t.rollback != nil {
		t.rollback()
	}
	return err
}

type stubUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrUserExists
		}
	}
	r.nextID++
	u.ID = r.nextID
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubApartmentRepo struct {
	apts map[uint]*domain.Apartment
}

func newStubApartmentRepo(apts ...*domain.Apartment) *stubApartmentRepo {
	r := &stubApartmentRepo{apts: make(map[uint]*domain.Apartment)}
	for _, a := range apts {
		r.apts[a.ID] = a
	}
	return r
}

func (r *stubApartmentRepo) Create(_ context.Context, a *domain.Apartment) error {
	a.ID = uint(len(r.apts) + 1)
	clone := *a
	r.apts[a.ID] = &clone
	return nil
}

func (r *stubApartmentRepo) FindByID(_ context.Context, id uint) (*domain.Apartment, error) {
	a, ok := r.apts[id]
	if !ok {
		return nil, domain.ErrApartmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubApartmentRepo) List(_ context.Context, f domain.ApartmentFilter) ([]*domain.Apartment, error) {
	var out []*domain.Apartment
	for _, a := range r.apts {
		if a.IsOccupied && !f.IncludeOccupied {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubApartmentRepo) MarkOccupied(_ context.Context, id uint) (bool, error) {
	a, ok := r.apts[id]
	if !ok || a.IsOccupied {
		return false, nil
	}
	a.IsOccupied = true
	return true, nil
}

func (r *stubApartmentRepo) MarkVacant(_ context.Context, id uint) error {
	a, ok := r.apts[id]
	if !ok {
		return domain.ErrApartmentNotFound
	}
	a.IsOccupied = false
	return nil
}

func (r *stubApartmentRepo) OccupancyDrift(context.Context) ([]domain.OccupancyDrift, error) {
	return nil, nil
}

func (r *stubApartmentRepo) CountByOccupancy(context.Context) (int64, int64, error) {
	var occ, vac int64
	for _, a := range r.apts {
		if a.IsOccupied {
			occ++
		} else {
			vac++
		}
	}
	return occ, vac, nil
}

type stubLeaseRepo struct {
	leases    map[uint]*domain.Lease
	createErr error
}

func newStubLeaseRepo(leases ...*domain.Lease) *stubLeaseRepo {
	r := &stubLeaseRepo{leases: make(map[uint]*domain.Lease)}
	for _, l := range leases {
		r.leases[l.ID] = l
	}
	return r
}

func (r *stubLeaseRepo) Create(_ context.Context, l *domain.Lease) error {
	if r.createErr != nil {
		return r.createErr
	}
	l.ID = uint(len(r.leases) + 1)
	clone := *l
	r.leases[l.ID] = &clone
	return nil
}

func (r *stubLeaseRepo) FindByID(_ context.Context, id uint) (*domain.Lease, error) {
	l, ok := r.leases[id]
	if !ok {
		return nil, domain.ErrLeaseNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLeaseRepo) FindByIDForTenant(ctx context.Context, id, tenantID uint) (*domain.Lease, error) {
	l, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.TenantID != tenantID {
		return nil, domain.ErrLeaseNotFound
	}
	return l, nil
}

func (r *stubLeaseRepo) List(_ context.Context, f ports.LeaseFilter) ([]*domain.Lease, error) {
	var out []*domain.Lease
	for _, l := range r.leases {
		if f.TenantID != 0 && l.TenantID != f.TenantID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubLeaseRepo) MarkEnded(_ context.Context, id uint, at time.Time) error {
	l, ok := r.leases[id]
	if !ok || l.Status != domain.LeaseActive {
		return domain.ErrLeaseNotFound
	}
	l.Status = domain.LeaseEnded
	l.EndedAt = &at
	return nil
}

type stubApplicationRepo struct {
	apps map[uint]*domain.Application
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{apps: make(map[uint]*domain.Application)}
}

func (r *stubApplicationRepo) Create(_ context.Context, a *domain.Application) error {
	a.ID = uint(len(r.apps) + 1)
	clone := *a
	r.apps[a.ID] = &clone
	return nil
}

func (r *stubApplicationRepo) FindByID(_ context.Context, id uint) (*domain.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *a
	clone.Status = domain.NormalizeApplicationStatus(string(a.Status))
	return &clone, nil
}

func (r *stubApplicationRepo) ListByEmail(ctx context.Context, email string) ([]*domain.Application, error) {
	all, _ := r.List(ctx)
	var out []*domain.Application
	for _, a := range all {
		if strings.EqualFold(a.Email, email) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubApplicationRepo) List(_ context.Context) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.apps {
		clone := *a
		clone.Status = domain.NormalizeApplicationStatus(string(a.Status))
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubApplicationRepo) UpdateStatus(_ context.Context, id uint, s domain.ApplicationStatus) error {
	a, ok := r.apps[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	a.Status = s
	return nil
}

type stubPaymentRepo struct {
	payments []*domain.Payment
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	for _, existing := range r.payments {
		if existing.ExternalRef == p.ExternalRef {
			return domain.ErrPaymentAlreadyRecorded
		}
	}
	p.ID = uint(len(r.payments) + 1)
	clone := *p
	r.payments = append(r.payments, &clone)
	return nil
}

func (r *stubPaymentRepo) List(_ context.Context, f ports.PaymentFilter) ([]*domain.Payment, error) {
	return r.payments, nil
}

type stubMaintenanceRepo struct {
	reqs map[uint]*domain.MaintenanceRequest
}

func newStubMaintenanceRepo() *stubMaintenanceRepo {
	return &stubMaintenanceRepo{reqs: make(map[uint]*domain.MaintenanceRequest)}
}

func (r *stubMaintenanceRepo) Create(_ context.Context, m *domain.MaintenanceRequest) error {
	m.ID = uint(len(r.reqs) + 1)
	clone := *m
	r.reqs[m.ID] = &clone
	return nil
}

func (r *stubMaintenanceRepo) FindByID(_ context.Context, id uint) (*domain.MaintenanceRequest, error) {
	m, ok := r.reqs[id]
	if !ok {
		return nil, domain.ErrMaintenanceNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMaintenanceRepo) List(_ context.Context, f ports.MaintenanceFilter) ([]*domain.MaintenanceRequest, error) {
	var out []*domain.MaintenanceRequest
	for _, m := range r.reqs {
		if f.TenantID != 0 && m.TenantID != f.TenantID {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubMaintenanceRepo) UpdateStatus(_ context.Context, id uint, s domain.MaintenanceStatus) error {
	m, ok := r.reqs[id]
	if !ok {
		return domain.ErrMaintenanceNotFound
	}
	m.Status = s
	return nil
}

type stubProvider struct {
	intents     map[string]*ports.PaymentIntent
	createErr   error
	retrieveErr error
	delay       time.Duration
	lastCreate  ports.PaymentIntentRequest
}

func (p *stubProvider) CreateIntent(ctx context.Context, req ports.PaymentIntentRequest) (*ports.PaymentIntent, error) {
	p.lastCreate = req
	if p.createErr != nil {
		return nil, p.createErr
	}
	return &ports.PaymentIntent{ID: "pi_new", ClientSecret: "pi_new_secret", Status: "requires_payment_method", AmountMinor: req.AmountMinor, Currency: req.Currency, Metadata: req.Metadata}, nil
}

func (p *stubProvider) RetrieveIntent(ctx context.Context, id string) (*ports.PaymentIntent, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.retrieveErr != nil {
		return nil, p.retrieveErr
	}
	intent, ok := p.intents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return intent, nil
}

type stubGuard struct {
	held     map[string]bool
	err      error
	released []string
}

func (g *stubGuard) Claim(_ context.Context, id string, _ time.Duration) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.held[id] {
		return false, nil
	}
	g.held[id] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, id string) error {
	delete(g.held, id)
	g.released = append(g.released, id)
	return nil
}

type recordingActivity struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (r *recordingActivity) Record(e domain.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingActivity) kinds() []domain.ActivityKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}
