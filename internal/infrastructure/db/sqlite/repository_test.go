package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

func ptr[T any](v T) *T { return &v }

func TestUserRepository_CaseInsensitiveEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := seedTenant(t, db, "Ana@Example.com")
	assert.Equal(t, "ana@example.com", u.Email)
	assert.NotZero(t, u.ID)

	found, err := repo.FindByEmail(ctx, "ANA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	err = repo.Create(ctx, &domain.User{Email: "ana@EXAMPLE.com", PasswordHash: "x", Role: domain.RoleTenant})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_ListByRole(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	seedTenant(t, db, "a@example.com")
	seedTenant(t, db, "b@example.com")
	require.NoError(t, repo.Create(ctx, &domain.User{Email: "admin@example.com", PasswordHash: "x", Role: domain.RoleAdmin}))

	tenants, err := repo.ListByRole(ctx, domain.RoleTenant)
	require.NoError(t, err)
	assert.Len(t, tenants, 2)
}

func TestApartmentRepository_ListFiltersAreInclusive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewApartmentRepository(db)

	cheap := seedApartment(t, db, 900, 1, 1, "/img/cheap-1.jpg", "/img/cheap-2.jpg")
	mid := seedApartment(t, db, 1500, 2, 1.5)
	seedApartment(t, db, 2500, 3, 2)

	all, err := repo.List(ctx, domain.ApartmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := repo.List(ctx, domain.ApartmentFilter{MinPrice: ptr(900.0), MaxPrice: ptr(1500.0)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, cheap.ID, got[0].ID)
	assert.Equal(t, []string{"/img/cheap-1.jpg"}, got[0].Images, "listing carries only the first image")
	assert.Equal(t, mid.ID, got[1].ID)
	assert.Empty(t, got[1].Images)

	got, err = repo.List(ctx, domain.ApartmentFilter{MinBeds: ptr(2), MinBaths: ptr(1.5)})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.List(ctx, domain.ApartmentFilter{MinPrice: ptr(5000.0)})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApartmentRepository_OccupiedHiddenFromListing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewApartmentRepository(db)

	apt := seedApartment(t, db, 1000, 2, 1)
	tenant := seedTenant(t, db, "t@example.com")
	seedLease(t, db, apt.ID, tenant.ID)

	got, err := repo.List(ctx, domain.ApartmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.List(ctx, domain.ApartmentFilter{IncludeOccupied: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsOccupied)
}

func TestApartmentRepository_FindByIDImagesInOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	apt := seedApartment(t, db, 1000, 2, 1, "a.jpg", "b.jpg", "c.jpg")
	got, err := NewApartmentRepository(db).FindByID(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, got.Images)

	_, err = NewApartmentRepository(db).FindByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrApartmentNotFound)
}

func TestApartmentRepository_MarkOccupiedIsCompareAndSet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewApartmentRepository(db)
	apt := seedApartment(t, db, 1000, 2, 1)

	ok, err := repo.MarkOccupied(ctx, apt.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkOccupied(ctx, apt.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.MarkVacant(ctx, apt.ID))
	assert.ErrorIs(t, repo.MarkVacant(ctx, 4242), domain.ErrApartmentNotFound)
}

func TestLeaseRepository_OneActiveLeasePerApartment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	leases := NewLeaseRepository(db)

	apt := seedApartment(t, db, 1000, 2, 1)
	t1 := seedTenant(t, db, "one@example.com")
	t2 := seedTenant(t, db, "two@example.com")
	first := seedLease(t, db, apt.ID, t1.ID)

	// Bypass the occupancy flag to hit the storage-level guard directly.
	dup := &domain.Lease{ApartmentID: apt.ID, TenantID: t2.ID, StartDate: time.Now(), EndDate: time.Now().AddDate(1, 0, 0), RentAmount: 900, Status: domain.LeaseActive}
	assert.ErrorIs(t, leases.Create(ctx, dup), domain.ErrApartmentOccupied)

	require.NoError(t, leases.MarkEnded(ctx, first.ID, time.Now()))
	assert.ErrorIs(t, leases.MarkEnded(ctx, first.ID, time.Now()), domain.ErrLeaseNotFound)

	again := &domain.Lease{ApartmentID: apt.ID, TenantID: t2.ID, StartDate: time.Now(), EndDate: time.Now().AddDate(1, 0, 0), RentAmount: 900, Status: domain.LeaseActive}
	assert.NoError(t, leases.Create(ctx, again))
}

func TestLeaseRepository_ViewsAndOwnership(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	leases := NewLeaseRepository(db)

	apt := seedApartment(t, db, 1000, 2, 1)
	owner := seedTenant(t, db, "owner@example.com")
	other := seedTenant(t, db, "other@example.com")
	l := seedLease(t, db, apt.ID, owner.ID)

	got, err := leases.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", got.ApartmentAddress)
	assert.Equal(t, "owner@example.com", got.TenantEmail)
	assert.Equal(t, 1250.50, got.RentAmount)
	assert.True(t, got.IsActive())
	assert.Nil(t, got.EndedAt)

	_, err = leases.FindByIDForTenant(ctx, l.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrLeaseNotFound)

	_, err = leases.FindByIDForTenant(ctx, l.ID, owner.ID)
	assert.NoError(t, err)

	list, err := leases.List(ctx, ports.LeaseFilter{TenantID: other.ID})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, leases.MarkEnded(ctx, l.ID, time.Now()))
	list, err = leases.List(ctx, ports.LeaseFilter{Status: domain.LeaseEnded})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].EndedAt)
}

func TestApartmentRepository_OccupancyDrift(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewApartmentRepository(db)

	consistent := seedApartment(t, db, 1000, 2, 1)
	flagOnly := seedApartment(t, db, 1100, 2, 1)
	tenant := seedTenant(t, db, "t@example.com")
	seedLease(t, db, consistent.ID, tenant.ID)

	drift, err := repo.OccupancyDrift(ctx)
	require.NoError(t, err)
	assert.Empty(t, drift)

	_, err = repo.MarkOccupied(ctx, flagOnly.ID)
	require.NoError(t, err)

	drift, err = repo.OccupancyDrift(ctx)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, flagOnly.ID, drift[0].ApartmentID)
	assert.True(t, drift[0].IsOccupied)
	assert.Equal(t, 0, drift[0].ActiveLeases)

	occupied, vacant, err := repo.CountByOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), occupied)
	assert.Equal(t, int64(0), vacant)
}

func TestApplicationRepository_LegacyStatusNormalizedOnRead(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewApplicationRepository(db)

	legacy := []string{"pending", "rejected", "leased", "under_review", "approved"}
	for _, s := range legacy {
		row := applicationRow{Email: "Mixed@Example.com", FirstName: "A", LastName: "B", Phone: "1", Status: s}
		require.NoError(t, db.Create(&row).Error)
	}

	apps, err := repo.ListByEmail(ctx, "mixed@example.com")
	require.NoError(t, err)
	require.Len(t, apps, len(legacy))

	want := map[uint]domain.ApplicationStatus{}
	expected := []domain.ApplicationStatus{
		domain.ApplicationSubmitted, domain.ApplicationApproved, domain.ApplicationApproved,
		domain.ApplicationUnderReview, domain.ApplicationApproved,
	}
	for i := range legacy {
		want[uint(i+1)] = expected[i]
	}
	for _, a := range apps {
		assert.Equal(t, want[a.ID], a.Status, "application %d", a.ID)
	}
	assert.Greater(t, apps[0].ID, apps[len(apps)-1].ID, "newest first")

	require.NoError(t, repo.UpdateStatus(ctx, 1, domain.ApplicationUnderReview))
	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationUnderReview, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 999, domain.ApplicationApproved), domain.ErrApplicationNotFound)
}

func TestPaymentRepository_ExternalRefUnique(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	payments := NewPaymentRepository(db)

	apt := seedApartment(t, db, 1000, 2, 1)
	owner := seedTenant(t, db, "owner@example.com")
	other := seedTenant(t, db, "other@example.com")
	l := seedLease(t, db, apt.ID, owner.ID)

	p := &domain.Payment{LeaseID: l.ID, Amount: 1250.50, PaymentDate: time.Now(), Method: "card", Status: domain.PaymentStatusPaid, ExternalRef: "pi_1"}
	require.NoError(t, payments.Create(ctx, p))
	assert.NotZero(t, p.ID)

	dup := *p
	dup.ID = 0
	err := payments.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrPaymentAlreadyRecorded)

	mine, err := payments.List(ctx, ports.PaymentFilter{TenantID: owner.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "owner@example.com", mine[0].TenantEmail)
	assert.Equal(t, 1250.50, mine[0].Amount)

	theirs, err := payments.List(ctx, ports.PaymentFilter{TenantID: other.ID})
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestMaintenanceRepository_IssuesRoundTripNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMaintenanceRepository(db)
	tenant := seedTenant(t, db, "t@example.com")

	first := &domain.MaintenanceRequest{TenantID: tenant.ID, Issues: []string{"plumbing"}, Status: domain.MaintenancePending}
	second := &domain.MaintenanceRequest{TenantID: tenant.ID, Issues: []string{"electrical", "hvac"}, Details: "no heat", Status: domain.MaintenancePending}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.List(ctx, ports.MaintenanceFilter{TenantID: tenant.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, []string{"electrical", "hvac"}, list[0].Issues)
	assert.Equal(t, "t@example.com", list[0].TenantEmail)

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, domain.MaintenanceCompleted))
	done, err := repo.List(ctx, ports.MaintenanceFilter{Status: domain.MaintenanceCompleted})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, first.ID, done[0].ID)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 999, domain.MaintenanceCompleted), domain.ErrMaintenanceNotFound)
	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrMaintenanceNotFound)
}

func TestJoinedViews_CarryRowColumns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	apt := seedApartment(t, db, 1000, 2, 1)
	owner := seedTenant(t, db, "owner@example.com")
	l := seedLease(t, db, apt.ID, owner.ID)

	lease, err := NewLeaseRepository(db).FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, lease.ID)
	assert.Equal(t, apt.ID, lease.ApartmentID)
	assert.Equal(t, owner.ID, lease.TenantID)
	assert.Equal(t, domain.LeaseActive, lease.Status)
	assert.Equal(t, 1250.50, lease.RentAmount)
	assert.True(t, lease.StartDate.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, lease.CreatedAt.IsZero())

	paid := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	payments := NewPaymentRepository(db)
	require.NoError(t, payments.Create(ctx, &domain.Payment{LeaseID: l.ID, Amount: 1250.50, PaymentDate: paid, Method: "card", Status: domain.PaymentStatusPaid, ExternalRef: "pi_view"}))
	plist, err := payments.List(ctx, ports.PaymentFilter{LeaseID: l.ID})
	require.NoError(t, err)
	require.Len(t, plist, 1)
	assert.NotZero(t, plist[0].ID)
	assert.Equal(t, l.ID, plist[0].LeaseID)
	assert.Equal(t, "card", plist[0].Method)
	assert.Equal(t, domain.PaymentStatusPaid, plist[0].Status)
	assert.Equal(t, "pi_view", plist[0].ExternalRef)
	assert.True(t, plist[0].PaymentDate.Equal(paid))

	maint := NewMaintenanceRepository(db)
	req := &domain.MaintenanceRequest{TenantID: owner.ID, LeaseID: &l.ID, Issues: []string{"plumbing"}, Details: "leak", Status: domain.MaintenanceInProgress}
	require.NoError(t, maint.Create(ctx, req))
	got, err := maint.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, owner.ID, got.TenantID)
	require.NotNil(t, got.LeaseID)
	assert.Equal(t, l.ID, *got.LeaseID)
	assert.Equal(t, []string{"plumbing"}, got.Issues)
	assert.Equal(t, "leak", got.Details)
	assert.Equal(t, domain.MaintenanceInProgress, got.Status)
}
