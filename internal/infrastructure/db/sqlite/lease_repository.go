package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

const leaseViewColumns = "leases.*, apartments.address AS apartment_address, users.email AS tenant_email"

// LeaseRepository implements ports.LeaseRepository.
type LeaseRepository struct {
	db *gorm.DB
}

func NewLeaseRepository(db *gorm.DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// Create inserts lease. A second active lease on the same apartment violates
// idx_leases_one_active and is reported as ErrApartmentOccupied.
func (r *LeaseRepository) Create(ctx context.Context, lease *domain.Lease) error {
	row := leaseRow{
		ApartmentID: lease.ApartmentID,
		TenantID:    lease.TenantID,
		StartDate:   lease.StartDate.UTC(),
		EndDate:     lease.EndDate.UTC(),
		RentAmount:  lease.RentAmount,
		Status:      string(lease.Status),
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrApartmentOccupied
		}
		return storageErr("create lease", err)
	}
	lease.ID = row.ID
	lease.CreatedAt = row.CreatedAt
	return nil
}

func (r *LeaseRepository) view(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Table("leases").
		Select(leaseViewColumns).
		Joins("LEFT JOIN apartments ON apartments.id = leases.apartment_id").
		Joins("LEFT JOIN users ON users.id = leases.tenant_id")
}

func (r *LeaseRepository) first(q *gorm.DB) (*domain.Lease, error) {
	var views []leaseView
	if err := q.Limit(1).Scan(&views).Error; err != nil {
		return nil, storageErr("find lease", err)
	}
	if len(views) == 0 {
		return nil, domain.ErrLeaseNotFound
	}
	return views[0].toDomain(), nil
}

func (r *LeaseRepository) FindByID(ctx context.Context, id uint) (*domain.Lease, error) {
	return r.first(r.view(ctx).Where("leases.id = ?", id))
}

func (r *LeaseRepository) FindByIDForTenant(ctx context.Context, id, tenantID uint) (*domain.Lease, error) {
	return r.first(r.view(ctx).Where("leases.id = ? AND leases.tenant_id = ?", id, tenantID))
}

// List orders by start date, newest first.
func (r *LeaseRepository) List(ctx context.Context, filter ports.LeaseFilter) ([]*domain.Lease, error) {
	q := r.view(ctx)
	if filter.TenantID != 0 {
		q = q.Where("leases.tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		q = q.Where("leases.status = ?", string(filter.Status))
	}

	var views []leaseView
	if err := q.Order("leases.start_date DESC, leases.id DESC").Scan(&views).Error; err != nil {
		return nil, storageErr("list leases", err)
	}
	out := make([]*domain.Lease, 0, len(views))
	for i := range views {
		out = append(out, views[i].toDomain())
	}
	return out, nil
}

// MarkEnded moves an active lease to ended. Ending a lease that is not active
// returns ErrLeaseNotFound.
func (r *LeaseRepository) MarkEnded(ctx context.Context, id uint, at time.Time) error {
	res := conn(ctx, r.db).Model(&leaseRow{}).
		Where("id = ? AND status = ?", id, string(domain.LeaseActive)).
		Updates(map[string]any{
			"status":   string(domain.LeaseEnded),
			"ended_at": at.UTC(),
		})
	if res.Error != nil {
		return storageErr("end lease", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrLeaseNotFound
	}
	return nil
}
