package ports

import (
	"context"
	"time"

	"github.com/parkview/rental-system/internal/core/domain"
)

// Transactor runs fn inside a single database transaction. Repositories called with
// the ctx passed to fn take part in that transaction; any error returned by fn rolls
// every write back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]*domain.User, error)
}

// ApartmentRepository persists rentable units and their images.
type ApartmentRepository interface {
	Create(ctx context.Context, apt *domain.Apartment) error
	// FindByID returns the apartment with every image in display order.
	FindByID(ctx context.Context, id uint) (*domain.Apartment, error)
	// List returns apartments matching filter, each carrying at most its first image.
	List(ctx context.Context, filter domain.ApartmentFilter) ([]*domain.Apartment, error)
	// MarkOccupied flips is_occupied from false to true. It reports false when the
	// apartment was already occupied.
	MarkOccupied(ctx context.Context, id uint) (bool, error)
	MarkVacant(ctx context.Context, id uint) error
	// OccupancyDrift returns apartments whose flag disagrees with their active leases.
	OccupancyDrift(ctx context.Context) ([]domain.OccupancyDrift, error)
	CountByOccupancy(ctx context.Context) (occupied, vacant int64, err error)
}

// LeaseFilter narrows lease listings. Zero values mean no constraint.
type LeaseFilter struct {
	TenantID uint
	Status   domain.LeaseStatus
}

// LeaseRepository persists leases.
type LeaseRepository interface {
	Create(ctx context.Context, lease *domain.Lease) error
	FindByID(ctx context.Context, id uint) (*domain.Lease, error)
	// FindByIDForTenant returns ErrLeaseNotFound when the lease exists but belongs to
	// another tenant.
	FindByIDForTenant(ctx context.Context, id, tenantID uint) (*domain.Lease, error)
	List(ctx context.Context, filter LeaseFilter) ([]*domain.Lease, error)
	MarkEnded(ctx context.Context, id uint, at time.Time) error
}

// ApplicationRepository persists rental applications. Rows are never deleted.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	FindByID(ctx context.Context, id uint) (*domain.Application, error)
	// ListByEmail matches case-insensitively, newest first.
	ListByEmail(ctx context.Context, email string) ([]*domain.Application, error)
	List(ctx context.Context) ([]*domain.Application, error)
	UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus) error
}

// PaymentFilter narrows payment listings. Zero values mean no constraint.
type PaymentFilter struct {
	TenantID uint
	LeaseID  uint
}

// PaymentRepository persists confirmed payments.
type PaymentRepository interface {
	// Create returns ErrPaymentAlreadyRecorded when the external reference exists.
	Create(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)
}

// MaintenanceFilter narrows maintenance listings. Zero values mean no constraint.
type MaintenanceFilter struct {
	TenantID uint
	Status   domain.MaintenanceStatus
}

// MaintenanceRepository persists maintenance requests. Rows are never deleted.
type MaintenanceRepository interface {
	Create(ctx context.Context, req *domain.MaintenanceRequest) error
	FindByID(ctx context.Context, id uint) (*domain.MaintenanceRequest, error)
	// List orders newest first.
	List(ctx context.Context, filter MaintenanceFilter) ([]*domain.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, id uint, status domain.MaintenanceStatus) error
}

// ActivityFilter narrows activity trail reads.
type ActivityFilter struct {
	EntityType string
	EntityID   uint
	Limit      int
}

// ActivityRepository stores the append-only activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
	List(ctx context.Context, filter ActivityFilter) ([]*domain.ActivityEvent, error)
}
