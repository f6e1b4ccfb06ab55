package ports

import (
	"context"
	"time"

	"github.com/parkview/rental-system/internal/core/domain"
)

// SignupInput carries a new tenant account.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService handles accounts and credential checks.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	// Login verifies credentials and that the account holds role.
	Login(ctx context.Context, email, password, role string) (*domain.User, error)
	CreateAdmin(ctx context.Context, input SignupInput) (*domain.User, error)
	ListTenants(ctx context.Context) ([]*domain.User, error)
}

// CreateApartmentInput carries a new listing.
type CreateApartmentInput struct {
	Address     string
	Bedrooms    int
	Bathrooms   float64
	Price       float64
	Latitude    float64
	Longitude   float64
	Description string
	Images      []string
	Actor       domain.Actor
}

// ApartmentService serves listings.
type ApartmentService interface {
	ListAvailable(ctx context.Context, filter domain.ApartmentFilter) ([]*domain.Apartment, error)
	ListAll(ctx context.Context) ([]*domain.Apartment, error)
	Get(ctx context.Context, id uint) (*domain.Apartment, error)
	Create(ctx context.Context, input CreateApartmentInput) (*domain.Apartment, error)
}

// SubmitApplicationInput carries a rental application. Email comes from the session.
type SubmitApplicationInput struct {
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	CurrentAddress string
	Employer       string
	MonthlyIncome  float64
	MoveInDate     *time.Time
	Occupants      int
	Notes          string
	ApartmentID    *uint
	Actor          domain.Actor
}

// ApplicationService handles intake and review.
type ApplicationService interface {
	Submit(ctx context.Context, input SubmitApplicationInput) (*domain.Application, error)
	ListForUser(ctx context.Context, email string) ([]*domain.Application, error)
	List(ctx context.Context, status string) ([]*domain.Application, error)
	SetStatus(ctx context.Context, id uint, status string, actor domain.Actor) (*domain.Application, error)
}

// CreateLeaseInput carries a new lease.
type CreateLeaseInput struct {
	ApartmentID uint
	TenantID    uint
	StartDate   time.Time
	EndDate     time.Time
	RentAmount  float64
	Actor       domain.Actor
}

// TenantLeases groups a tenant's leases.
type TenantLeases struct {
	Current []*domain.Lease `json:"current"`
	Past    []*domain.Lease `json:"past"`
}

// LeaseService manages the lease lifecycle.
type LeaseService interface {
	Create(ctx context.Context, input CreateLeaseInput) (*domain.Lease, error)
	End(ctx context.Context, id uint, actor domain.Actor) (*domain.Lease, error)
	List(ctx context.Context, status string) ([]*domain.Lease, error)
	ListForTenant(ctx context.Context, tenantID uint) (*TenantLeases, error)
}

// PaymentIntentResult is returned to the client to complete a charge.
type PaymentIntentResult struct {
	ClientSecret    string  `json:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// RecordPaymentInput carries a payment confirmation from the tenant.
type RecordPaymentInput struct {
	TenantID    uint
	LeaseID     uint
	PaymentDate time.Time
	Method      string
	IntentID    string
}

// PaymentService opens and records rent payments.
type PaymentService interface {
	CreateIntent(ctx context.Context, tenantID, leaseID uint) (*PaymentIntentResult, error)
	Record(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error)
	ListForTenant(ctx context.Context, tenantID uint) ([]*domain.Payment, error)
	List(ctx context.Context) ([]*domain.Payment, error)
}

// SubmitMaintenanceInput carries a maintenance request.
type SubmitMaintenanceInput struct {
	TenantID uint
	LeaseID  *uint
	Issues   []string
	Details  string
}

// MaintenanceService tracks maintenance requests.
type MaintenanceService interface {
	Submit(ctx context.Context, input SubmitMaintenanceInput) (*domain.MaintenanceRequest, error)
	ListForTenant(ctx context.Context, tenantID uint) ([]*domain.MaintenanceRequest, error)
	List(ctx context.Context, status string) ([]*domain.MaintenanceRequest, error)
	SetStatus(ctx context.Context, id uint, status string, actor domain.Actor) (*domain.MaintenanceRequest, error)
}

// ActivityService reads the activity trail.
type ActivityService interface {
	List(ctx context.Context, filter ActivityFilter) ([]*domain.ActivityEvent, error)
}
