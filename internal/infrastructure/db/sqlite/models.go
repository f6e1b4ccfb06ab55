package sqlite

import (
	"time"

	"gorm.io/datatypes"

	"github.com/parkview/rental-system/internal/core/domain"
)

type userRow struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:320;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	FirstName    string `gorm:"size:100;not null"`
	LastName     string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type apartmentRow struct {
	ID          uint    `gorm:"primaryKey"`
	Address     string  `gorm:"not null"`
	Bedrooms    int     `gorm:"not null;index"`
	Bathrooms   float64 `gorm:"not null"`
	Price       float64 `gorm:"not null;index"`
	Latitude    float64
	Longitude   float64
	Description string
	IsOccupied  bool `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (apartmentRow) TableName() string { return "apartments" }

func (r *apartmentRow) toDomain() *domain.Apartment {
	return &domain.Apartment{
		ID:          r.ID,
		Address:     r.Address,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Price:       r.Price,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Description: r.Description,
		IsOccupied:  r.IsOccupied,
		Images:      []string{},
		CreatedAt:   r.CreatedAt,
	}
}

type apartmentImageRow struct {
	ID          uint   `gorm:"primaryKey"`
	ApartmentID uint   `gorm:"not null;index"`
	ImageURL    string `gorm:"not null"`
	Position    int    `gorm:"not null;default:0"`
}

func (apartmentImageRow) TableName() string { return "apartment_images" }

type leaseRow struct {
	ID          uint      `gorm:"primaryKey"`
	ApartmentID uint      `gorm:"not null;index"`
	TenantID    uint      `gorm:"not null;index"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
	RentAmount  float64   `gorm:"not null"`
	Status      string    `gorm:"size:16;not null;index"`
	EndedAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (leaseRow) TableName() string { return "leases" }

// leaseView is a lease joined with its display fields. Scan only fills
// exported, non-embedded fields, so the lease columns are listed out.
type leaseView struct {
	ID               uint
	ApartmentID      uint
	TenantID         uint
	StartDate        time.Time
	EndDate          time.Time
	RentAmount       float64
	Status           string
	EndedAt          *time.Time
	CreatedAt        time.Time
	ApartmentAddress string
	TenantEmail      string
}

func (v *leaseView) toDomain() *domain.Lease {
	return &domain.Lease{
		ID:               v.ID,
		ApartmentID:      v.ApartmentID,
		TenantID:         v.TenantID,
		StartDate:        v.StartDate,
		EndDate:          v.EndDate,
		RentAmount:       v.RentAmount,
		Status:           domain.LeaseStatus(v.Status),
		EndedAt:          v.EndedAt,
		CreatedAt:        v.CreatedAt,
		ApartmentAddress: v.ApartmentAddress,
		TenantEmail:      v.TenantEmail,
	}
}

type applicationRow struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"size:320;not null;index"`
	FirstName      string `gorm:"size:100;not null"`
	LastName       string `gorm:"size:100;not null"`
	Phone          string `gorm:"size:32;not null"`
	CurrentAddress string
	Employer       string
	MonthlyIncome  float64
	MoveInDate     *time.Time
	Occupants      int
	Notes          string
	ApartmentID    *uint
	Status         string `gorm:"size:32;not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (applicationRow) TableName() string { return "rental_applications" }

func (r *applicationRow) toDomain() *domain.Application {
	return &domain.Application{
		ID:             r.ID,
		Email:          r.Email,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		CurrentAddress: r.CurrentAddress,
		Employer:       r.Employer,
		MonthlyIncome:  r.MonthlyIncome,
		MoveInDate:     r.MoveInDate,
		Occupants:      r.Occupants,
		Notes:          r.Notes,
		ApartmentID:    r.ApartmentID,
		Status:         domain.NormalizeApplicationStatus(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type paymentRow struct {
	ID          uint      `gorm:"primaryKey"`
	LeaseID     uint      `gorm:"not null;index"`
	Amount      float64   `gorm:"not null"`
	PaymentDate time.Time `gorm:"not null"`
	Method      string    `gorm:"size:32;not null"`
	Status      string    `gorm:"size:16;not null"`
	ExternalRef string    `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt   time.Time
}

func (paymentRow) TableName() string { return "payments" }

type paymentView struct {
	ID          uint
	LeaseID     uint
	Amount      float64
	PaymentDate time.Time
	Method      string
	Status      string
	ExternalRef string
	CreatedAt   time.Time
	TenantEmail string
}

func (v *paymentView) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:          v.ID,
		LeaseID:     v.LeaseID,
		Amount:      v.Amount,
		PaymentDate: v.PaymentDate,
		Method:      v.Method,
		Status:      v.Status,
		ExternalRef: v.ExternalRef,
		CreatedAt:   v.CreatedAt,
		TenantEmail: v.TenantEmail,
	}
}

type maintenanceRow struct {
	ID        uint                        `gorm:"primaryKey"`
	TenantID  uint                        `gorm:"not null;index"`
	LeaseID   *uint                       `gorm:"index"`
	Issues    datatypes.JSONSlice[string] `gorm:"not null"`
	Details   string
	Status    string `gorm:"size:16;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (maintenanceRow) TableName() string { return "maintenance_requests" }

type maintenanceView struct {
	ID          uint
	TenantID    uint
	LeaseID     *uint
	Issues      datatypes.JSONSlice[string]
	Details     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	TenantEmail string
}

func (v *maintenanceView) toDomain() *domain.MaintenanceRequest {
	issues := []string(v.Issues)
	if issues == nil {
		issues = []string{}
	}
	return &domain.MaintenanceRequest{
		ID:          v.ID,
		TenantID:    v.TenantID,
		LeaseID:     v.LeaseID,
		Issues:      issues,
		Details:     v.Details,
		Status:      domain.MaintenanceStatus(v.Status),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		TenantEmail: v.TenantEmail,
	}
}
