package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

// PaymentRepository implements ports.PaymentRepository.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts payment. The unique external_ref makes a confirmed charge
// recordable exactly once.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	row := paymentRow{
		LeaseID:     payment.LeaseID,
		Amount:      payment.Amount,
		PaymentDate: payment.PaymentDate.UTC(),
		Method:      payment.Method,
		Status:      payment.Status,
		ExternalRef: payment.ExternalRef,
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrPaymentAlreadyRecorded
		}
		return storageErr("create payment", err)
	}
	payment.ID = row.ID
	payment.CreatedAt = row.CreatedAt
	return nil
}

// List orders by payment date, newest first.
func (r *PaymentRepository) List(ctx context.Context, filter ports.PaymentFilter) ([]*domain.Payment, error) {
	q := conn(ctx, r.db).
		Table("payments").
		Select("payments.*, users.email AS tenant_email").
		Joins("JOIN leases ON leases.id = payments.lease_id").
		Joins("LEFT JOIN users ON users.id = leases.tenant_id")
	if filter.TenantID != 0 {
		q = q.Where("leases.tenant_id = ?", filter.TenantID)
	}
	if filter.LeaseID != 0 {
		q = q.Where("payments.lease_id = ?", filter.LeaseID)
	}

	var views []paymentView
	if err := q.Order("payments.payment_date DESC, payments.id DESC").Scan(&views).Error; err != nil {
		return nil, storageErr("list payments", err)
	}
	out := make([]*domain.Payment, 0, len(views))
	for i := range views {
		out = append(out, views[i].toDomain())
	}
	return out, nil
}
