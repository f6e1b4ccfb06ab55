package sqlite

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

// MaintenanceRepository implements ports.MaintenanceRepository.
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) Create(ctx context.Context, req *domain.MaintenanceRequest) error {
	row := maintenanceRow{
		TenantID: req.TenantID,
		LeaseID:  req.LeaseID,
		Issues:   datatypes.JSONSlice[string](req.Issues),
		Details:  req.Details,
		Status:   string(req.Status),
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return storageErr("create maintenance request", err)
	}
	req.ID = row.ID
	req.CreatedAt = row.CreatedAt
	req.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *MaintenanceRepository) view(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Table("maintenance_requests").
		Select("maintenance_requests.*, users.email AS tenant_email").
		Joins("LEFT JOIN users ON users.id = maintenance_requests.tenant_id")
}

func (r *MaintenanceRepository) FindByID(ctx context.Context, id uint) (*domain.MaintenanceRequest, error) {
	var views []maintenanceView
	if err := r.view(ctx).Where("maintenance_requests.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, storageErr("find maintenance request", err)
	}
	if len(views) == 0 {
		return nil, domain.ErrMaintenanceNotFound
	}
	return views[0].toDomain(), nil
}

func (r *MaintenanceRepository) List(ctx context.Context, filter ports.MaintenanceFilter) ([]*domain.MaintenanceRequest, error) {
	q := r.view(ctx)
	if filter.TenantID != 0 {
		q = q.Where("maintenance_requests.tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		q = q.Where("maintenance_requests.status = ?", string(filter.Status))
	}

	var views []maintenanceView
	err := q.Order("maintenance_requests.created_at DESC, maintenance_requests.id DESC").Scan(&views).Error
	if err != nil {
		return nil, storageErr("list maintenance requests", err)
	}
	out := make([]*domain.MaintenanceRequest, 0, len(views))
	for i := range views {
		out = append(out, views[i].toDomain())
	}
	return out, nil
}

func (r *MaintenanceRepository) UpdateStatus(ctx context.Context, id uint, status domain.MaintenanceStatus) error {
	res := conn(ctx, r.db).Model(&maintenanceRow{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return storageErr("update maintenance status", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMaintenanceNotFound
	}
	return nil
}
