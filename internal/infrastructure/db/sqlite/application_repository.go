package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/parkview/rental-system/internal/core/domain"
)

// ApplicationRepository implements ports.ApplicationRepository. Statuses are
// normalized when read; stored legacy values are left untouched.
type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	row := applicationRow{
		Email:          normalizeEmail(app.Email),
		FirstName:      app.FirstName,
		LastName:       app.LastName,
		Phone:          app.Phone,
		CurrentAddress: app.CurrentAddress,
		Employer:       app.Employer,
		MonthlyIncome:  app.MonthlyIncome,
		MoveInDate:     app.MoveInDate,
		Occupants:      app.Occupants,
		Notes:          app.Notes,
		ApartmentID:    app.ApartmentID,
		Status:         string(app.Status),
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return storageErr("create application", err)
	}
	*app = *row.toDomain()
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uint) (*domain.Application, error) {
	var row applicationRow
	if err := conn(ctx, r.db).First(&row, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, storageErr("find application", err)
	}
	return row.toDomain(), nil
}

func (r *ApplicationRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Application, error) {
	return r.list(conn(ctx, r.db).Where("LOWER(email) = ?", normalizeEmail(email)))
}

func (r *ApplicationRepository) List(ctx context.Context) ([]*domain.Application, error) {
	return r.list(conn(ctx, r.db))
}

func (r *ApplicationRepository) list(q *gorm.DB) ([]*domain.Application, error) {
	var rows []applicationRow
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, storageErr("list applications", err)
	}
	out := make([]*domain.Application, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus) error {
	res := conn(ctx, r.db).Model(&applicationRow{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return storageErr("update application status", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}
