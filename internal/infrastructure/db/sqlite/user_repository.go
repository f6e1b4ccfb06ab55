package sqlite

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/parkview/rental-system/internal/core/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user, storing the email lower-cased.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	row := userRow{
		Email:        normalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrUserExists
		}
		return storageErr("create user", err)
	}
	*user = *row.toDomain()
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	err := conn(ctx, r.db).Where("email = ?", normalizeEmail(email)).First(&row).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr("find user by email", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var row userRow
	if err := conn(ctx, r.db).First(&row, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr("find user", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]*domain.User, error) {
	var rows []userRow
	err := conn(ctx, r.db).
		Where("role = ?", role).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr("list users", err)
	}
	out := make([]*domain.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
