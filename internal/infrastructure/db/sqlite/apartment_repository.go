package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/parkview/rental-system/internal/core/domain"
)

// ApartmentRepository implements ports.ApartmentRepository.
type ApartmentRepository struct {
	db *gorm.DB
}

func NewApartmentRepository(db *gorm.DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

// Create inserts apt and its images. New apartments are always vacant.
func (r *ApartmentRepository) Create(ctx context.Context, apt *domain.Apartment) error {
	db := conn(ctx, r.db)
	row := apartmentRow{
		Address:     apt.Address,
		Bedrooms:    apt.Bedrooms,
		Bathrooms:   apt.Bathrooms,
		Price:       apt.Price,
		Latitude:    apt.Latitude,
		Longitude:   apt.Longitude,
		Description: apt.Description,
		IsOccupied:  false,
	}
	if err := db.Create(&row).Error; err != nil {
		return storageErr("create apartment", err)
	}

	if len(apt.Images) > 0 {
		images := make([]apartmentImageRow, 0, len(apt.Images))
		for i, url := range apt.Images {
			images = append(images, apartmentImageRow{ApartmentID: row.ID, ImageURL: url, Position: i})
		}
		if err := db.Create(&images).Error; err != nil {
			return storageErr("create apartment images", err)
		}
	}

	created := row.toDomain()
	created.Images = append(created.Images, apt.Images...)
	*apt = *created
	return nil
}

func (r *ApartmentRepository) FindByID(ctx context.Context, id uint) (*domain.Apartment, error) {
	db := conn(ctx, r.db)

	var row apartmentRow
	if err := db.First(&row, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrApartmentNotFound
		}
		return nil, storageErr("find apartment", err)
	}

	var urls []string
	err := db.Model(&apartmentImageRow{}).
		Where("apartment_id = ?", id).
		Order("position ASC, id ASC").
		Pluck("image_url", &urls).Error
	if err != nil {
		return nil, storageErr("find apartment images", err)
	}

	apt := row.toDomain()
	apt.Images = append(apt.Images, urls...)
	return apt, nil
}

func (r *ApartmentRepository) List(ctx context.Context, filter domain.ApartmentFilter) ([]*domain.Apartment, error) {
	db := conn(ctx, r.db)

	q := db.Model(&apartmentRow{})
	if !filter.IncludeOccupied {
		q = q.Where("is_occupied = ?", false)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinBeds != nil {
		q = q.Where("bedrooms >= ?", *filter.MinBeds)
	}
	if filter.MinBaths != nil {
		q = q.Where("bathrooms >= ?", *filter.MinBaths)
	}

	var rows []apartmentRow
	if err := q.Order("price ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, storageErr("list apartments", err)
	}
	if len(rows) == 0 {
		return []*domain.Apartment{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}

	// One query for all cover images; the first row per apartment wins.
	var images []apartmentImageRow
	err := db.Where("apartment_id IN ?", ids).
		Order("apartment_id ASC, position ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, storageErr("list apartment images", err)
	}
	cover := make(map[uint]string, len(rows))
	for _, img := range images {
		if _, ok := cover[img.ApartmentID]; !ok {
			cover[img.ApartmentID] = img.ImageURL
		}
	}

	out := make([]*domain.Apartment, 0, len(rows))
	for i := range rows {
		apt := rows[i].toDomain()
		if url, ok := cover[apt.ID]; ok {
			apt.Images = append(apt.Images, url)
		}
		out = append(out, apt)
	}
	return out, nil
}

// MarkOccupied is a compare-and-set on is_occupied.
func (r *ApartmentRepository) MarkOccupied(ctx context.Context, id uint) (bool, error) {
	res := conn(ctx, r.db).Model(&apartmentRow{}).
		Where("id = ? AND is_occupied = ?", id, false).
		Update("is_occupied", true)
	if res.Error != nil {
		return false, storageErr("mark apartment occupied", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ApartmentRepository) MarkVacant(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Model(&apartmentRow{}).
		Where("id = ?", id).
		Update("is_occupied", false)
	if res.Error != nil {
		return storageErr("mark apartment vacant", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrApartmentNotFound
	}
	return nil
}

const occupancyDriftQuery = `
SELECT a.id AS apartment_id, a.is_occupied AS is_occupied, COUNT(l.id) AS active_leases
FROM apartments a
LEFT JOIN leases l ON l.apartment_id = a.id AND l.status = 'active'
GROUP BY a.id, a.is_occupied
HAVING (a.is_occupied AND COUNT(l.id) <> 1) OR (NOT a.is_occupied AND COUNT(l.id) <> 0)
ORDER BY a.id`

func (r *ApartmentRepository) OccupancyDrift(ctx context.Context) ([]domain.OccupancyDrift, error) {
	var out []domain.OccupancyDrift
	if err := conn(ctx, r.db).Raw(occupancyDriftQuery).Scan(&out).Error; err != nil {
		return nil, storageErr("occupancy drift", err)
	}
	return out, nil
}

func (r *ApartmentRepository) CountByOccupancy(ctx context.Context) (occupied, vacant int64, err error) {
	db := conn(ctx, r.db)
	if err = db.Model(&apartmentRow{}).Where("is_occupied = ?", true).Count(&occupied).Error; err != nil {
		return 0, 0, storageErr("count occupied", err)
	}
	if err = db.Model(&apartmentRow{}).Where("is_occupied = ?", false).Count(&vacant).Error; err != nil {
		return 0, 0, storageErr("count vacant", err)
	}
	return occupied, vacant, nil
}
