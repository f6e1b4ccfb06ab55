package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

// ApartmentService serves listings and lets admins add units.
type ApartmentService struct {
	apartments ports.ApartmentRepository
	tx         ports.Transactor
	activity   ports.ActivityRecorder
	log        zerolog.Logger
}

func NewApartmentService(apartments ports.ApartmentRepository, tx ports.Transactor, activity ports.ActivityRecorder, log zerolog.Logger) *ApartmentService {
	return &ApartmentService{apartments: apartments, tx: tx, activity: recorderOrDiscard(activity), log: log}
}

// ListAvailable returns vacant apartments matching filter. Thresholds are
// inclusive, so a price floor above the ceiling matches nothing.
func (s *ApartmentService) ListAvailable(ctx context.Context, filter domain.ApartmentFilter) ([]*domain.Apartment, error) {
	if emptyPriceRange(filter) {
		return []*domain.Apartment{}, nil
	}
	filter.IncludeOccupied = false
	return s.apartments.List(ctx, filter)
}

// ListAll returns every apartment, occupied or not.
func (s *ApartmentService) ListAll(ctx context.Context) ([]*domain.Apartment, error) {
	return s.apartments.List(ctx, domain.ApartmentFilter{IncludeOccupied: true})
}

func (s *ApartmentService) Get(ctx context.Context, id uint) (*domain.Apartment, error) {
	if id == 0 {
		return nil, domain.ErrApartmentNotFound
	}
	return s.apartments.FindByID(ctx, id)
}

// Create adds a vacant apartment with its images.
func (s *ApartmentService) Create(ctx context.Context, in ports.CreateApartmentInput) (*domain.Apartment, error) {
	switch {
	case strings.TrimSpace(in.Address) == "":
		return nil, domain.Invalidf("address is required")
	case in.Bedrooms < 0:
		return nil, domain.Invalidf("bedrooms must not be negative")
	case in.Bathrooms < 0 || !finite(in.Bathrooms):
		return nil, domain.Invalidf("bathrooms must not be negative")
	case in.Price <= 0 || !finite(in.Price):
		return nil, domain.Invalidf("price must be positive")
	}

	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	apt := &domain.Apartment{
		Address:     strings.TrimSpace(in.Address),
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Price:       in.Price,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Description: in.Description,
		Images:      images,
	}
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.apartments.Create(ctx, apt)
	}); err != nil {
		return nil, err
	}

	s.log.Info().Uint("apartment_id", apt.ID).Msg("apartment created")
	s.activity.Record(newActivity(domain.ActivityApartmentCreated, "apartment", apt.ID, in.Actor,
		map[string]string{"price": strconv.FormatFloat(apt.Price, 'f', 2, 64)}))
	return apt, nil
}

func emptyPriceRange(f domain.ApartmentFilter) bool {
	return f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
