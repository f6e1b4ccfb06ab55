package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

type stubApartmentService struct {
	lastFilter domain.ApartmentFilter
	apartments []*domain.Apartment
}

func (s *stubApartmentService) ListAvailable(ctx context.Context, f domain.ApartmentFilter) ([]*domain.Apartment, error) {
	s.lastFilter = f
	return s.apartments, nil
}

func (s *stubApartmentService) ListAll(ctx context.Context) ([]*domain.Apartment, error) {
	return s.apartments, nil
}

func (s *stubApartmentService) Get(ctx context.Context, id uint) (*domain.Apartment, error) {
	for _, a := range s.apartments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrApartmentNotFound
}

func (s *stubApartmentService) Create(ctx context.Context, in ports.CreateApartmentInput) (*domain.Apartment, error) {
	return &domain.Apartment{ID: 99, Address: in.Address, Images: in.Images}, nil
}

func TestRentalHandler_List_ParsesFilters(t *testing.T) {
	stub := &stubApartmentService{apartments: []*domain.Apartment{
		{ID: 7, Address: "7 Elm St", Images: []string{"/uploads/7-front.jpg"}},
	}}
	h := NewRentalHandler(stub, "")

	c, rec, e := newContext(http.MethodGet, "/rentals?min_price=1000&max_price=2000&min_beds=2&min_baths=1.5", "")
	c.Request().Host = "api.example.com"
	serve(t, e, c, h.List)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	f := stub.lastFilter
	if f.MinPrice == nil || *f.MinPrice != 1000 || f.MaxPrice == nil || *f.MaxPrice != 2000 {
		t.Fatalf("price bounds not parsed: %+v", f)
	}
	if f.MinBeds == nil || *f.MinBeds != 2 || f.MinBaths == nil || *f.MinBaths != 1.5 {
		t.Fatalf("room bounds not parsed: %+v", f)
	}

	var got []domain.Apartment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0].Images[0] != "http://api.example.com/uploads/7-front.jpg" {
		t.Fatalf("image not absolutized: %+v", got)
	}
	if stub.apartments[0].Images[0] != "/uploads/7-front.jpg" {
		t.Fatalf("service data was mutated")
	}
}

func TestRentalHandler_List_InvalidNumber(t *testing.T) {
	h := NewRentalHandler(&stubApartmentService{}, "")

	c, rec, e := newContext(http.MethodGet, "/rentals?min_price=cheap", "")
	serve(t, e, c, h.List)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRentalHandler_List_NonFiniteNumber(t *testing.T) {
	h := NewRentalHandler(&stubApartmentService{}, "")

	for _, q := range []string{"min_price=NaN", "max_price=Inf", "min_baths=-inf", "min_price=1e400"} {
		c, rec, e := newContext(http.MethodGet, "/rentals?"+q, "")
		serve(t, e, c, h.List)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestRentalHandler_Get_PublicBaseURL(t *testing.T) {
	stub := &stubApartmentService{apartments: []*domain.Apartment{
		{ID: 7, Images: []string{"uploads/a.jpg", "https://cdn.example.com/b.jpg"}},
	}}
	h := NewRentalHandler(stub, "https://rentals.example.com/")

	c, rec, e := newContext(http.MethodGet, "/rentals/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	serve(t, e, c, h.Get)

	var got domain.Apartment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := []string{"https://rentals.example.com/uploads/a.jpg", "https://cdn.example.com/b.jpg"}
	if len(got.Images) != 2 || got.Images[0] != want[0] || got.Images[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got.Images)
	}
}

func TestRentalHandler_Get_NotFound(t *testing.T) {
	h := NewRentalHandler(&stubApartmentService{}, "")

	c, rec, e := newContext(http.MethodGet, "/rentals/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	serve(t, e, c, h.Get)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
