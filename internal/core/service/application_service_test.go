package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

func newTestApplicationService() (*ApplicationService, *stubApplicationRepo, *recordingActivity) {
	repo := newStubApplicationRepo()
	activity := &recordingActivity{}
	apts := newStubApartmentRepo(&domain.Apartment{ID: 7})
	return NewApplicationService(repo, apts, activity, zerolog.Nop()), repo, activity
}

func applyInput(email string) ports.SubmitApplicationInput {
	return ports.SubmitApplicationInput{Email: email, FirstName: "Ana", LastName: "Lopez", Phone: "555-0100"}
}

func TestApplicationService_Submit(t *testing.T) {
	svc, _, activity := newTestApplicationService()
	in := applyInput("ana@example.com")
	apt := uint(7)
	in.ApartmentID = &apt

	app, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if app.Status != domain.ApplicationSubmitted {
		t.Fatalf("expected submitted, got %s", app.Status)
	}
	if kinds := activity.kinds(); len(kinds) != 1 || kinds[0] != domain.ActivityApplicationCreated {
		t.Fatalf("expected application activity, got %v", kinds)
	}
}

func TestApplicationService_Submit_Validation(t *testing.T) {
	svc, _, _ := newTestApplicationService()
	ctx := context.Background()

	noPhone := applyInput("ana@example.com")
	noPhone.Phone = "  "
	if _, err := svc.Submit(ctx, noPhone); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Submit(ctx, applyInput("")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation without session email, got %v", err)
	}

	missing := applyInput("ana@example.com")
	apt := uint(99)
	missing.ApartmentID = &apt
	if _, err := svc.Submit(ctx, missing); !errors.Is(err, domain.ErrApartmentNotFound) {
		t.Fatalf("expected ErrApartmentNotFound, got %v", err)
	}
}

func TestApplicationService_ListForUser_CaseInsensitive(t *testing.T) {
	svc, _, _ := newTestApplicationService()
	ctx := context.Background()

	_, _ = svc.Submit(ctx, applyInput("Ana@Example.com"))
	_, _ = svc.Submit(ctx, applyInput("someone@example.com"))
	_, _ = svc.Submit(ctx, applyInput("ana@example.com"))

	apps, err := svc.ListForUser(ctx, "ANA@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(apps))
	}
	if apps[0].ID < apps[1].ID {
		t.Fatalf("expected newest first")
	}
}

func TestApplicationService_SetStatus_Unconstrained(t *testing.T) {
	svc, _, _ := newTestApplicationService()
	ctx := context.Background()
	admin := domain.Actor{UserID: 9, Role: domain.RoleAdmin}

	app, _ := svc.Submit(ctx, applyInput("ana@example.com"))

	for _, next := range []string{"approved", "submitted", "UNDER_REVIEW", "approved"} {
		got, err := svc.SetStatus(ctx, app.ID, next, admin)
		if err != nil {
			t.Fatalf("SetStatus(%s): %v", next, err)
		}
		if string(got.Status) != strings.ToLower(next) {
			t.Fatalf("expected %s, got %s", next, got.Status)
		}
	}

	if _, err := svc.SetStatus(ctx, app.ID, "pending", admin); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("legacy values must not be written, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, 404, "approved", admin); !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestApplicationService_List_NormalizedFilter(t *testing.T) {
	svc, repo, _ := newTestApplicationService()
	ctx := context.Background()

	repo.apps[1] = &domain.Application{ID: 1, Status: "pending"}
	repo.apps[2] = &domain.Application{ID: 2, Status: "rejected"}
	repo.apps[3] = &domain.Application{ID: 3, Status: "leased"}
	repo.apps[4] = &domain.Application{ID: 4, Status: domain.ApplicationUnderReview}

	approved, err := svc.List(ctx, "approved")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(approved) != 2 {
		t.Fatalf("expected rejected and leased to normalize to approved, got %d", len(approved))
	}

	submitted, _ := svc.List(ctx, "submitted")
	if len(submitted) != 1 || submitted[0].ID != 1 {
		t.Fatalf("expected pending to normalize to submitted, got %+v", submitted)
	}

	if _, err := svc.List(ctx, "bogus"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
