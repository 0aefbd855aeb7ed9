package service

import (
	"context"
	"errors"
	"testing"

	"freelance-marketplace-api/internal/common"
	"freelance-marketplace-api/internal/entity"

	"github.com/google/uuid"
)

func TestCreateGigStartsOpen(t *testing.T) {
	store := newMemStore()
	gigs := NewGigService(store.repositories())
	owner := uuid.New()

	out, err := gigs.CreateGig(context.Background(), &entity.CreateGigInput{
		Title: "Mobile app", Description: "iOS and Android", Budget: 1200, OwnerId: owner.String(),
	})
	if err != nil {
		t.Fatalf("CreateGig: %v", err)
	}

	if out.Status != common.GigOpen || out.OwnerId != owner.String() || out.Budget != 1200 {
		t.Errorf("created gig = %+v", out)
	}
}

func TestGetGigById(t *testing.T) {
	store := newMemStore()
	gigs := NewGigService(store.repositories())
	gig := store.addGig(uuid.New(), "Copywriting", common.GigOpen)

	out, err := gigs.GetGigById(context.Background(), gig.Id.String())
	if err != nil {
		t.Fatalf("GetGigById: %v", err)
	}
	if out.Title != "Copywriting" {
		t.Errorf("title = %q", out.Title)
	}

	for _, id := range []string{uuid.NewString(), "nope"} {
		if _, err := gigs.GetGigById(context.Background(), id); !errors.Is(err, ErrGigNotFound) {
			t.Errorf("GetGigById(%q) err = %v, want ErrGigNotFound", id, err)
		}
	}
}

func TestGetOpenGigsSearchAndOrder(t *testing.T) {
	store := newMemStore()
	gigs := NewGigService(store.repositories())
	owner := uuid.New()

	store.addGig(owner, "Logo design", common.GigOpen)
	store.addGig(owner, "Backend API", common.GigOpen)
	store.addGig(owner, "Logo animation", common.GigAssigned)
	newest := store.addGig(owner, "LOGO refresh", common.GigOpen)

	out, err := gigs.GetOpenGigs(context.Background(), "logo", entity.NewPaginationInput(10, 0))
	if err != nil {
		t.Fatalf("GetOpenGigs: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d gigs, want 2: %+v", len(out), out)
	}
	if out[0].Id != newest.Id.String() {
		t.Errorf("first gig = %s, want newest %s", out[0].Title, newest.Title)
	}

	all, err := gigs.GetOpenGigs(context.Background(), "", entity.NewPaginationInput(2, 1))
	if err != nil {
		t.Fatalf("GetOpenGigs: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("page size = %d, want 2", len(all))
	}
}

func TestGetUserGigs(t *testing.T) {
	store := newMemStore()
	gigs := NewGigService(store.repositories())
	owner := uuid.New()
	store.addGig(owner, "a", common.GigOpen)
	store.addGig(owner, "b", common.GigAssigned)
	store.addGig(uuid.New(), "c", common.GigOpen)

	out, err := gigs.GetUserGigs(context.Background(), owner.String(), entity.NewPaginationInput(10, 0))
	if err != nil {
		t.Fatalf("GetUserGigs: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("got %d gigs, want 2", len(out))
	}
}

func TestPingMapsStoreFailure(t *testing.T) {
	store := newMemStore()
	diag := NewDiagnosticsService(store.repositories())

	if err := diag.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	store.pingErr = errors.New("down")
	if err := diag.Ping(context.Background()); KindOf(err) != KindInternal {
		t.Errorf("kind = %v, want Internal", KindOf(err))
	}
}
