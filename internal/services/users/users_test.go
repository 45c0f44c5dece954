package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/storage/sqlite/sqlitetest"
)

func TestCreateAndFind(t *testing.T) {
	svc := users.NewService(sqlitetest.Open(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, "  Orga ", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ScreenName != "Orga" || !created.Admin {
		t.Fatalf("created = %+v", created)
	}

	found, err := svc.FindByScreenName(ctx, "ORGA")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("found %s, want %s", found.ID, created.ID)
	}
}

func TestCreateRejectsEmptyAndTakenScreenNames(t *testing.T) {
	svc := users.NewService(sqlitetest.Open(t))
	ctx := context.Background()

	if _, err := svc.Create(ctx, "   ", false); !errors.Is(err, users.ErrEmptyScreenName) {
		t.Fatalf("expected empty screen name error, got %v", err)
	}
	if _, err := svc.Create(ctx, "Player", false); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "player", false); !errors.Is(err, users.ErrScreenNameTaken) {
		t.Fatalf("expected screen name taken, got %v", err)
	}
}

func TestStatusChanges(t *testing.T) {
	svc := users.NewService(sqlitetest.Open(t))
	ctx := context.Background()

	u, err := svc.Create(ctx, "Player", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Suspend(ctx, u.ID); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	got, _ := svc.Get(ctx, u.ID)
	if !got.Suspended {
		t.Fatal("expected suspended")
	}
	if err := svc.Unsuspend(ctx, u.ID); err != nil {
		t.Fatalf("unsuspend: %v", err)
	}
	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = svc.Get(ctx, u.ID)
	if got.Suspended || !got.Deleted {
		t.Fatalf("status = %+v", got)
	}
}

func TestGetUnknownUser(t *testing.T) {
	svc := users.NewService(sqlitetest.Open(t))
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Suspend(context.Background(), uuid.New()); !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("expected not found on suspend, got %v", err)
	}
}
