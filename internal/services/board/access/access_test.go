package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/board/access"
	"github.com/louisbranch/lanparty/internal/storage/sqlite/sqlitetest"
)

func TestGrantAndRevokeAccess(t *testing.T) {
	svc := access.NewService(sqlitetest.Open(t))
	ctx := context.Background()
	userID := uuid.New()

	ok, err := svc.HasAccess(ctx, "orga", userID)
	if err != nil || ok {
		t.Fatalf("HasAccess before grant = %v, %v", ok, err)
	}

	first, err := svc.GrantAccess(ctx, " orga ", userID)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if first.BoardID != "orga" {
		t.Fatalf("board id = %q", first.BoardID)
	}
	second, err := svc.GrantAccess(ctx, "orga", userID)
	if err != nil {
		t.Fatalf("grant again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second grant replaced the first: %s != %s", second.ID, first.ID)
	}

	ok, err = svc.HasAccess(ctx, "orga", userID)
	if err != nil || !ok {
		t.Fatalf("HasAccess after grant = %v, %v", ok, err)
	}
	grants, err := svc.GetGrants(ctx, "orga")
	if err != nil {
		t.Fatalf("grants: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("grants = %+v", grants)
	}

	if err := svc.RevokeAccess(ctx, "orga", userID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := svc.RevokeAccess(ctx, "orga", userID); !errors.Is(err, access.ErrGrantNotFound) {
		t.Fatalf("expected grant not found, got %v", err)
	}
}

func TestGrantAccessRequiresBoard(t *testing.T) {
	svc := access.NewService(sqlitetest.Open(t))
	if _, err := svc.GrantAccess(context.Background(), " ", uuid.New()); err == nil {
		t.Fatal("expected error for empty board id")
	}
}
