package userbadge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/signal"
	"github.com/louisbranch/lanparty/internal/services/userbadge"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/storage/sqlite/sqlitetest"
)

type fixture struct {
	badges *userbadge.Service
	ns     *signal.Namespace
	player users.User
	orga   users.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := sqlitetest.Open(t)
	userService := users.NewService(store)
	player, err := userService.Create(ctx, "Player", false)
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	orga, err := userService.Create(ctx, "Orga", true)
	if err != nil {
		t.Fatalf("create orga: %v", err)
	}
	ns := signal.NewNamespace(events.Namespace)
	return fixture{
		badges: userbadge.NewService(store, userService, userbadge.NewSignals(ns)),
		ns:     ns,
		player: player,
		orga:   orga,
	}
}

func TestCreateBadgeValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.badges.CreateBadge(ctx, "Not A Slug", "Label", "", false); !errors.Is(err, userbadge.ErrInvalidSlug) {
		t.Fatalf("expected invalid slug, got %v", err)
	}
	if _, err := f.badges.CreateBadge(ctx, "early-bird", " ", "", false); !errors.Is(err, userbadge.ErrEmptyLabel) {
		t.Fatalf("expected empty label, got %v", err)
	}
	if _, err := f.badges.CreateBadge(ctx, "early-bird", "Early Bird", "", false); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.badges.CreateBadge(ctx, "early-bird", "Again", "", false); !errors.Is(err, userbadge.ErrBadgeSlugTaken) {
		t.Fatalf("expected slug taken, got %v", err)
	}
}

func TestAwardBadgeToUserPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	badge, err := f.badges.CreateBadge(ctx, "early-bird", "Early Bird", "First in line", true)
	if err != nil {
		t.Fatalf("create badge: %v", err)
	}

	var published []events.UserBadgeAwarded
	signal.Connect(f.ns.Signal(events.NameUserBadgeAwarded), func(_ context.Context, _ any, e events.UserBadgeAwarded) error {
		published = append(published, e)
		return nil
	})

	awarding, event, err := f.badges.AwardBadgeToUser(ctx, badge.ID, f.player.ID, f.orga.ID)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if awarding.BadgeID != badge.ID || awarding.UserID != f.player.ID {
		t.Fatalf("awarding = %+v", awarding)
	}
	if event.BadgeLabel != "Early Bird" || event.InitiatorName() != "Orga" || event.UserScreenName != "Player" {
		t.Fatalf("event = %+v", event)
	}
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}

	awarded, err := f.badges.GetBadgesAwardedToUser(ctx, f.player.ID)
	if err != nil {
		t.Fatalf("awarded: %v", err)
	}
	if len(awarded) != 1 || awarded[0].Slug != "early-bird" {
		t.Fatalf("awarded = %+v", awarded)
	}
	counts, err := f.badges.CountAwardings(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[badge.ID] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestAwardBadgeBySystem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	badge, err := f.badges.CreateBadge(ctx, "veteran", "Veteran", "", false)
	if err != nil {
		t.Fatalf("create badge: %v", err)
	}
	_, event, err := f.badges.AwardBadgeToUser(ctx, badge.ID, f.player.ID, uuid.Nil)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if event.InitiatorID.Valid || event.InitiatorName() != "" {
		t.Fatalf("expected system initiator, got %+v", event.Base)
	}
}

func TestAwardUnknownBadge(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.badges.AwardBadgeToUser(context.Background(), uuid.New(), f.player.ID, f.orga.ID)
	if !errors.Is(err, userbadge.ErrBadgeNotFound) {
		t.Fatalf("expected badge not found, got %v", err)
	}
}
