package useravatar_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/signal"
	"github.com/louisbranch/lanparty/internal/services/useravatar"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/storage/sqlite"
	"github.com/louisbranch/lanparty/internal/storage/sqlite/sqlitetest"
)

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func gifImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

type fixture struct {
	avatars *useravatar.Service
	ns      *signal.Namespace
	player  users.User
	orga    users.User
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
	svc, err := useravatar.NewService(store, userService, useravatar.NewSignals(ns), filepath.Join(t.TempDir(), "avatars"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return fixture{avatars: svc, ns: ns, player: player, orga: orga}
}

func TestDetectImageType(t *testing.T) {
	if got, ok := useravatar.DetectImageType(pngImage(t)); !ok || got != useravatar.ImageTypePNG {
		t.Fatalf("png detected as %q, %v", got, ok)
	}
	if got, ok := useravatar.DetectImageType(gifImage(t)); !ok || got != useravatar.ImageTypeGIF {
		t.Fatalf("gif detected as %q, %v", got, ok)
	}
	if _, ok := useravatar.DetectImageType([]byte("plain text")); ok {
		t.Fatal("expected text to be rejected")
	}
}

func TestUpdateAvatarImageStoresSelectsAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var published []events.UserAvatarUpdated
	signal.Connect(f.ns.Signal(events.NameUserAvatarUpdated), func(_ context.Context, _ any, e events.UserAvatarUpdated) error {
		published = append(published, e)
		return nil
	})

	avatar, err := f.avatars.UpdateAvatarImage(ctx, f.player.ID, bytes.NewReader(pngImage(t)), nil, f.orga.ID)
	if err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	if avatar.ImageType != useravatar.ImageTypePNG || avatar.CreatorID != f.orga.ID {
		t.Fatalf("avatar = %+v", avatar)
	}
	if _, err := os.Stat(filepath.Join(f.avatars.Dir(), avatar.Filename())); err != nil {
		t.Fatalf("avatar file: %v", err)
	}
	if len(published) != 1 || published[0].UserID != f.player.ID || published[0].InitiatorName() != "Orga" {
		t.Fatalf("published = %+v", published)
	}

	url, err := f.avatars.GetAvatarURLForUser(ctx, f.player.ID)
	if err != nil {
		t.Fatalf("avatar url: %v", err)
	}
	if !strings.HasPrefix(url, useravatar.URLPrefix) || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}

	if err := f.avatars.RemoveAvatarImage(ctx, f.player.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := f.avatars.GetAvatarURLForUser(ctx, f.player.ID); !errors.Is(err, useravatar.ErrAvatarNotSet) {
		t.Fatalf("expected avatar not set, got %v", err)
	}
}

func TestUpdateAvatarImageRejectsProhibitedTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.avatars.UpdateAvatarImage(ctx, f.player.ID, bytes.NewReader(gifImage(t)), []useravatar.ImageType{useravatar.ImageTypePNG}, f.player.ID)
	if !errors.Is(err, useravatar.ErrImageTypeProhibited) {
		t.Fatalf("expected prohibited gif, got %v", err)
	}
	_, err = f.avatars.UpdateAvatarImage(ctx, f.player.ID, strings.NewReader("not an image"), nil, f.player.ID)
	if !errors.Is(err, useravatar.ErrImageTypeProhibited) {
		t.Fatalf("expected prohibited text, got %v", err)
	}
	entries, err := os.ReadDir(f.avatars.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files, got %d", len(entries))
	}
}

func TestUpdateAvatarImageRejectsLargeImages(t *testing.T) {
	f := newFixture(t)
	data := append(pngImage(t), make([]byte, useravatar.MaxImageSize)...)
	_, err := f.avatars.UpdateAvatarImage(context.Background(), f.player.ID, bytes.NewReader(data), nil, f.player.ID)
	if !errors.Is(err, useravatar.ErrImageTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
}

var errStoreDown = errors.New("store down")

// failingStore breaks either avatar write.
type failingStore struct {
	*sqlite.Store
	failPut    bool
	failSelect bool
}

func (s failingStore) PutAvatar(ctx context.Context, avatar useravatar.Avatar) error {
	if s.failPut {
		return errStoreDown
	}
	return s.Store.PutAvatar(ctx, avatar)
}

func (s failingStore) SelectAvatar(ctx context.Context, userID, avatarID uuid.UUID) error {
	if s.failSelect {
		return errStoreDown
	}
	return s.Store.SelectAvatar(ctx, userID, avatarID)
}

func TestUpdateAvatarImageRemovesFileWhenStoreFails(t *testing.T) {
	tests := []struct {
		name  string
		store func(*sqlite.Store) failingStore
	}{
		{name: "put", store: func(s *sqlite.Store) failingStore { return failingStore{Store: s, failPut: true} }},
		{name: "select", store: func(s *sqlite.Store) failingStore { return failingStore{Store: s, failSelect: true} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := sqlitetest.Open(t)
			userService := users.NewService(store)
			player, err := userService.Create(ctx, "Player", false)
			if err != nil {
				t.Fatalf("create player: %v", err)
			}
			dir := filepath.Join(t.TempDir(), "avatars")
			svc, err := useravatar.NewService(tc.store(store), userService, useravatar.NewSignals(signal.NewNamespace(events.Namespace)), dir)
			if err != nil {
				t.Fatalf("new service: %v", err)
			}

			_, err = svc.UpdateAvatarImage(ctx, player.ID, bytes.NewReader(pngImage(t)), nil, player.ID)
			if !errors.Is(err, errStoreDown) {
				t.Fatalf("err = %v, want %v", err, errStoreDown)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("read dir: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("files left = %d, want 0", len(entries))
			}
		})
	}
}
