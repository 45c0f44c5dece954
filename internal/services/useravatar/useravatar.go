// Package useravatar stores uploaded avatar images and tracks which avatar
// each user has selected.
package useravatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/events"
	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/platform/id"
	"github.com/louisbranch/lanparty/internal/platform/signal"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/storage"
)

// MaxImageSize is the largest accepted upload in bytes.
const MaxImageSize = 2 << 20

// URLPrefix is the path avatars are served under.
const URLPrefix = "/static/avatars/"

// ImageType is a supported avatar image format.
type ImageType string

const (
	ImageTypeGIF  ImageType = "gif"
	ImageTypeJPEG ImageType = "jpeg"
	ImageTypePNG  ImageType = "png"
	ImageTypeWebP ImageType = "webp"
)

var mimeImageTypes = map[string]ImageType{
	"image/gif":  ImageTypeGIF,
	"image/jpeg": ImageTypeJPEG,
	"image/png":  ImageTypePNG,
	"image/webp": ImageTypeWebP,
}

// DefaultAllowedTypes are the types accepted when no list is given.
var DefaultAllowedTypes = []ImageType{ImageTypeGIF, ImageTypeJPEG, ImageTypePNG, ImageTypeWebP}

var (
	ErrImageTypeProhibited = apperrors.New(apperrors.CodeImageTypeProhibited, "image type is not allowed")
	ErrImageTooLarge       = apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("image exceeds %d bytes", MaxImageSize))
	ErrAvatarNotSet        = apperrors.New(apperrors.CodeAvatarNotSet, "user has no avatar")
)

// Signals are the signals published by this package.
type Signals struct {
	AvatarUpdated *signal.Signal
}

// NewSignals declares the avatar signals in ns.
func NewSignals(ns *signal.Namespace) Signals {
	return Signals{AvatarUpdated: ns.Signal(events.NameUserAvatarUpdated)}
}

// Avatar is an uploaded image.
type Avatar struct {
	ID        uuid.UUID
	CreatorID uuid.UUID
	ImageType ImageType
	CreatedAt time.Time
}

// Filename is the avatar's file name inside the avatar directory.
func (a Avatar) Filename() string {
	return a.ID.String() + "." + string(a.ImageType)
}

// URLPath is the path the avatar is served at.
func (a Avatar) URLPath() string {
	return URLPrefix + a.Filename()
}

// Store persists avatars and selections.
type Store interface {
	PutAvatar(ctx context.Context, avatar Avatar) error
	// SelectAvatar replaces the user's selected avatar.
	SelectAvatar(ctx context.Context, userID, avatarID uuid.UUID) error
	UnselectAvatar(ctx context.Context, userID uuid.UUID) error
	GetSelectedAvatar(ctx context.Context, userID uuid.UUID) (Avatar, error)
}

// UserGetter resolves users.
type UserGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (users.User, error)
}

// Service manages avatars.
type Service struct {
	store   Store
	users   UserGetter
	signals Signals
	dir     string
	now     func() time.Time
	newID   func() (uuid.UUID, error)
}

// NewService builds an avatar service writing images into dir.
func NewService(store Store, userGetter UserGetter, signals Signals, dir string) (*Service, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("avatar directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar directory: %w", err)
	}
	return &Service{
		store:   store,
		users:   userGetter,
		signals: signals,
		dir:     dir,
		now:     time.Now,
		newID:   id.NewID,
	}, nil
}

// Dir is the directory avatar files are written to.
func (s *Service) Dir() string {
	return s.dir
}

// DetectImageType sniffs the image format of data.
func DetectImageType(data []byte) (ImageType, bool) {
	detected := mimetype.Detect(data)
	for mt := detected; mt != nil; mt = mt.Parent() {
		if imageType, ok := mimeImageTypes[mt.String()]; ok {
			return imageType, true
		}
	}
	return "", false
}

// UpdateAvatarImage stores the uploaded image, selects it as the user's
// avatar and publishes avatar-updated. An empty allowed list means
// DefaultAllowedTypes.
func (s *Service) UpdateAvatarImage(ctx context.Context, userID uuid.UUID, r io.Reader, allowed []ImageType, initiatorID uuid.UUID) (Avatar, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return Avatar{}, err
	}
	initiator, err := s.users.Get(ctx, initiatorID)
	if err != nil {
		return Avatar{}, fmt.Errorf("initiator: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return Avatar{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return Avatar{}, ErrImageTooLarge
	}
	imageType, ok := DetectImageType(data)
	if !ok || !isAllowed(imageType, allowed) {
		return Avatar{}, ErrImageTypeProhibited
	}

	avatarID, err := s.newID()
	if err != nil {
		return Avatar{}, fmt.Errorf("generate avatar id: %w", err)
	}
	avatar := Avatar{
		ID:        avatarID,
		CreatorID: initiator.ID,
		ImageType: imageType,
		CreatedAt: s.now().UTC(),
	}
	if err := s.writeFile(avatar, data); err != nil {
		return Avatar{}, err
	}
	if err := s.store.PutAvatar(ctx, avatar); err != nil {
		s.removeFile(avatar)
		return Avatar{}, fmt.Errorf("put avatar: %w", err)
	}
	if err := s.store.SelectAvatar(ctx, user.ID, avatar.ID); err != nil {
		s.removeFile(avatar)
		return Avatar{}, fmt.Errorf("select avatar: %w", err)
	}

	s.signals.AvatarUpdated.Emit(ctx, s, events.UserAvatarUpdated{
		Base:           events.NewBase(avatar.CreatedAt, initiator.ID, initiator.ScreenName),
		UserID:         user.ID,
		UserScreenName: user.ScreenName,
	})
	return avatar, nil
}

// RemoveAvatarImage unselects the user's avatar. The image file is kept.
func (s *Service) RemoveAvatarImage(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.UnselectAvatar(ctx, userID); err != nil {
		return fmt.Errorf("unselect avatar: %w", err)
	}
	return nil
}

// GetAvatarURLForUser returns the URL path of the user's selected avatar.
func (s *Service) GetAvatarURLForUser(ctx context.Context, userID uuid.UUID) (string, error) {
	avatar, err := s.store.GetSelectedAvatar(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrAvatarNotSet
	}
	if err != nil {
		return "", fmt.Errorf("get selected avatar: %w", err)
	}
	return avatar.URLPath(), nil
}

func (s *Service) writeFile(avatar Avatar, data []byte) error {
	path := filepath.Join(s.dir, avatar.Filename())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create avatar file: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write avatar file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close avatar file: %w", err)
	}
	return nil
}

// removeFile deletes the image of an avatar that could not be recorded.
func (s *Service) removeFile(avatar Avatar) {
	path := filepath.Join(s.dir, avatar.Filename())
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("useravatar: remove orphaned file %s: %v", path, err)
	}
}

func isAllowed(imageType ImageType, allowed []ImageType) bool {
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}
	for _, candidate := range allowed {
		if candidate == imageType {
			return true
		}
	}
	return false
}
