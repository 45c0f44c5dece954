// Package admin wires the admin backend process: storage, domain services,
// the webhook announcer and the HTTP server.
package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/lanparty/internal/events"
	entrypoint "github.com/louisbranch/lanparty/internal/platform/cmd"
	platformi18n "github.com/louisbranch/lanparty/internal/platform/i18n"
	"github.com/louisbranch/lanparty/internal/platform/signal"
	"github.com/louisbranch/lanparty/internal/services/admin"
	"github.com/louisbranch/lanparty/internal/services/admin/transport/httpmux"
	"github.com/louisbranch/lanparty/internal/services/announce"
	"github.com/louisbranch/lanparty/internal/services/attendance"
	"github.com/louisbranch/lanparty/internal/services/authn"
	"github.com/louisbranch/lanparty/internal/services/consent"
	"github.com/louisbranch/lanparty/internal/services/ticketing"
	"github.com/louisbranch/lanparty/internal/services/tourney"
	"github.com/louisbranch/lanparty/internal/services/useravatar"
	"github.com/louisbranch/lanparty/internal/services/userbadge"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/services/webhooks"
	"github.com/louisbranch/lanparty/internal/storage/sqlite"
)

// Config holds the admin command configuration.
type Config struct {
	HTTPAddr         string        `env:"LANPARTY_ADMIN_ADDR" envDefault:":8082"`
	DBPath           string        `env:"LANPARTY_ADMIN_DB_PATH" envDefault:"data/admin.db"`
	TokenSecret      string        `env:"LANPARTY_ADMIN_TOKEN_SECRET"`
	TokenTTL         time.Duration `env:"LANPARTY_ADMIN_TOKEN_TTL" envDefault:"12h"`
	AvatarDir        string        `env:"LANPARTY_AVATAR_DIR" envDefault:"data/avatars"`
	WebhookQueueSize int           `env:"LANPARTY_WEBHOOK_QUEUE_SIZE" envDefault:"256"`
	AnnounceLang     string        `env:"LANPARTY_ANNOUNCE_LANG" envDefault:"en"`
}

// Validate checks values env parsing cannot.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("http address is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db path is required")
	}
	if strings.TrimSpace(c.AvatarDir) == "" {
		return errors.New("avatar dir is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %v", c.TokenTTL)
	}
	if c.WebhookQueueSize <= 0 {
		return fmt.Errorf("webhook queue size must be positive, got %d", c.WebhookQueueSize)
	}
	if _, ok := platformi18n.ParseTag(c.AnnounceLang); !ok {
		return fmt.Errorf("announce language %q is not supported", c.AnnounceLang)
	}
	return nil
}

// ParseConfig loads env defaults and then applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the sqlite database")
	fs.StringVar(&cfg.AvatarDir, "avatar-dir", cfg.AvatarDir, "directory avatar images are written to")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "session token lifetime")
	fs.IntVar(&cfg.WebhookQueueSize, "webhook-queue-size", cfg.WebhookQueueSize, "pending webhook announcements before new ones are dropped")
	fs.StringVar(&cfg.AnnounceLang, "announce-lang", cfg.AnnounceLang, "language of webhook announcement texts")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the admin server and the webhook announcer.
func Run(ctx context.Context, cfg Config) error {
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("admin close store: %v", err)
		}
	}()

	ns := signal.NewNamespace(events.Namespace)
	userService := users.NewService(store)
	authnService, err := authn.NewService(store, userService, authn.NewSignals(ns), authn.Config{
		TokenSecret: []byte(cfg.TokenSecret),
		TokenTTL:    cfg.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("init authn: %w", err)
	}
	avatarService, err := useravatar.NewService(store, userService, useravatar.NewSignals(ns), cfg.AvatarDir)
	if err != nil {
		return fmt.Errorf("init avatars: %w", err)
	}
	webhookService := webhooks.NewService(store)

	announceTag, _ := platformi18n.ParseTag(cfg.AnnounceLang)
	announcer := announce.New(webhookService, announce.Config{
		QueueSize: cfg.WebhookQueueSize,
		Language:  announceTag,
	})
	unsubscribe := announcer.Subscribe(ns)
	defer unsubscribe()

	handler := admin.NewHandler(admin.Services{
		Authn:      authnService,
		Attendance: attendance.NewService(store),
		Ticketing:  ticketing.NewService(store, userService, ticketing.NewSignals(ns)),
		Tourney:    tourney.NewService(store, userService, tourney.NewSignals(ns)),
		Avatars:    avatarService,
		Badges:     userbadge.NewService(store, userService, userbadge.NewSignals(ns)),
		Consent:    consent.NewService(store),
		Webhooks:   webhookService,
	})

	rootMux := http.NewServeMux()
	httpmux.MountAvatars(rootMux, os.DirFS(avatarService.Dir()))
	httpmux.MountAdminRoutes(rootMux, handler)

	server, err := admin.NewServer(cfg.HTTPAddr, rootMux)
	if err != nil {
		return fmt.Errorf("init admin server: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return announcer.Run(groupCtx)
	})
	group.Go(func() error {
		if err := server.ListenAndServe(groupCtx); err != nil {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	})
	err = group.Wait()
	if dropped := announcer.Dropped(); dropped > 0 {
		log.Printf("admin dropped %d webhook announcements", dropped)
	}
	return err
}

func openStore(path string) (*sqlite.Store, error) {
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}
