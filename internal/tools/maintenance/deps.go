package maintenance

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/signal"
	"github.com/louisbranch/lanparty/internal/services/authn"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/services/webhooks"
	"github.com/louisbranch/lanparty/internal/storage/sqlite"
)

// deps are the services maintenance actions operate on.
type deps struct {
	store    *sqlite.Store
	users    *users.Service
	authn    *authn.Service
	webhooks *webhooks.Service
}

func (d deps) Close() error {
	return d.store.Close()
}

// openDeps opens the admin database and builds the services over it. The
// tool never issues session tokens, so the token signer gets a throwaway
// random secret.
func openDeps(dbPath string) (deps, error) {
	cleanPath := filepath.Clean(dbPath)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return deps{}, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cleanPath)
	if err != nil {
		return deps{}, fmt.Errorf("open sqlite store: %w", err)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		_ = store.Close()
		return deps{}, fmt.Errorf("generate secret: %w", err)
	}
	userService := users.NewService(store)
	ns := signal.NewNamespace(events.Namespace)
	authnService, err := authn.NewService(store, userService, authn.NewSignals(ns), authn.Config{TokenSecret: secret})
	if err != nil {
		_ = store.Close()
		return deps{}, fmt.Errorf("init authn: %w", err)
	}
	return deps{
		store:    store,
		users:    userService,
		authn:    authnService,
		webhooks: webhooks.NewService(store),
	}, nil
}
