package authn

import (
	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/signal"
)

// Signals are the signals published by this package.
type Signals struct {
	PasswordUpdated *signal.Signal
	UserLoggedIn    *signal.Signal
}

// NewSignals declares the authn signals in ns.
func NewSignals(ns *signal.Namespace) Signals {
	return Signals{
		PasswordUpdated: ns.Signal(events.NamePasswordUpdated),
		UserLoggedIn:    ns.Signal(events.NameUserLoggedIn),
	}
}
