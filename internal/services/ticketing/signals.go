package ticketing

import (
	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/signal"
)

// Signals are the signals published by this package.
type Signals struct {
	TicketCheckedIn *signal.Signal
}

// NewSignals declares the ticketing signals in ns.
func NewSignals(ns *signal.Namespace) Signals {
	return Signals{TicketCheckedIn: ns.Signal(events.NameTicketCheckedIn)}
}
