package signal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/lanparty/internal/platform/signal"

// Listener reacts to a published signal.
type Listener func(ctx context.Context, sender any, payload any) error

// Namespace is a registry of uniquely named signals.
type Namespace struct {
	name    string
	mu      sync.Mutex
	signals map[string]*Signal
	tracer  trace.Tracer
}

// NewNamespace returns an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name:    strings.TrimSpace(name),
		signals: make(map[string]*Signal),
		tracer:  otel.Tracer(tracerName),
	}
}

// Name returns the namespace name.
func (n *Namespace) Name() string {
	if n == nil {
		return ""
	}
	return n.name
}

// Signal returns the signal registered under name, creating it on first use.
func (n *Namespace) Signal(name string) *Signal {
	n.mu.Lock()
	defer n.mu.Unlock()

	if s, ok := n.signals[name]; ok {
		return s
	}
	s := &Signal{namespace: n, name: name}
	n.signals[name] = s
	return s
}

// Names returns the names of all signals looked up so far, sorted.
func (n *Namespace) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	names := make([]string, 0, len(n.signals))
	for name := range n.signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// subscription pairs a listener with a unique registration id so the same
// function can be registered more than once and removed individually.
type subscription struct {
	id       uint64
	listener Listener
}

// Signal is a named channel with an ordered list of listeners.
type Signal struct {
	namespace *Namespace
	name      string

	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// Name returns the signal name.
func (s *Signal) Name() string {
	return s.name
}

// Subscribe registers listener and returns a function removing that
// registration. Each call creates a separate registration: subscribing the
// same listener twice invokes it twice per publish.
func (s *Signal) Subscribe(listener Listener) (unsubscribe func()) {
	if listener == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, listener: listener})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Signal) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of current registrations.
func (s *Signal) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Publish invokes every current listener in subscription order.
//
// Listeners subscribed while a publish is running are not called for that
// publish. Publishing without listeners returns nil.
func (s *Signal) Publish(ctx context.Context, sender any, payload any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	if len(subs) == 0 {
		return nil
	}

	ctx, span := s.namespace.tracer.Start(ctx, "signal.publish", trace.WithAttributes(
		attribute.String("signal.namespace", s.namespace.name),
		attribute.String("signal.name", s.name),
		attribute.Int("signal.listeners", len(subs)),
	))
	defer span.End()

	var errs []error
	for i, sub := range subs {
		if err := s.call(ctx, sub.listener, sender, payload); err != nil {
			log.Printf("signal %s: listener %d: %v", s.qualifiedName(), i, err)
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listener failed")
	}
	return err
}

// Emit publishes for callers whose own work already succeeded and that
// must not fail on a listener error. Failures are logged by Publish.
func (s *Signal) Emit(ctx context.Context, sender any, payload any) {
	_ = s.Publish(ctx, sender, payload)
}

func (s *Signal) call(ctx context.Context, listener Listener, sender, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, r)
		}
	}()
	return listener(ctx, sender, payload)
}

func (s *Signal) qualifiedName() string {
	if s.namespace == nil || s.namespace.name == "" {
		return s.name
	}
	return s.namespace.name + "." + s.name
}

// ErrListenerPanic marks a listener that panicked during publish.
var ErrListenerPanic = errors.New("signal listener panicked")

// ErrPayloadType marks a payload that does not match a typed listener.
var ErrPayloadType = errors.New("signal payload has unexpected type")

// Connect subscribes a listener that expects payloads of type T.
func Connect[T any](s *Signal, fn func(ctx context.Context, sender any, payload T) error) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return s.Subscribe(func(ctx context.Context, sender any, payload any) error {
		typed, ok := payload.(T)
		if !ok {
			var want T
			return fmt.Errorf("%w: %s got %T, want %T", ErrPayloadType, s.name, payload, want)
		}
		return fn(ctx, sender, typed)
	})
}
