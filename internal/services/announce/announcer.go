package announce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/signal"
	"github.com/louisbranch/lanparty/internal/platform/timeouts"
	"github.com/louisbranch/lanparty/internal/services/webhooks"
)

const defaultQueueSize = 256

// ErrUnexpectedStatus marks a webhook that answered with another status
// than its format promises.
var ErrUnexpectedStatus = errors.New("webhook returned unexpected status")

// WebhookSource lists the webhooks to announce an event type to.
type WebhookSource interface {
	GetEnabledOutgoingWebhooks(ctx context.Context, eventType string) ([]webhooks.OutgoingWebhook, error)
}

// Config configures an Announcer.
type Config struct {
	QueueSize int
	Language  language.Tag
	Client    *http.Client
}

// Announcer listens to event signals and delivers announcements.
type Announcer struct {
	webhooks WebhookSource
	text     TextBuilder
	queue    chan Request
	client   *http.Client
	tracer   trace.Tracer
	dropped  atomic.Int64
}

// New builds an announcer.
func New(source WebhookSource, cfg Config) *Announcer {
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeouts.WebhookRequest}
	}
	return &Announcer{
		webhooks: source,
		text:     NewTextBuilder(cfg.Language),
		queue:    make(chan Request, size),
		client:   client,
		tracer:   otel.Tracer("github.com/louisbranch/lanparty/internal/services/announce"),
	}
}

// EventNames lists the signals announcements are made for.
var EventNames = []string{
	events.NameTicketCheckedIn,
	events.NameTourneyMatchCommentCreated,
	events.NameUserAvatarUpdated,
	events.NameUserBadgeAwarded,
	events.NamePasswordUpdated,
	events.NameUserLoggedIn,
}

// Subscribe connects the announcer to every announced signal of ns.
func (a *Announcer) Subscribe(ns *signal.Namespace) (unsubscribe func()) {
	unsubscribes := make([]func(), 0, len(EventNames))
	for _, name := range EventNames {
		unsubscribes = append(unsubscribes, signal.Connect(ns.Signal(name), a.receive))
	}
	return func() {
		for _, fn := range unsubscribes {
			fn()
		}
	}
}

func (a *Announcer) receive(ctx context.Context, _ any, event events.Event) error {
	text, ok := a.text.Text(event)
	if !ok {
		return nil
	}
	eventName := event.EventName()
	targets, err := a.webhooks.GetEnabledOutgoingWebhooks(ctx, eventName)
	if err != nil {
		return fmt.Errorf("announce %s: %w", eventName, err)
	}
	attrs := Attributes(event)
	for _, webhook := range targets {
		if !webhook.Accepts(eventName, attrs) {
			continue
		}
		a.enqueue(AssembleRequest(webhook, text))
	}
	return nil
}

func (a *Announcer) enqueue(req Request) {
	select {
	case a.queue <- req:
	default:
		a.dropped.Add(1)
		log.Printf("announce webhook %s: queue full, dropping announcement", req.WebhookID)
	}
}

// Dropped returns the number of announcements dropped on a full queue.
func (a *Announcer) Dropped() int64 {
	return a.dropped.Load()
}

// Pending returns the number of queued announcements.
func (a *Announcer) Pending() int {
	return len(a.queue)
}

// Run delivers queued announcements until ctx is done, then keeps
// delivering what is already queued for up to timeouts.WebhookDrain.
func (a *Announcer) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			a.drain()
			return nil
		}
		select {
		case req := <-a.queue:
			a.deliverAndLog(ctx, req)
		case <-ctx.Done():
			a.drain()
			return nil
		}
	}
}

func (a *Announcer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.WebhookDrain)
	defer cancel()
	for {
		select {
		case req := <-a.queue:
			a.deliverAndLog(ctx, req)
		default:
			return
		}
		if ctx.Err() != nil {
			if n := len(a.queue); n > 0 {
				log.Printf("announce drain: abandoning %d announcements", n)
			}
			return
		}
	}
}

func (a *Announcer) deliverAndLog(ctx context.Context, req Request) {
	if err := a.Deliver(ctx, req); err != nil {
		log.Printf("announce webhook %s: %v", req.WebhookID, err)
	}
}

// Deliver posts req to its webhook and checks the response status.
func (a *Announcer) Deliver(ctx context.Context, req Request) error {
	ctx, span := a.tracer.Start(ctx, "announce.deliver", trace.WithAttributes(
		attribute.String("webhook.id", req.WebhookID.String()),
	))
	defer span.End()

	err := a.post(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
	}
	return err
}

func (a *Announcer) post(ctx context.Context, req Request) error {
	body, err := json.Marshal(req.Data)
	if err != nil {
		return fmt.Errorf("encode announcement: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.WebhookRequest)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if req.ExpectedStatus != 0 && resp.StatusCode != req.ExpectedStatus {
		return fmt.Errorf("%w %d (want %d) after %s", ErrUnexpectedStatus, resp.StatusCode, req.ExpectedStatus, time.Since(started).Round(time.Millisecond))
	}
	return nil
}
