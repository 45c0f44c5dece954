package announce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/signal"
	"github.com/louisbranch/lanparty/internal/services/webhooks"
)

type fakeSource struct {
	webhooks []webhooks.OutgoingWebhook
	err      error
	asked    []string
}

func (f *fakeSource) GetEnabledOutgoingWebhooks(_ context.Context, eventType string) ([]webhooks.OutgoingWebhook, error) {
	f.asked = append(f.asked, eventType)
	return f.webhooks, f.err
}

var (
	adminID  = uuid.MustParse("3d8e2a0c-6b7e-4f0a-9d8e-2f7d5c1b9a01")
	playerID = uuid.MustParse("9c1f4e2a-0b3d-4c5e-8f6a-7b8c9d0e1f23")
	ticketID = uuid.MustParse("6f1e2d3c-4b5a-4978-8a6b-5c4d3e2f1a0b")
)

func checkedIn() events.TicketCheckedIn {
	return events.TicketCheckedIn{
		Base:           events.NewBase(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), adminID, "Admin"),
		TicketID:       ticketID,
		TicketCode:     "GTFIN",
		UserID:         playerID,
		UserScreenName: "Player",
	}
}

func TestTextRendersTicketCheckIn(t *testing.T) {
	b := NewTextBuilder(language.English)
	got, ok := b.Text(checkedIn())
	if !ok {
		t.Fatal("expected announcement")
	}
	want := `Admin has checked in ticket "GTFIN", used by Player.`
	if got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestTextFallsBackForSystemInitiator(t *testing.T) {
	b := NewTextBuilder(language.English)
	event := events.UserBadgeAwarded{
		Base:           events.NewBase(time.Now(), uuid.Nil, "ignored"),
		UserID:         playerID,
		UserScreenName: "Player",
		BadgeLabel:     "Early Bird",
	}
	got, _ := b.Text(event)
	if want := `Someone has awarded badge "Early Bird" to Player.`; got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestTextUsesGermanCatalog(t *testing.T) {
	b := NewTextBuilder(language.MustParse("de-AT"))
	got, _ := b.Text(events.UserLoggedIn{Base: events.NewBase(time.Now(), playerID, "Player")})
	if want := "Player hat sich eingeloggt."; got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestAttributes(t *testing.T) {
	attrs := Attributes(checkedIn())
	if attrs["initiator_id"] != adminID.String() || attrs["ticket_id"] != ticketID.String() || attrs["user_id"] != playerID.String() {
		t.Fatalf("Attributes = %v", attrs)
	}
	if got := Attributes(events.UserLoggedIn{}); len(got) != 0 {
		t.Fatalf("system login attributes = %v, want none", got)
	}
}

func TestAssembleRequestPerFormat(t *testing.T) {
	tests := []struct {
		name   string
		hook   webhooks.OutgoingWebhook
		status int
		want   map[string]any
	}{
		{
			name:   "discord",
			hook:   webhooks.OutgoingWebhook{Format: webhooks.FormatDiscord, TextPrefix: "[LAN] "},
			status: http.StatusNoContent,
			want:   map[string]any{"content": "[LAN] hello"},
		},
		{
			name:   "mattermost",
			hook:   webhooks.OutgoingWebhook{Format: webhooks.FormatMattermost},
			status: http.StatusOK,
			want:   map[string]any{"text": "hello"},
		},
		{
			name:   "weitersager",
			hook:   webhooks.OutgoingWebhook{Format: webhooks.FormatWeitersager, ExtraFields: map[string]string{"channel": "#orga"}},
			status: http.StatusAccepted,
			want:   map[string]any{"channel": "#orga", "text": "hello"},
		},
		{
			name:   "weitersager without channel",
			hook:   webhooks.OutgoingWebhook{Format: webhooks.FormatWeitersager},
			status: http.StatusAccepted,
			want:   map[string]any{"channel": nil, "text": "hello"},
		},
		{
			name:   "matrix",
			hook:   webhooks.OutgoingWebhook{Format: webhooks.FormatMatrix, ExtraFields: map[string]string{"key": "k", "room_id": "!r"}},
			status: http.StatusOK,
			want:   map[string]any{"key": "k", "room_id": "!r", "text": "hello"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := AssembleRequest(tc.hook, "hello")
			if req.ExpectedStatus != tc.status {
				t.Fatalf("ExpectedStatus = %d, want %d", req.ExpectedStatus, tc.status)
			}
			if len(req.Data) != len(tc.want) {
				t.Fatalf("Data = %v, want %v", req.Data, tc.want)
			}
			for key, value := range tc.want {
				if req.Data[key] != value {
					t.Fatalf("Data[%s] = %v, want %v", key, req.Data[key], value)
				}
			}
		})
	}
}

func TestSubscribeQueuesAcceptedWebhooks(t *testing.T) {
	matching := webhooks.OutgoingWebhook{
		ID:         uuid.New(),
		EventTypes: []string{events.NameTicketCheckedIn},
		Format:     webhooks.FormatDiscord,
		URL:        "http://hooks.example.test/a",
		Enabled:    true,
	}
	filtered := webhooks.OutgoingWebhook{
		ID:           uuid.New(),
		EventTypes:   []string{events.NameTicketCheckedIn},
		EventFilters: map[string]webhooks.EventFilter{events.NameTicketCheckedIn: {"user_id": {uuid.NewString()}}},
		Format:       webhooks.FormatDiscord,
		URL:          "http://hooks.example.test/b",
		Enabled:      true,
	}
	source := &fakeSource{webhooks: []webhooks.OutgoingWebhook{matching, filtered}}
	a := New(source, Config{Language: language.English})
	ns := signal.NewNamespace(events.Namespace)
	unsubscribe := a.Subscribe(ns)
	defer unsubscribe()

	if err := ns.Signal(events.NameTicketCheckedIn).Publish(context.Background(), nil, checkedIn()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if a.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", a.Pending())
	}
	req := <-a.queue
	if req.WebhookID != matching.ID {
		t.Fatalf("queued webhook = %s, want %s", req.WebhookID, matching.ID)
	}
	if len(source.asked) != 1 || source.asked[0] != events.NameTicketCheckedIn {
		t.Fatalf("asked = %v", source.asked)
	}
}

func TestSubscribeReportsSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	a := New(&fakeSource{err: boom}, Config{})
	ns := signal.NewNamespace(events.Namespace)
	defer a.Subscribe(ns)()

	err := ns.Signal(events.NameUserLoggedIn).Publish(context.Background(), nil, events.UserLoggedIn{})
	if !errors.Is(err, boom) {
		t.Fatalf("Publish error = %v, want %v", err, boom)
	}
}

func TestEnqueueDropsWhenQueueIsFull(t *testing.T) {
	a := New(&fakeSource{}, Config{QueueSize: 1})
	a.enqueue(Request{})
	a.enqueue(Request{})
	if a.Pending() != 1 || a.Dropped() != 1 {
		t.Fatalf("Pending = %d, Dropped = %d, want 1 and 1", a.Pending(), a.Dropped())
	}
}

func TestDeliverPostsJSON(t *testing.T) {
	var (
		mu   sync.Mutex
		body map[string]any
		ct   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		ct = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	a := New(&fakeSource{}, Config{Client: server.Client()})
	req := Request{URL: server.URL, Data: map[string]any{"content": "hi"}, ExpectedStatus: http.StatusNoContent}
	if err := a.Deliver(context.Background(), req); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if ct != "application/json" || body["content"] != "hi" {
		t.Fatalf("content type %q body %v", ct, body)
	}
}

func TestDeliverRejectsUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	a := New(&fakeSource{}, Config{Client: server.Client()})
	err := a.Deliver(context.Background(), Request{URL: server.URL, ExpectedStatus: http.StatusAccepted})
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("Deliver error = %v, want %v", err, ErrUnexpectedStatus)
	}
}

func TestRunDeliversAndDrainsOnCancel(t *testing.T) {
	delivered := make(chan struct{}, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		delivered <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	a := New(&fakeSource{}, Config{Client: server.Client()})
	for i := 0; i < 2; i++ {
		a.enqueue(Request{URL: server.URL, ExpectedStatus: http.StatusOK})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(delivered); got != 2 {
		t.Fatalf("delivered %d, want 2", got)
	}
}
