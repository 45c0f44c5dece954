// Package webhooks manages outgoing webhooks: HTTP endpoints that receive
// announcements of selected events.
package webhooks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/platform/id"
	"github.com/louisbranch/lanparty/internal/platform/schema"
	"github.com/louisbranch/lanparty/internal/storage"
)

// Format selects the request body an endpoint expects.
type Format string

const (
	FormatDiscord     Format = "discord"
	FormatMattermost  Format = "mattermost"
	FormatMatrix      Format = "matrix"
	FormatWeitersager Format = "weitersager"
)

// Formats lists every supported format.
var Formats = []Format{FormatDiscord, FormatMattermost, FormatMatrix, FormatWeitersager}

// Valid reports whether f is supported.
func (f Format) Valid() bool {
	return lo.Contains(Formats, f)
}

var (
	ErrWebhookNotFound = apperrors.New(apperrors.CodeWebhookNotFound, "webhook not found")
	ErrInvalidFormat   = apperrors.New(apperrors.CodeWebhookInvalidFormat, "unsupported webhook format")
	ErrNoEventTypes    = apperrors.New(apperrors.CodeInvalidArgument, "at least one event type is required")
)

// EventFilter restricts announcements of one event type to events whose
// attributes match. Each key names an attribute, such as "user_id"; the
// event passes when its value is one of the listed values.
type EventFilter map[string][]string

// Matches reports whether attrs pass the filter.
func (f EventFilter) Matches(attrs map[string]string) bool {
	for key, allowed := range f {
		if len(allowed) == 0 {
			continue
		}
		if !lo.Contains(allowed, attrs[key]) {
			return false
		}
	}
	return true
}

// OutgoingWebhook is an endpoint announcements are sent to.
type OutgoingWebhook struct {
	ID           uuid.UUID
	EventTypes   []string
	EventFilters map[string]EventFilter
	Format       Format
	TextPrefix   string
	ExtraFields  map[string]string
	URL          string
	Description  string
	Enabled      bool
}

// Channel is the channel extra field, used to order webhooks.
func (w OutgoingWebhook) Channel() string {
	return w.ExtraFields["channel"]
}

// HandlesEventType reports whether the webhook subscribes to eventType.
func (w OutgoingWebhook) HandlesEventType(eventType string) bool {
	return lo.Contains(w.EventTypes, eventType)
}

// Accepts reports whether an event of eventType with attrs passes the
// webhook's filter for that type. Types without a filter always pass.
func (w OutgoingWebhook) Accepts(eventType string, attrs map[string]string) bool {
	filter, ok := w.EventFilters[eventType]
	if !ok {
		return true
	}
	return filter.Matches(attrs)
}

// FormSchema validates the admin create and update forms.
var FormSchema = schema.New(
	schema.Field{Name: "event_types", Type: schema.StringList, Required: true},
	schema.Field{Name: "format", Type: schema.String, Required: true, Rule: "oneof=discord mattermost matrix weitersager"},
	schema.Field{Name: "url", Type: schema.String, Required: true, Rule: "url"},
	schema.Field{Name: "text_prefix", Type: schema.String, Rule: "max=80"},
	schema.Field{Name: "channel", Type: schema.String, Rule: "max=80"},
	schema.Field{Name: "description", Type: schema.String, Rule: "max=200"},
	schema.Field{Name: "enabled", Type: schema.Bool},
)

// FromRecord builds a webhook from a validated FormSchema record.
func FromRecord(record schema.Record) OutgoingWebhook {
	extra := map[string]string{}
	if channel := strings.TrimSpace(record.String("channel")); channel != "" {
		extra["channel"] = channel
	}
	return OutgoingWebhook{
		EventTypes:  record.StringList("event_types"),
		Format:      Format(record.String("format")),
		TextPrefix:  record.String("text_prefix"),
		ExtraFields: extra,
		URL:         strings.TrimSpace(record.String("url")),
		Description: strings.TrimSpace(record.String("description")),
		Enabled:     record.Bool("enabled"),
	}
}

// Store persists webhooks.
type Store interface {
	PutWebhook(ctx context.Context, webhook OutgoingWebhook) error
	GetWebhook(ctx context.Context, webhookID uuid.UUID) (OutgoingWebhook, error)
	ListWebhooks(ctx context.Context) ([]OutgoingWebhook, error)
	DeleteWebhook(ctx context.Context, webhookID uuid.UUID) error
}

// Service manages webhooks.
type Service struct {
	store Store
	newID func() (uuid.UUID, error)
}

// NewService builds a webhook service.
func NewService(store Store) *Service {
	return &Service{store: store, newID: id.NewID}
}

// CreateOutgoingWebhook stores a new webhook. The ID of input is ignored.
func (s *Service) CreateOutgoingWebhook(ctx context.Context, input OutgoingWebhook) (OutgoingWebhook, error) {
	webhook, err := normalize(input)
	if err != nil {
		return OutgoingWebhook{}, err
	}
	webhookID, err := s.newID()
	if err != nil {
		return OutgoingWebhook{}, fmt.Errorf("generate webhook id: %w", err)
	}
	webhook.ID = webhookID
	if err := s.store.PutWebhook(ctx, webhook); err != nil {
		return OutgoingWebhook{}, fmt.Errorf("put webhook: %w", err)
	}
	return webhook, nil
}

// UpdateOutgoingWebhook replaces an existing webhook.
func (s *Service) UpdateOutgoingWebhook(ctx context.Context, input OutgoingWebhook) (OutgoingWebhook, error) {
	if _, err := s.FindWebhook(ctx, input.ID); err != nil {
		return OutgoingWebhook{}, err
	}
	webhook, err := normalize(input)
	if err != nil {
		return OutgoingWebhook{}, err
	}
	if err := s.store.PutWebhook(ctx, webhook); err != nil {
		return OutgoingWebhook{}, fmt.Errorf("put webhook: %w", err)
	}
	return webhook, nil
}

// DeleteOutgoingWebhook removes a webhook.
func (s *Service) DeleteOutgoingWebhook(ctx context.Context, webhookID uuid.UUID) error {
	err := s.store.DeleteWebhook(ctx, webhookID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrWebhookNotFound
	}
	return err
}

// FindWebhook returns one webhook.
func (s *Service) FindWebhook(ctx context.Context, webhookID uuid.UUID) (OutgoingWebhook, error) {
	webhook, err := s.store.GetWebhook(ctx, webhookID)
	if errors.Is(err, storage.ErrNotFound) {
		return OutgoingWebhook{}, ErrWebhookNotFound
	}
	if err != nil {
		return OutgoingWebhook{}, fmt.Errorf("get webhook: %w", err)
	}
	return webhook, nil
}

// GetAllWebhooks returns every webhook ordered by description.
func (s *Service) GetAllWebhooks(ctx context.Context) ([]OutgoingWebhook, error) {
	return s.store.ListWebhooks(ctx)
}

// GetEnabledOutgoingWebhooks returns the enabled webhooks subscribed to
// eventType, ordered by their channel extra field.
func (s *Service) GetEnabledOutgoingWebhooks(ctx context.Context, eventType string) ([]OutgoingWebhook, error) {
	all, err := s.store.ListWebhooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	enabled := lo.Filter(all, func(webhook OutgoingWebhook, _ int) bool {
		return webhook.Enabled && webhook.HandlesEventType(eventType)
	})
	sort.SliceStable(enabled, func(i, j int) bool { return enabled[i].Channel() < enabled[j].Channel() })
	return enabled, nil
}

func normalize(webhook OutgoingWebhook) (OutgoingWebhook, error) {
	if !webhook.Format.Valid() {
		return OutgoingWebhook{}, ErrInvalidFormat
	}
	webhook.EventTypes = lo.Uniq(lo.Compact(lo.Map(webhook.EventTypes, func(eventType string, _ int) string {
		return strings.TrimSpace(eventType)
	})))
	if len(webhook.EventTypes) == 0 {
		return OutgoingWebhook{}, ErrNoEventTypes
	}
	sort.Strings(webhook.EventTypes)
	webhook.URL = strings.TrimSpace(webhook.URL)
	if webhook.URL == "" {
		return OutgoingWebhook{}, apperrors.New(apperrors.CodeInvalidArgument, "webhook url is required")
	}
	if webhook.ExtraFields == nil {
		webhook.ExtraFields = map[string]string{}
	}
	if webhook.EventFilters == nil {
		webhook.EventFilters = map[string]EventFilter{}
	}
	return webhook, nil
}
