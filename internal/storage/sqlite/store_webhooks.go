package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/webhooks"
	"github.com/louisbranch/lanparty/internal/storage"
)

const webhookColumns = `id, event_types_json, event_filters_json, format, text_prefix, extra_fields_json, url, description, enabled`

// PutWebhook inserts or replaces a webhook.
func (s *Store) PutWebhook(ctx context.Context, webhook webhooks.OutgoingWebhook) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	eventTypes, err := encodeJSON(webhook.EventTypes)
	if err != nil {
		return fmt.Errorf("encode event types: %w", err)
	}
	eventFilters, err := encodeJSON(webhook.EventFilters)
	if err != nil {
		return fmt.Errorf("encode event filters: %w", err)
	}
	extraFields, err := encodeJSON(webhook.ExtraFields)
	if err != nil {
		return fmt.Errorf("encode extra fields: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO outgoing_webhooks (`+webhookColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	event_types_json = excluded.event_types_json,
	event_filters_json = excluded.event_filters_json,
	format = excluded.format,
	text_prefix = excluded.text_prefix,
	extra_fields_json = excluded.extra_fields_json,
	url = excluded.url,
	description = excluded.description,
	enabled = excluded.enabled
`,
		webhook.ID,
		eventTypes,
		eventFilters,
		string(webhook.Format),
		webhook.TextPrefix,
		extraFields,
		webhook.URL,
		webhook.Description,
		boolToInt(webhook.Enabled),
	)
	return putErr("webhook", err)
}

// GetWebhook returns one webhook.
func (s *Store) GetWebhook(ctx context.Context, webhookID uuid.UUID) (webhooks.OutgoingWebhook, error) {
	if err := s.ready(ctx); err != nil {
		return webhooks.OutgoingWebhook{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+webhookColumns+` FROM outgoing_webhooks WHERE id = ?`, webhookID)
	webhook, err := scanWebhook(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return webhooks.OutgoingWebhook{}, storage.ErrNotFound
	}
	if err != nil {
		return webhooks.OutgoingWebhook{}, fmt.Errorf("get webhook: %w", err)
	}
	return webhook, nil
}

// ListWebhooks returns every webhook ordered by description.
func (s *Store) ListWebhooks(ctx context.Context) ([]webhooks.OutgoingWebhook, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+webhookColumns+` FROM outgoing_webhooks ORDER BY description, id`)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	var out []webhooks.OutgoingWebhook
	for rows.Next() {
		webhook, err := scanWebhook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		out = append(out, webhook)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhooks: %w", err)
	}
	return out, nil
}

// DeleteWebhook removes a webhook.
func (s *Store) DeleteWebhook(ctx context.Context, webhookID uuid.UUID) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM outgoing_webhooks WHERE id = ?`, webhookID)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return requireAffected(result)
}

func scanWebhook(scan func(dest ...any) error) (webhooks.OutgoingWebhook, error) {
	var (
		webhook                               webhooks.OutgoingWebhook
		eventTypes, eventFilters, extraFields string
		format                                string
	)
	if err := scan(
		&webhook.ID,
		&eventTypes,
		&eventFilters,
		&format,
		&webhook.TextPrefix,
		&extraFields,
		&webhook.URL,
		&webhook.Description,
		&webhook.Enabled,
	); err != nil {
		return webhooks.OutgoingWebhook{}, err
	}
	webhook.Format = webhooks.Format(format)
	if err := json.Unmarshal([]byte(eventTypes), &webhook.EventTypes); err != nil {
		return webhooks.OutgoingWebhook{}, fmt.Errorf("decode event types: %w", err)
	}
	if err := json.Unmarshal([]byte(eventFilters), &webhook.EventFilters); err != nil {
		return webhooks.OutgoingWebhook{}, fmt.Errorf("decode event filters: %w", err)
	}
	if err := json.Unmarshal([]byte(extraFields), &webhook.ExtraFields); err != nil {
		return webhooks.OutgoingWebhook{}, fmt.Errorf("decode extra fields: %w", err)
	}
	if webhook.EventFilters == nil {
		webhook.EventFilters = map[string]webhooks.EventFilter{}
	}
	if webhook.ExtraFields == nil {
		webhook.ExtraFields = map[string]string{}
	}
	return webhook, nil
}
