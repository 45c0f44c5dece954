package announce

import (
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/webhooks"
)

// Request is an announcement ready to be posted to a webhook.
type Request struct {
	WebhookID uuid.UUID
	URL       string
	Data      map[string]any
	// ExpectedStatus is the response status a successful call returns, or
	// 0 when any status is accepted.
	ExpectedStatus int
}

var expectedStatuses = map[webhooks.Format]int{
	webhooks.FormatDiscord:     http.StatusNoContent,
	webhooks.FormatMattermost:  http.StatusOK,
	webhooks.FormatMatrix:      http.StatusOK,
	webhooks.FormatWeitersager: http.StatusAccepted,
}

// AssembleRequest builds the request for webhook announcing text.
func AssembleRequest(webhook webhooks.OutgoingWebhook, text string) Request {
	return Request{
		WebhookID:      webhook.ID,
		URL:            webhook.URL,
		Data:           assembleData(webhook, text),
		ExpectedStatus: expectedStatuses[webhook.Format],
	}
}

func assembleData(webhook webhooks.OutgoingWebhook, text string) map[string]any {
	if webhook.TextPrefix != "" {
		text = webhook.TextPrefix + text
	}

	switch webhook.Format {
	case webhooks.FormatDiscord:
		return map[string]any{"content": text}
	case webhooks.FormatMattermost:
		return map[string]any{"text": text}
	case webhooks.FormatWeitersager:
		return map[string]any{
			"channel": extraField(webhook, "channel"),
			"text":    text,
		}
	case webhooks.FormatMatrix:
		return map[string]any{
			"key":     extraField(webhook, "key"),
			"room_id": extraField(webhook, "room_id"),
			"text":    text,
		}
	default:
		return map[string]any{}
	}
}

// extraField returns the named extra field, or nil (JSON null) when the
// webhook lacks it.
func extraField(webhook webhooks.OutgoingWebhook, name string) any {
	value := webhook.ExtraFields[name]
	if value == "" {
		log.Printf("announce webhook %s: no %s specified", webhook.ID, name)
		return nil
	}
	return value
}
