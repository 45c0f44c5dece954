// Package timeouts defines shared timeout constants so HTTP servers and
// outbound clients agree on their limits.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// WebhookRequest caps a single outgoing webhook call.
const WebhookRequest = 15 * time.Second

// WebhookDrain caps how long the announcer keeps delivering queued
// announcements after shutdown starts.
const WebhookDrain = 10 * time.Second
