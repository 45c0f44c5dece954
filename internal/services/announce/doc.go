// Package announce turns published events into chat announcements and
// delivers them to the outgoing webhooks subscribed to each event type.
//
// Listeners run on the publishing goroutine and only enqueue requests;
// Run delivers them on a single background goroutine. When the queue is
// full the announcement is dropped and logged.
package announce
