// Package schema validates inbound request payloads against a table of
// field descriptors.
//
// Validation never stops at the first problem: every failing field is
// reported in one *Errors value so clients can fix a request in a single
// round trip.
package schema
