// Package ticketing checks in the users of party tickets.
//
// CheckInUser validates the ticket in memory first; only a permitted
// check-in touches the store, and only a stored check-in publishes
// ticket-checked-in.
package ticketing
