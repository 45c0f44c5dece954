// Package admin implements the party admin HTTP surface.
//
// HTML pages manage consent subjects and outgoing webhooks; a JSON API
// exposes check-in, attendance archiving, badge awarding, password resets,
// match comments and avatar uploads. Every route except login and static
// files requires an authenticated admin account.
package admin
