// Package authn authenticates admins: password credentials hashed with
// bcrypt, server-side sessions, and HS256 session tokens that reference
// them.
//
// Updating a password revokes every session of the user. Logging in and
// updating a password publish user-logged-in and password-updated.
package authn
