// Package errors provides structured domain errors with machine-readable
// codes that map onto HTTP statuses.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"

	// User errors
	CodeUserNotFound         Code = "USER_NOT_FOUND"
	CodeUserScreenNameTaken  Code = "USER_SCREEN_NAME_TAKEN"
	CodeUserAccountSuspended Code = "USER_ACCOUNT_SUSPENDED"
	CodeUserAccountDeleted   Code = "USER_ACCOUNT_DELETED"
	CodeCredentialNotFound   Code = "CREDENTIAL_NOT_FOUND"
	CodeInvalidCredentials   Code = "INVALID_CREDENTIALS"
	CodeSessionNotFound      Code = "SESSION_NOT_FOUND"
	CodePasswordTooShort     Code = "PASSWORD_TOO_SHORT"

	// Ticketing errors
	CodeTicketNotFound                Code = "TICKET_NOT_FOUND"
	CodeTicketBelongsToDifferentParty Code = "TICKET_BELONGS_TO_DIFFERENT_PARTY"
	CodeTicketLacksUser               Code = "TICKET_LACKS_USER"
	CodeTicketIsRevoked               Code = "TICKET_IS_REVOKED"
	CodeUserAlreadyCheckedIn          Code = "USER_ALREADY_CHECKED_IN"
	CodeUserNotCheckedIn              Code = "USER_NOT_CHECKED_IN"

	// Tourney errors
	CodeCommentBodyEmpty Code = "COMMENT_BODY_EMPTY"

	// Avatar errors
	CodeImageTypeProhibited Code = "IMAGE_TYPE_PROHIBITED"
	CodeAvatarNotSet        Code = "AVATAR_NOT_SET"

	// Badge errors
	CodeBadgeNotFound Code = "BADGE_NOT_FOUND"

	// Consent errors
	CodeConsentSubjectUnknown   Code = "CONSENT_SUBJECT_UNKNOWN"
	CodeConsentSubjectNameTaken Code = "CONSENT_SUBJECT_NAME_TAKEN"

	// Board errors
	CodeBoardCategoryNotFound Code = "BOARD_CATEGORY_NOT_FOUND"
	CodeBoardTopicNotFound    Code = "BOARD_TOPIC_NOT_FOUND"

	// Webhook errors
	CodeWebhookNotFound      Code = "WEBHOOK_NOT_FOUND"
	CodeWebhookInvalidFormat Code = "WEBHOOK_INVALID_FORMAT"
)

// HTTPStatus maps domain codes to HTTP response statuses.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidArgument,
		CodePasswordTooShort,
		CodeCommentBodyEmpty,
		CodeImageTypeProhibited,
		CodeWebhookInvalidFormat,
		CodeConsentSubjectUnknown:
		return http.StatusBadRequest

	case CodeUnauthenticated,
		CodeInvalidCredentials,
		CodeSessionNotFound:
		return http.StatusUnauthorized

	case CodePermissionDenied:
		return http.StatusForbidden

	// Not found - resource doesn't exist
	case CodeNotFound,
		CodeUserNotFound,
		CodeCredentialNotFound,
		CodeTicketNotFound,
		CodeBadgeNotFound,
		CodeWebhookNotFound,
		CodeAvatarNotSet,
		CodeBoardCategoryNotFound,
		CodeBoardTopicNotFound:
		return http.StatusNotFound

	// Conflict - state doesn't allow operation
	case CodeConflict,
		CodeUserScreenNameTaken,
		CodeConsentSubjectNameTaken,
		CodeUserAccountSuspended,
		CodeUserAccountDeleted,
		CodeTicketBelongsToDifferentParty,
		CodeTicketLacksUser,
		CodeTicketIsRevoked,
		CodeUserAlreadyCheckedIn,
		CodeUserNotCheckedIn:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
