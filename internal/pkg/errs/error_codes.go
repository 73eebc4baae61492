/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both inside
the server and in what the facade hands back to the page flows.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate exceeded the limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Content and Relationship Business Logic Errors
const (
	// ErrMessageContentTooLong indicates message content over the length limit.
	ErrMessageContentTooLong = 2201

	// ErrMessageEmpty indicates a message whose content is empty after trimming.
	ErrMessageEmpty = 2202

	// ErrMessageSendFailed indicates a message row could not be written.
	ErrMessageSendFailed = 2203

	// ErrProfileNotFound indicates the requested profile row does not exist.
	ErrProfileNotFound = 2301

	// ErrProfileWriteFailed indicates the profile row could not be created or updated.
	ErrProfileWriteFailed = 2302

	// ErrVisitWriteFailed indicates the visit telemetry row could not be appended.
	ErrVisitWriteFailed = 2303

	// ErrFriendRequestExists indicates a duplicate friend request for the pair.
	ErrFriendRequestExists = 2401

	// ErrFriendRequestNotFound indicates no pending request exists for the pair.
	ErrFriendRequestNotFound = 2402
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrInvalidCredentials indicates an email/password pair that does not match.
	ErrInvalidCredentials = 3001

	// ErrEmailAlreadyRegistered indicates the email is already taken.
	ErrEmailAlreadyRegistered = 3002

	// ErrInvalidEmail indicates an email that fails the format check.
	ErrInvalidEmail = 3003

	// ErrInvalidPassword indicates a password outside the allowed length.
	ErrInvalidPassword = 3004

	// ErrUnauthorized indicates a request that requires an identity.
	ErrUnauthorized = 3005
)

// 4xxx: Transport Errors
const (
	// ErrConnectionFailed indicates the backend could not be reached.
	ErrConnectionFailed = 4001

	// ErrSubscriptionFailed indicates the realtime channel could not be established.
	ErrSubscriptionFailed = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
