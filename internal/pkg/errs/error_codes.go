/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Chatroom Errors
const (
	// ErrRoomKeyInvalid indicates a room name that does not follow the
	// {page}-chatroom-{slot} convention or targets a slot outside the
	// page's slot range.
	ErrRoomKeyInvalid = 2101

	// ErrRoomPasswordInvalid indicates a missing or wrong password for a
	// password-gated room slot.
	ErrRoomPasswordInvalid = 2102

	// ErrNotInRoom indicates an operation on a room the connection has not joined.
	ErrNotInRoom = 2103

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrMessageStoreFailed indicates that persisting or reading chat messages failed.
	ErrMessageStoreFailed = 2202

	// ErrChatBanned indicates the account is banned from chatrooms.
	ErrChatBanned = 2203
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrAlreadyLoggedIn indicates a register/login attempt from an already authenticated session.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidUsername indicates the username does not meet format requirements.
	ErrInvalidUsername = 3002

	// ErrInvalidPassword indicates the password does not meet length requirements.
	ErrInvalidPassword = 3003

	// ErrUserAlreadyExists indicates the username is already taken.
	ErrUserAlreadyExists = 3004

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3005

	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = 3006

	// ErrOldPasswordInvalid indicates the current password check failed during a password change.
	ErrOldPasswordInvalid = 3007

	// ErrUnauthorized indicates the operation requires an authenticated identity.
	ErrUnauthorized = 3008

	// ErrAccountBlocked indicates the account is blocked and may not write to the marketplace.
	ErrAccountBlocked = 3009
)

// 4xxx: Marketplace Errors
const (
	// ErrStoreIDInvalid indicates a missing or out-of-range numbered store id.
	ErrStoreIDInvalid = 4001

	// ErrProductNotFound indicates the referenced product does not exist.
	ErrProductNotFound = 4002

	// ErrProductWriteForbidden indicates the caller's role does not govern the product's partition.
	ErrProductWriteForbidden = 4003

	// ErrProductInvalid indicates product fields failed validation.
	ErrProductInvalid = 4004

	// ErrFileSizeTooLarge indicates the uploaded image exceeds the size limit.
	ErrFileSizeTooLarge = 4101

	// ErrFileTypeInvalid indicates the uploaded image has a disallowed type.
	ErrFileTypeInvalid = 4102

	// ErrFileStorageFailed indicates object storage interaction failed.
	ErrFileStorageFailed = 4103

	// ErrFriendRequestInvalid indicates an impossible friend operation
	// (self-request, duplicate, or no pending request to accept).
	ErrFriendRequestInvalid = 4201

	// ErrWantNotFound indicates the referenced want-list entry does not exist.
	ErrWantNotFound = 4301
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
