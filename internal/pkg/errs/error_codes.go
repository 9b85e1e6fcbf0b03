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

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Friend and Chat Business Logic Errors
const (
	// ErrSelfFriendRequest indicates a user tried to send a friend request to themselves.
	ErrSelfFriendRequest = 2101

	// ErrFriendRequestExists indicates a friend request between the two users already exists.
	ErrFriendRequestExists = 2102

	// ErrAlreadyFriends indicates the two users already have an accepted friendship.
	ErrAlreadyFriends = 2103

	// ErrFriendRequestNotFound indicates the referenced friend request does not exist.
	ErrFriendRequestNotFound = 2104

	// ErrNotFriends indicates no accepted friendship exists between the two users.
	ErrNotFriends = 2105

	// ErrUserNotBlocked indicates an unblock was attempted on a user who is not blocked.
	ErrUserNotBlocked = 2106

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrAuthTokenMissing indicates a connection attempt carried neither a session ID nor a token.
	ErrAuthTokenMissing = 3001

	// ErrAuthTokenInvalid indicates the supplied bearer token failed verification.
	ErrAuthTokenInvalid = 3002

	// ErrUserNotFound indicates the referenced user account does not exist.
	ErrUserNotFound = 3003

	// ErrUnauthorized indicates the request lacks a valid authenticated identity.
	ErrUnauthorized = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
