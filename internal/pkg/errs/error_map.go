/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Friend and Chat Business Logic Errors
	ErrSelfFriendRequest:     {Code: ErrSelfFriendRequest, Message: "You cannot send a friend request to yourself."},
	ErrFriendRequestExists:   {Code: ErrFriendRequestExists, Message: "A friend request already exists."},
	ErrAlreadyFriends:        {Code: ErrAlreadyFriends, Message: "You are already friends with this traveler."},
	ErrFriendRequestNotFound: {Code: ErrFriendRequestNotFound, Message: "Friend request not found.", Status: http.StatusNotFound},
	ErrNotFriends:            {Code: ErrNotFriends, Message: "You are not friends with this traveler.", Status: http.StatusNotFound},
	ErrUserNotBlocked:        {Code: ErrUserNotBlocked, Message: "This traveler is not blocked.", Status: http.StatusNotFound},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},

	// 3xxx: User, Session, and Security Errors
	ErrAuthTokenMissing: {Code: ErrAuthTokenMissing, Message: "Authentication token is required.", Status: http.StatusUnauthorized},
	ErrAuthTokenInvalid: {Code: ErrAuthTokenInvalid, Message: "Invalid or expired token.", Status: http.StatusUnauthorized},
	ErrUserNotFound:     {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrUnauthorized:     {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
