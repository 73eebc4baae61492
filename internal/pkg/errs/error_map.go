/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and facade-side error reconstruction.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// Auth messages deliberately match the wording the original hosted backend
// produced, so unmatched codes can pass through to the UI verbatim.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Kind: KindValidation, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Kind: KindValidation, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Kind: KindValidation, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Kind: KindValidation, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Kind: KindTransport, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Content and Relationship Business Logic Errors
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Kind: KindValidation, Message: "Message is too long."},
	ErrMessageEmpty:          {Code: ErrMessageEmpty, Kind: KindValidation, Message: "Message is empty."},
	ErrMessageSendFailed:     {Code: ErrMessageSendFailed, Kind: KindData, Message: "Failed to send message."},
	ErrProfileNotFound:       {Code: ErrProfileNotFound, Kind: KindData, Message: "Profile not found."},
	ErrProfileWriteFailed:    {Code: ErrProfileWriteFailed, Kind: KindData, Message: "Failed to save profile."},
	ErrVisitWriteFailed:      {Code: ErrVisitWriteFailed, Kind: KindData, Message: "Failed to record visit."},
	ErrFriendRequestExists:   {Code: ErrFriendRequestExists, Kind: KindData, Message: "Friend request already exists."},
	ErrFriendRequestNotFound: {Code: ErrFriendRequestNotFound, Kind: KindData, Message: "Friend request not found."},

	// 3xxx: User, Session, and Security Errors
	ErrInvalidCredentials:     {Code: ErrInvalidCredentials, Kind: KindAuth, Message: "Invalid login credentials"},
	ErrEmailAlreadyRegistered: {Code: ErrEmailAlreadyRegistered, Kind: KindAuth, Message: "User already registered"},
	ErrInvalidEmail:           {Code: ErrInvalidEmail, Kind: KindValidation, Message: "Invalid email address."},
	ErrInvalidPassword:        {Code: ErrInvalidPassword, Kind: KindValidation, Message: "Password must be at least 8 characters."},
	ErrUnauthorized:           {Code: ErrUnauthorized, Kind: KindAuth, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 4xxx: Transport Errors
	ErrConnectionFailed:   {Code: ErrConnectionFailed, Kind: KindTransport, Message: "Could not reach the server."},
	ErrSubscriptionFailed: {Code: ErrSubscriptionFailed, Kind: KindTransport, Message: "Could not establish the realtime channel."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Kind: KindData, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
