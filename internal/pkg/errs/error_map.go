/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
// Codes without an explicit Status default to 400 Bad Request.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chatroom Errors
	ErrRoomKeyInvalid:        {Code: ErrRoomKeyInvalid, Message: "Unknown chatroom."},
	ErrRoomPasswordInvalid:   {Code: ErrRoomPasswordInvalid, Message: "This chatroom requires the correct password."},
	ErrNotInRoom:             {Code: ErrNotInRoom, Message: "You have not joined this chatroom."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrMessageStoreFailed:    {Code: ErrMessageStoreFailed, Message: "Message could not be saved. Please try again.", Status: http.StatusInternalServerError},
	ErrChatBanned:            {Code: ErrChatBanned, Message: "Your account is banned from chatrooms.", Status: http.StatusForbidden},

	// 3xxx: User, Session, and Security Errors
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "Username is already taken.", Status: http.StatusConflict},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect username or password.", Status: http.StatusUnauthorized},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrOldPasswordInvalid: {Code: ErrOldPasswordInvalid, Message: "Current password is incorrect."},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrAccountBlocked:     {Code: ErrAccountBlocked, Message: "account blocked", Status: http.StatusForbidden},

	// 4xxx: Marketplace Errors
	ErrStoreIDInvalid:        {Code: ErrStoreIDInvalid, Message: "store_id required, 1-30"},
	ErrProductNotFound:       {Code: ErrProductNotFound, Message: "Product not found.", Status: http.StatusNotFound},
	ErrProductWriteForbidden: {Code: ErrProductWriteForbidden, Message: "You may not modify products in this store.", Status: http.StatusForbidden},
	ErrProductInvalid:        {Code: ErrProductInvalid, Message: "Product name and a non-negative price are required."},
	ErrFileSizeTooLarge:      {Code: ErrFileSizeTooLarge, Message: "File is too large."},
	ErrFileTypeInvalid:       {Code: ErrFileTypeInvalid, Message: "Unsupported image type."},
	ErrFileStorageFailed:     {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
	ErrFriendRequestInvalid:  {Code: ErrFriendRequestInvalid, Message: "Friend request cannot be processed."},
	ErrWantNotFound:          {Code: ErrWantNotFound, Message: "Want-list entry not found.", Status: http.StatusNotFound},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
