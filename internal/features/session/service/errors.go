package service

import "errors"

// Enrollment outcomes. Handlers map each to a distinct HTTP status so the
// client can tell "session is full" from "not enough points" instead of
// receiving a generic failure.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyEnrolled    = errors.New("user is already a participant")
	ErrSessionFull        = errors.New("session is full")
	ErrInsufficientPoints = errors.New("not enough points to join")
	ErrNotEnrolled        = errors.New("user is not a participant")
	ErrNotHost            = errors.New("only the host can perform this action")
	ErrRoomAccessDenied   = errors.New("meeting room access denied")
)
