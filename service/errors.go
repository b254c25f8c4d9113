package service

import (
	"github.com/pkg/errors"
)

// Kind classifies a service error; the HTTP layer maps each kind to a status code
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindUnauthorized
)

// user facing messages
const (
	MsgContentRequired       = "Content is required"
	MsgSearchQueryRequired   = "Search query is required"
	MsgPostNotFound          = "Post not found"
	MsgCommentNotFound       = "Comment not found"
	MsgUserNotFound          = "User not found"
	MsgFriendRequestNotFound = "Friend request not found"
	MsgNotAuthorized         = "Not authorized"
	MsgAlreadyFriends        = "Already friends"
	MsgRequestAlreadySent    = "Friend request already sent"
	MsgSelfFriendRequest     = "Cannot send a friend request to yourself"
	MsgUserExists            = "User already exists"
	MsgInvalidCredentials    = "Invalid credentials"
)

// Error is an expected failure whose message can be shown to the caller as is
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(msg string) error   { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

// KindOf digs the Kind out of a possibly wrapped error. Anything unclassified is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller facing message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Server error"
}
