package services

import (
	"errors"

	"github.com/damienaltman42/sb1-u3qtxy/repositories"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func notFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func invalid(msg string) error      { return &Error{Kind: ErrInvalid, Message: msg} }
func conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }

// orNotFound turns a missing record into a NotFound error with msg and
// passes other errors through.
func orNotFound(err error, msg string) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(msg)
	}
	return err
}

const (
	msgUserNotFound       = "User not found"
	msgRouletteNotFound   = "Roulette not found"
	msgCodeNotFound       = "Access code not found"
	msgInvalidCode        = "Invalid or expired code"
	msgNoSpins            = "No spins remaining"
	msgCodeExpired        = "Code has expired"
	msgWinNotFound        = "Win not found"
	msgAlreadyClaimed     = "Prize already claimed"
	msgSocialLinkNotFound = "Social link not found"
)
