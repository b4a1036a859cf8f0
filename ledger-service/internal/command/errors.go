package command

import (
	"errors"
	"fmt"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/query"
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/repository"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrDuplicateBookName  = errors.New("a book with this name already exists")
	ErrInvalidBookName    = errors.New("book name must be between 3 and 30 characters")
	ErrLastBookOfType     = errors.New("cannot delete the last book of its type")
	ErrBookTypeMismatch   = errors.New("operation not allowed for this book type")
	ErrMSBTransactionEdit = errors.New("remittance transactions are edited through their remittance details")
	ErrInvalidMSBDetails  = errors.New("invalid remittance details")
	ErrInvalidStatus      = errors.New("status must be PENDING or PAID")

	// ErrInvalidCredentials never says whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrConfirmationNotFound = errors.New("confirmation not found")
	ErrConfirmationExpired  = errors.New("confirmation expired")
)

// Kind groups errors by how a caller should present them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
	KindConfirmation
)

// ValidationError names the offending field alongside a displayable message.
type ValidationError struct {
	Field   string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.err }

func KindOf(err error) Kind {
	var ve *ValidationError
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateBookName),
		errors.Is(err, ErrLastBookOfType):
		return KindConflict
	case errors.As(err, &ve),
		errors.Is(err, ErrInvalidBookName), errors.Is(err, ErrBookTypeMismatch),
		errors.Is(err, ErrMSBTransactionEdit), errors.Is(err, ErrInvalidMSBDetails),
		errors.Is(err, ErrInvalidStatus), errors.Is(err, query.ErrInvalidBookType):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrWrongPassword):
		return KindAuth
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrBookNotFound),
		errors.Is(err, repository.ErrTransactionNotFound):
		return KindNotFound
	case errors.Is(err, ErrConfirmationNotFound), errors.Is(err, ErrConfirmationExpired):
		return KindConfirmation
	default:
		return KindInternal
	}
}
