package cqrs

import (
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/shopspring/decimal"
)

type RegisterCommand struct {
	Name        string
	PhoneNumber string
	Email       string
	Password    string
}

type LoginCommand struct {
	Email    string
	Password string
}

type UpdateProfileCommand struct {
	UserID      string
	Name        string
	PhoneNumber string
	Email       string
}

type ChangePasswordCommand struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// AddBookCommand is validated after Name has been trimmed.
type AddBookCommand struct {
	OwnerID  string
	Name     string          `validate:"min=3,max=30"`
	Currency string          `validate:"required"`
	Type     models.BookType `validate:"required,oneof=GENERAL MSB"`
}

type UpdateBookCurrencyCommand struct {
	OwnerID  string
	BookID   string
	Currency string
}

type SelectBookCommand struct {
	OwnerID string
	BookID  string
}

type RequestDeleteBookCommand struct {
	OwnerID string
	BookID  string
}

type RequestDeleteTransactionCommand struct {
	OwnerID       string
	TransactionID string
}

// ConfirmDeleteCommand executes a deletion previously requested by the same owner.
type ConfirmDeleteCommand struct {
	OwnerID string
	Token   string
}

type AddTransactionCommand struct {
	OwnerID     string
	BookID      string
	Description string
	Amount      decimal.Decimal
	Type        models.TransactionType `validate:"required,oneof=INCOME EXPENSE"`
}

// UpdateTransactionCommand merges the non-nil fields into the stored transaction.
type UpdateTransactionCommand struct {
	OwnerID       string
	BookID        string
	TransactionID string
	Description   *string
	Amount        *decimal.Decimal
	Type          *models.TransactionType `validate:"omitempty,oneof=INCOME EXPENSE"`
}

type AddMSBTransactionCommand struct {
	OwnerID     string
	BookID      string
	Description string
	Details     models.MSBDetails
}

type UpdateMSBTransactionCommand struct {
	OwnerID       string
	BookID        string
	TransactionID string
	Description   string
	Details       models.MSBDetails
}

type UpdateMSBStatusCommand struct {
	OwnerID       string
	TransactionID string
	Status        models.MSBStatus
}
