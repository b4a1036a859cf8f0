package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserView is the read projection of a user. It never exposes the password.
type UserView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	BookCount   int    `json:"bookCount"`
}

func NewUserView(u User) *UserView {
	return &UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		BookCount:   len(u.Books),
	}
}

// BookSummary is derived from a book's transactions on every read and is
// never stored.
type BookSummary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
}

// BookView is a book with its summary. Transactions are sorted newest-first and
// left empty for list responses.
type BookView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	Type         BookType      `json:"type"`
	Summary      BookSummary   `json:"summary"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// SessionView describes who is logged in and which book is active.
type SessionView struct {
	UserID         string `json:"userId,omitempty"`
	ActiveBookID   string `json:"activeBookId,omitempty"`
	ActiveCurrency string `json:"activeCurrency"`
	LoggedIn       bool   `json:"loggedIn"`
}

type DeletionTarget string

const (
	DeletionBook        DeletionTarget = "book"
	DeletionTransaction DeletionTarget = "transaction"
)

// Deletion describes a pending or executed irreversible delete. Token is only
// set on a pending request and must be presented to confirm it.
type Deletion struct {
	Token     string         `json:"token,omitempty"`
	Target    DeletionTarget `json:"target"`
	TargetID  string         `json:"targetId"`
	BookID    string         `json:"bookId,omitempty"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}
