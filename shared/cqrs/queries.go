package cqrs

import "github.com/Preet1920/finebookeasyaccounting/shared/models"

// ---------- User queries ----------

// GetUserQuery fetches the profile of a single user.
type GetUserQuery struct {
	UserID string
}

// ---------- Book queries ----------

// ListBooksQuery lists a user's books. An empty Type lists every book.
type ListBooksQuery struct {
	UserID string
	Type   models.BookType
}

// GetBookQuery fetches one book with its summary and sorted transactions.
type GetBookQuery struct {
	UserID string
	BookID string
}

// ---------- Transaction queries ----------

// GetTransactionQuery fetches a single transaction from any of the user's books.
type GetTransactionQuery struct {
	UserID        string
	TransactionID string
}
