package models

import (
	"sort"
	"strings"

	"github.com/Preet1920/finebookeasyaccounting/shared/utils"
)

// Collection is the full set of users at one point in time. A Collection is
// treated as immutable: every helper below copies the slice spine it touches
// and leaves the receiver untouched, so an older snapshot can still be
// serialised while a newer one is being built.
type Collection []User

func (c Collection) UserIndex(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Collection) FindUser(id string) (User, bool) {
	if i := c.UserIndex(id); i >= 0 {
		return c[i], true
	}
	return User{}, false
}

// EmailTaken reports whether any user other than exceptID owns email,
// compared with utils.SameEmail.
func (c Collection) EmailTaken(email, exceptID string) bool {
	for _, u := range c {
		if u.ID != exceptID && utils.SameEmail(u.Email, email) {
			return true
		}
	}
	return false
}

// WithUser returns a new collection with u replacing the user of the same id,
// or appended when no such user exists.
func (c Collection) WithUser(u User) Collection {
	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	if i := c.UserIndex(u.ID); i >= 0 {
		out[i] = u
		return out
	}
	return append(out, u)
}

func (u User) BookIndex(id string) int {
	for i := range u.Books {
		if u.Books[i].ID == id {
			return i
		}
	}
	return -1
}

func (u User) FindBook(id string) (Book, bool) {
	if i := u.BookIndex(id); i >= 0 {
		return u.Books[i], true
	}
	return Book{}, false
}

// BookNameTaken compares names case-insensitively within this user's books.
func (u User) BookNameTaken(name string) bool {
	for _, b := range u.Books {
		if strings.EqualFold(b.Name, name) {
			return true
		}
	}
	return false
}

func (u User) CountBooks(t BookType) int {
	n := 0
	for _, b := range u.Books {
		if b.Type == t {
			n++
		}
	}
	return n
}

// FirstBook returns the first book of type t in the user's book order.
func (u User) FirstBook(t BookType) (Book, bool) {
	for _, b := range u.Books {
		if b.Type == t {
			return b, true
		}
	}
	return Book{}, false
}

func (u User) BooksOfType(t BookType) []Book {
	var out []Book
	for _, b := range u.Books {
		if b.Type == t {
			out = append(out, b)
		}
	}
	return out
}

// LocateTransaction finds a transaction across all of the user's books.
func (u User) LocateTransaction(id string) (bookIdx, txIdx int, ok bool) {
	for bi, b := range u.Books {
		if ti := b.TransactionIndex(id); ti >= 0 {
			return bi, ti, true
		}
	}
	return -1, -1, false
}

func (u User) WithBook(b Book) User {
	books := make([]Book, len(u.Books), len(u.Books)+1)
	copy(books, u.Books)
	if i := u.BookIndex(b.ID); i >= 0 {
		books[i] = b
	} else {
		books = append(books, b)
	}
	u.Books = books
	return u
}

func (u User) WithoutBook(id string) User {
	books := make([]Book, 0, len(u.Books))
	for _, b := range u.Books {
		if b.ID != id {
			books = append(books, b)
		}
	}
	u.Books = books
	return u
}

func (b Book) TransactionIndex(id string) int {
	for i := range b.Transactions {
		if b.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// InsertTransaction puts t at the head of the list and re-sorts newest-first.
// Transactions sharing a timestamp keep their relative order.
func (b Book) InsertTransaction(t Transaction) Book {
	txs := make([]Transaction, 0, len(b.Transactions)+1)
	txs = append(txs, t)
	txs = append(txs, b.Transactions...)
	SortNewestFirst(txs)
	b.Transactions = txs
	return b
}

// WithTransaction replaces the transaction carrying t.ID in place.
func (b Book) WithTransaction(t Transaction) Book {
	txs := make([]Transaction, len(b.Transactions))
	copy(txs, b.Transactions)
	if i := b.TransactionIndex(t.ID); i >= 0 {
		txs[i] = t
	}
	b.Transactions = txs
	return b
}

func (b Book) WithoutTransaction(id string) Book {
	txs := make([]Transaction, 0, len(b.Transactions))
	for _, t := range b.Transactions {
		if t.ID != id {
			txs = append(txs, t)
		}
	}
	b.Transactions = txs
	return b
}

// SortNewestFirst orders txs by Date descending with a stable sort.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}
