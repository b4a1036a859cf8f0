package repository

import (
	"errors"

	"github.com/Preet1920/finebookeasyaccounting/shared/models"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

func LookupUser(users models.Collection, id string) (models.User, error) {
	u, ok := users.FindUser(id)
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func LookupBook(u models.User, id string) (models.Book, error) {
	b, ok := u.FindBook(id)
	if !ok {
		return models.Book{}, ErrBookNotFound
	}
	return b, nil
}

// LookupTransaction searches every book of u for the transaction.
func LookupTransaction(u models.User, id string) (models.Book, models.Transaction, error) {
	bi, ti, ok := u.LocateTransaction(id)
	if !ok {
		return models.Book{}, models.Transaction{}, ErrTransactionNotFound
	}
	return u.Books[bi], u.Books[bi].Transactions[ti], nil
}
