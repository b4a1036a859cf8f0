package query

import (
	"errors"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/repository"
	"github.com/Preet1920/finebookeasyaccounting/shared/cqrs"
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
)

// DefaultCurrency is reported when no book is active.
const DefaultCurrency = "USD"

var ErrInvalidBookType = errors.New("book type must be GENERAL or MSB")

// Snapshots is the read side of the snapshot repository.
type Snapshots interface {
	Current() models.Collection
}

// Sessions is the read side of the session repository.
type Sessions interface {
	Current() (userID, activeBookID string)
}

type LedgerQueryService struct {
	users    Snapshots
	sessions Sessions
}

func NewLedgerQueryService(users Snapshots, sessions Sessions) *LedgerQueryService {
	return &LedgerQueryService{users: users, sessions: sessions}
}

func (s *LedgerQueryService) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	u, err := repository.LookupUser(s.users.Current(), q.UserID)
	if err != nil {
		return nil, err
	}
	return models.NewUserView(u), nil
}

// ListBooks returns summaries of the user's books in stored order.
func (s *LedgerQueryService) ListBooks(q cqrs.ListBooksQuery) ([]models.BookView, error) {
	if q.Type != "" && q.Type != models.BookTypeGeneral && q.Type != models.BookTypeMSB {
		return nil, ErrInvalidBookType
	}
	u, err := repository.LookupUser(s.users.Current(), q.UserID)
	if err != nil {
		return nil, err
	}
	books := u.Books
	if q.Type != "" {
		books = u.BooksOfType(q.Type)
	}
	views := make([]models.BookView, 0, len(books))
	for _, b := range books {
		views = append(views, NewBookView(b, false))
	}
	return views, nil
}

func (s *LedgerQueryService) GetBook(q cqrs.GetBookQuery) (*models.BookView, error) {
	u, err := repository.LookupUser(s.users.Current(), q.UserID)
	if err != nil {
		return nil, err
	}
	b, err := repository.LookupBook(u, q.BookID)
	if err != nil {
		return nil, err
	}
	view := NewBookView(b, true)
	return &view, nil
}

func (s *LedgerQueryService) GetTransaction(q cqrs.GetTransactionQuery) (*models.Transaction, error) {
	u, err := repository.LookupUser(s.users.Current(), q.UserID)
	if err != nil {
		return nil, err
	}
	_, t, err := repository.LookupTransaction(u, q.TransactionID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Session reports the logged in user and the active book's currency.
func (s *LedgerQueryService) Session() *models.SessionView {
	userID, bookID := s.sessions.Current()
	view := &models.SessionView{
		UserID:         userID,
		ActiveCurrency: DefaultCurrency,
		LoggedIn:       userID != "",
	}
	if u, ok := s.users.Current().FindUser(userID); ok {
		if b, ok := u.FindBook(bookID); ok {
			view.ActiveBookID = b.ID
			if b.Currency != "" {
				view.ActiveCurrency = b.Currency
			}
		}
	}
	return view
}
