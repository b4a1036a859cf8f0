package command

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/query"
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/repository"
	"github.com/Preet1920/finebookeasyaccounting/shared/cqrs"
	"github.com/Preet1920/finebookeasyaccounting/shared/events"
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/Preet1920/finebookeasyaccounting/shared/utils"
)

const (
	DefaultBookName     = "My First Book"
	DefaultBookCurrency = "USD"
)

// EventPublisher is satisfied by *events.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// LedgerCommandService applies every ledger mutation as one snapshot
// replacement and keeps the session pointer in step with it.
type LedgerCommandService struct {
	users     *repository.SnapshotRepository
	sessions  *repository.SessionRepository
	publisher EventPublisher
	pending   *confirmations
	now       func() time.Time
}

// NewLedgerCommandService creates the service. publisher may be nil.
func NewLedgerCommandService(
	users *repository.SnapshotRepository,
	sessions *repository.SessionRepository,
	publisher EventPublisher,
	confirmationTTL time.Duration,
) *LedgerCommandService {
	return &LedgerCommandService{
		users:     users,
		sessions:  sessions,
		publisher: publisher,
		pending:   newConfirmations(confirmationTTL),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for timestamps and token expiry.
func (s *LedgerCommandService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *LedgerCommandService) publish(stream, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.Background(), stream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

// ---------- Users ----------

func (s *LedgerCommandService) Register(cmd cqrs.RegisterCommand) (*models.UserView, error) {
	var created models.User
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		email := strings.TrimSpace(cmd.Email)
		if c.EmailTaken(email, "") {
			return nil, ErrDuplicateEmail
		}
		created = models.User{
			ID:          utils.GenerateID(utils.UserPrefix),
			Name:        utils.CleanName(cmd.Name),
			PhoneNumber: cmd.PhoneNumber,
			Email:       email,
			Password:    cmd.Password,
			Books: []models.Book{{
				ID:           utils.GenerateID(utils.BookPrefix),
				Name:         DefaultBookName,
				Currency:     DefaultBookCurrency,
				Type:         models.BookTypeGeneral,
				Transactions: []models.Transaction{},
			}},
		}
		return c.WithUser(created), nil
	})
	if err != nil {
		return nil, err
	}
	s.sessions.Login(context.Background(), created.ID, created.Books[0].ID)
	s.publish(events.UserEventsStream, events.UserRegistered, events.UserEvent{
		UserID: created.ID, Email: created.Email, Name: created.Name,
	})
	return models.NewUserView(created), nil
}

// Login matches email and password exactly and activates the first GENERAL book.
func (s *LedgerCommandService) Login(cmd cqrs.LoginCommand) (*models.SessionView, error) {
	for _, u := range s.users.Current() {
		if u.Email != cmd.Email || u.Password != cmd.Password {
			continue
		}
		view := &models.SessionView{UserID: u.ID, ActiveCurrency: query.DefaultCurrency, LoggedIn: true}
		if b, ok := u.FirstBook(models.BookTypeGeneral); ok {
			view.ActiveBookID = b.ID
			view.ActiveCurrency = b.Currency
		}
		s.sessions.Login(context.Background(), u.ID, view.ActiveBookID)
		return view, nil
	}
	return nil, ErrInvalidCredentials
}

func (s *LedgerCommandService) Logout() {
	s.sessions.Logout(context.Background())
}

func (s *LedgerCommandService) UpdateProfile(cmd cqrs.UpdateProfileCommand) (*models.UserView, error) {
	var updated models.User
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.UserID)
		if err != nil {
			return nil, err
		}
		email := strings.TrimSpace(cmd.Email)
		if c.EmailTaken(email, u.ID) {
			return nil, ErrDuplicateEmail
		}
		u.Name = utils.CleanName(cmd.Name)
		u.PhoneNumber = cmd.PhoneNumber
		u.Email = email
		updated = u
		return c.WithUser(u), nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(events.UserEventsStream, events.UserProfileUpdated, events.UserEvent{
		UserID: updated.ID, Email: updated.Email, Name: updated.Name,
	})
	return models.NewUserView(updated), nil
}

func (s *LedgerCommandService) ChangePassword(cmd cqrs.ChangePasswordCommand) error {
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.UserID)
		if err != nil {
			return nil, err
		}
		if u.Password != cmd.CurrentPassword {
			return nil, ErrWrongPassword
		}
		u.Password = cmd.NewPassword
		return c.WithUser(u), nil
	})
	if err != nil {
		return err
	}
	s.publish(events.UserEventsStream, events.UserPasswordChanged, events.UserEvent{UserID: cmd.UserID})
	return nil
}

// ---------- Books ----------

// AddBook appends a book to the owner's list and makes it active.
func (s *LedgerCommandService) AddBook(cmd cqrs.AddBookCommand) (*models.BookView, error) {
	cmd.Name = utils.CleanName(cmd.Name)
	cmd.Currency = strings.TrimSpace(cmd.Currency)
	if err := validateStruct(cmd, "", nil); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Field == "Name" {
			return nil, &ValidationError{Field: "name", Message: ErrInvalidBookName.Error(), err: ErrInvalidBookName}
		}
		return nil, err
	}

	var created models.Book
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		if u.BookNameTaken(cmd.Name) {
			return nil, ErrDuplicateBookName
		}
		created = models.Book{
			ID:           utils.GenerateID(utils.BookPrefix),
			Name:         cmd.Name,
			Currency:     cmd.Currency,
			Type:         cmd.Type,
			Transactions: []models.Transaction{},
		}
		return c.WithUser(u.WithBook(created)), nil
	})
	if err != nil {
		return nil, err
	}
	s.sessions.SetActiveBook(cmd.OwnerID, created.ID)
	s.publish(events.BookEventsStream, events.BookCreated, events.BookEvent{
		BookID: created.ID, UserID: cmd.OwnerID, Name: created.Name,
		Currency: created.Currency, Type: string(created.Type),
	})
	view := query.NewBookView(created, true)
	return &view, nil
}

func (s *LedgerCommandService) UpdateBookCurrency(cmd cqrs.UpdateBookCurrencyCommand) (*models.BookView, error) {
	var updated models.Book
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		b, err := repository.LookupBook(u, cmd.BookID)
		if err != nil {
			return nil, err
		}
		b.Currency = cmd.Currency
		updated = b
		return c.WithUser(u.WithBook(b)), nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(events.BookEventsStream, events.BookCurrencyUpdated, events.BookEvent{
		BookID: updated.ID, UserID: cmd.OwnerID, Currency: updated.Currency,
	})
	view := query.NewBookView(updated, true)
	return &view, nil
}

// SelectBook makes one of the owner's books the active book.
func (s *LedgerCommandService) SelectBook(cmd cqrs.SelectBookCommand) (*models.SessionView, error) {
	u, err := repository.LookupUser(s.users.Current(), cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	b, err := repository.LookupBook(u, cmd.BookID)
	if err != nil {
		return nil, err
	}
	s.sessions.SetActiveBook(u.ID, b.ID)
	return &models.SessionView{UserID: u.ID, ActiveBookID: b.ID, ActiveCurrency: b.Currency, LoggedIn: true}, nil
}

// RequestDeleteBook checks the last-of-type guard and returns a confirmation
// token. Nothing is deleted until ConfirmDelete.
func (s *LedgerCommandService) RequestDeleteBook(cmd cqrs.RequestDeleteBookCommand) (*models.Deletion, error) {
	u, err := repository.LookupUser(s.users.Current(), cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	b, err := repository.LookupBook(u, cmd.BookID)
	if err != nil {
		return nil, err
	}
	if u.CountBooks(b.Type) <= 1 {
		return nil, ErrLastBookOfType
	}
	d := s.pending.issue(u.ID, models.Deletion{
		Target: models.DeletionBook, TargetID: b.ID, BookID: b.ID,
	}, s.now())
	return &d, nil
}

func (s *LedgerCommandService) RequestDeleteTransaction(cmd cqrs.RequestDeleteTransactionCommand) (*models.Deletion, error) {
	u, err := repository.LookupUser(s.users.Current(), cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	b, t, err := repository.LookupTransaction(u, cmd.TransactionID)
	if err != nil {
		return nil, err
	}
	d := s.pending.issue(u.ID, models.Deletion{
		Target: models.DeletionTransaction, TargetID: t.ID, BookID: b.ID,
	}, s.now())
	return &d, nil
}

// ConfirmDelete redeems a token issued to the same owner and performs the
// deletion it describes.
func (s *LedgerCommandService) ConfirmDelete(cmd cqrs.ConfirmDeleteCommand) (*models.Deletion, error) {
	d, err := s.pending.redeem(cmd.OwnerID, cmd.Token, s.now())
	if err != nil {
		return nil, err
	}
	switch d.Target {
	case models.DeletionBook:
		err = s.deleteBook(cmd.OwnerID, d.TargetID)
	case models.DeletionTransaction:
		err = s.deleteTransaction(cmd.OwnerID, d.TargetID)
	}
	if err != nil {
		return nil, err
	}
	d.Token = ""
	d.ExpiresAt = nil
	return &d, nil
}

// deleteBook removes the book with its transactions and activates a remaining
// book of the same type.
func (s *LedgerCommandService) deleteBook(ownerID, bookID string) error {
	var removed models.Book
	var next models.Book
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, ownerID)
		if err != nil {
			return nil, err
		}
		b, err := repository.LookupBook(u, bookID)
		if err != nil {
			return nil, err
		}
		if u.CountBooks(b.Type) <= 1 {
			return nil, ErrLastBookOfType
		}
		removed = b
		u = u.WithoutBook(b.ID)
		next, _ = u.FirstBook(b.Type)
		return c.WithUser(u), nil
	})
	if err != nil {
		return err
	}
	s.sessions.SetActiveBook(ownerID, next.ID)
	s.publish(events.BookEventsStream, events.BookDeleted, events.BookEvent{
		BookID: removed.ID, UserID: ownerID, Name: removed.Name,
		Type: string(removed.Type), Transactions: len(removed.Transactions),
	})
	return nil
}

// ---------- Transactions ----------

func (s *LedgerCommandService) AddTransaction(cmd cqrs.AddTransactionCommand) (*models.Transaction, error) {
	if err := validateStruct(cmd, "", nil); err != nil {
		return nil, err
	}
	created := models.Transaction{
		ID:          utils.GenerateID(utils.TransactionPrefix),
		Description: cmd.Description,
		Amount:      cmd.Amount,
		Type:        cmd.Type,
		Date:        s.now(),
		Category:    models.CategoryGeneral,
	}
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		b, err := repository.LookupBook(u, cmd.BookID)
		if err != nil {
			return nil, err
		}
		if b.Type != models.BookTypeGeneral {
			return nil, ErrBookTypeMismatch
		}
		return c.WithUser(u.WithBook(b.InsertTransaction(created))), nil
	})
	if err != nil {
		return nil, err
	}
	s.publishTransaction(events.TransactionCreated, cmd.OwnerID, cmd.BookID, created)
	return &created, nil
}

// UpdateTransaction merges the supplied fields and stamps lastModified. Id,
// category and date never change.
func (s *LedgerCommandService) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	if err := validateStruct(cmd, "", nil); err != nil {
		return nil, err
	}
	var updated models.Transaction
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		b, err := repository.LookupBook(u, cmd.BookID)
		if err != nil {
			return nil, err
		}
		i := b.TransactionIndex(cmd.TransactionID)
		if i < 0 {
			return nil, repository.ErrTransactionNotFound
		}
		t := b.Transactions[i]
		if t.Category == models.CategoryMSB || t.MSBDetails != nil {
			return nil, ErrMSBTransactionEdit
		}
		if cmd.Description != nil {
			t.Description = *cmd.Description
		}
		if cmd.Amount != nil {
			t.Amount = *cmd.Amount
		}
		if cmd.Type != nil {
			t.Type = *cmd.Type
		}
		modified := s.now()
		t.LastModified = &modified
		updated = t
		return c.WithUser(u.WithBook(b.WithTransaction(t))), nil
	})
	if err != nil {
		return nil, err
	}
	s.publishTransaction(events.TransactionUpdated, cmd.OwnerID, cmd.BookID, updated)
	return &updated, nil
}

// deleteTransaction removes the transaction from whichever of the owner's
// books holds it.
func (s *LedgerCommandService) deleteTransaction(ownerID, transactionID string) error {
	var removed models.Transaction
	var bookID string
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, ownerID)
		if err != nil {
			return nil, err
		}
		b, t, err := repository.LookupTransaction(u, transactionID)
		if err != nil {
			return nil, err
		}
		removed, bookID = t, b.ID
		return c.WithUser(u.WithBook(b.WithoutTransaction(t.ID))), nil
	})
	if err != nil {
		return err
	}
	s.publishTransaction(events.TransactionDeleted, ownerID, bookID, removed)
	return nil
}

func (s *LedgerCommandService) publishTransaction(eventType, ownerID, bookID string, t models.Transaction) {
	ev := events.TransactionEvent{
		TransactionID: t.ID,
		BookID:        bookID,
		UserID:        ownerID,
		Amount:        t.Amount.String(),
		Type:          string(t.Type),
		Category:      string(t.Category),
	}
	if t.MSBDetails != nil {
		ev.Status = string(t.MSBDetails.Status)
	}
	s.publish(events.TransactionEventsStream, eventType, ev)
}
