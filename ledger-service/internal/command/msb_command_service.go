package command

import (
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/repository"
	"github.com/Preet1920/finebookeasyaccounting/shared/cqrs"
	"github.com/Preet1920/finebookeasyaccounting/shared/events"
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/Preet1920/finebookeasyaccounting/shared/utils"
)

// normalizeMSBDetails validates d and keeps only the payload selected by the
// payment type and digital method. An empty status is left for the caller to
// resolve.
func normalizeMSBDetails(d models.MSBDetails) (models.MSBDetails, error) {
	if err := validateStruct(d, "msbDetails", ErrInvalidMSBDetails); err != nil {
		return models.MSBDetails{}, err
	}
	out := d.Clone()
	switch d.PaymentType {
	case models.PaymentCash:
		if d.CashDetails == nil {
			return models.MSBDetails{}, missingPayload("cashDetails")
		}
		if err := validateStruct(d.CashDetails, "msbDetails.cashDetails", ErrInvalidMSBDetails); err != nil {
			return models.MSBDetails{}, err
		}
		out.DigitalMethod = ""
		out.BankDetails, out.UPIDetails = nil, nil
	case models.PaymentDigital:
		switch d.DigitalMethod {
		case models.DigitalBank:
			if d.BankDetails == nil {
				return models.MSBDetails{}, missingPayload("bankDetails")
			}
			if err := validateStruct(d.BankDetails, "msbDetails.bankDetails", ErrInvalidMSBDetails); err != nil {
				return models.MSBDetails{}, err
			}
			out.UPIDetails = nil
		case models.DigitalUPI:
			if d.UPIDetails == nil {
				return models.MSBDetails{}, missingPayload("upiDetails")
			}
			if err := validateStruct(d.UPIDetails, "msbDetails.upiDetails", ErrInvalidMSBDetails); err != nil {
				return models.MSBDetails{}, err
			}
			out.BankDetails = nil
		default:
			return models.MSBDetails{}, missingPayload("digitalMethod")
		}
		out.CashDetails = nil
	}
	return out, nil
}

func missingPayload(field string) error {
	return &ValidationError{Field: "msbDetails." + field, Message: "is required", err: ErrInvalidMSBDetails}
}

// AddMSBTransaction records a remittance. The ledger amount is the receiving
// amount and the type is always INCOME. A remittance without a status starts
// as PENDING.
func (s *LedgerCommandService) AddMSBTransaction(cmd cqrs.AddMSBTransactionCommand) (*models.Transaction, error) {
	details, err := normalizeMSBDetails(cmd.Details)
	if err != nil {
		return nil, err
	}
	if details.Status == "" {
		details.Status = models.StatusPending
	}
	created := models.Transaction{
		ID:          utils.GenerateID(utils.TransactionPrefix),
		Description: cmd.Description,
		Amount:      details.ReceivingAmount,
		Type:        models.TransactionIncome,
		Date:        s.now(),
		Category:    models.CategoryMSB,
		MSBDetails:  &details,
	}
	err = s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		b, err := repository.LookupBook(u, cmd.BookID)
		if err != nil {
			return nil, err
		}
		if b.Type != models.BookTypeMSB {
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

// UpdateMSBTransaction replaces the description and the whole remittance
// payload, recomputing the ledger amount. An empty status keeps the stored one.
func (s *LedgerCommandService) UpdateMSBTransaction(cmd cqrs.UpdateMSBTransactionCommand) (*models.Transaction, error) {
	details, err := normalizeMSBDetails(cmd.Details)
	if err != nil {
		return nil, err
	}
	var updated models.Transaction
	err = s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		b, err := repository.LookupBook(u, cmd.BookID)
		if err != nil {
			return nil, err
		}
		if b.Type != models.BookTypeMSB {
			return nil, ErrBookTypeMismatch
		}
		i := b.TransactionIndex(cmd.TransactionID)
		if i < 0 {
			return nil, repository.ErrTransactionNotFound
		}
		t := b.Transactions[i]
		if t.Category != models.CategoryMSB {
			return nil, ErrBookTypeMismatch
		}
		next := details.Clone()
		if next.Status == "" {
			next.Status = models.StatusPending
			if t.MSBDetails != nil {
				next.Status = t.MSBDetails.Status
			}
		}
		modified := s.now()
		t.Description = cmd.Description
		t.MSBDetails = &next
		t.Amount = next.ReceivingAmount
		t.Type = models.TransactionIncome
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

// UpdateMSBStatus moves a remittance between PENDING and PAID in either
// direction. Transactions without remittance details, and transactions already
// in the requested state, are returned unchanged.
func (s *LedgerCommandService) UpdateMSBStatus(cmd cqrs.UpdateMSBStatusCommand) (*models.Transaction, error) {
	if !cmd.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: ErrInvalidStatus.Error(), err: ErrInvalidStatus}
	}
	var result models.Transaction
	var bookID string
	changed := false
	err := s.users.Update(func(c models.Collection) (models.Collection, error) {
		u, err := repository.LookupUser(c, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		b, t, err := repository.LookupTransaction(u, cmd.TransactionID)
		if err != nil {
			return nil, err
		}
		result, bookID = t, b.ID
		if t.MSBDetails == nil || t.MSBDetails.Status == cmd.Status {
			return c, nil
		}
		details := t.MSBDetails.Clone()
		details.Status = cmd.Status
		t.MSBDetails = &details
		result, changed = t, true
		return c.WithUser(u.WithBook(b.WithTransaction(t))), nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publishTransaction(events.MSBStatusUpdated, cmd.OwnerID, bookID, result)
	}
	return &result, nil
}
