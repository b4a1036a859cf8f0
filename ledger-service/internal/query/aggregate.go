package query

import (
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/shopspring/decimal"
)

// TotalIncome sums INCOME transactions, counting the receiving amount for
// remittances.
func TotalIncome(b models.Book) decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.Transactions {
		if t.Type != models.TransactionIncome {
			continue
		}
		if t.MSBDetails != nil {
			total = total.Add(t.MSBDetails.ReceivingAmount)
		} else {
			total = total.Add(t.Amount)
		}
	}
	return total
}

func TotalExpense(b models.Book) decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.Transactions {
		if t.Type == models.TransactionExpense {
			total = total.Add(t.Amount)
		}
	}
	return total
}

func Balance(b models.Book) decimal.Decimal {
	return TotalIncome(b).Sub(TotalExpense(b))
}

// SortedTransactions returns a newest-first copy; equal dates keep stored order.
func SortedTransactions(b models.Book) []models.Transaction {
	out := make([]models.Transaction, len(b.Transactions))
	copy(out, b.Transactions)
	models.SortNewestFirst(out)
	return out
}

func Summarize(b models.Book) models.BookSummary {
	return models.BookSummary{
		TotalIncome:      TotalIncome(b),
		TotalExpense:     TotalExpense(b),
		Balance:          Balance(b),
		TransactionCount: len(b.Transactions),
	}
}

// NewBookView builds the read projection of b. List views omit transactions.
func NewBookView(b models.Book, withTransactions bool) models.BookView {
	v := models.BookView{
		ID:       b.ID,
		Name:     b.Name,
		Currency: b.Currency,
		Type:     b.Type,
		Summary:  Summarize(b),
	}
	if withTransactions {
		v.Transactions = SortedTransactions(b)
	}
	return v
}
