package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/query"
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var header = []string{
	"id", "date", "description", "type", "category", "amount", "display_amount",
	"status", "sender", "source_amount", "source_currency", "exchange_rate", "receiving_currency",
}

// FormatAmount renders amount with the currency's symbol and minor units when
// currency is an ISO code, and as a plain decimal otherwise.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.String()
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// WriteBookCSV writes b's transactions newest-first followed by a totals row.
// It stops with ctx.Err() when ctx is cancelled between rows.
func WriteBookCSV(ctx context.Context, w io.Writer, b models.Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range query.SortedTransactions(b) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(row(t, b.Currency)); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", t.ID, err)
		}
	}
	s := query.Summarize(b)
	totals := make([]string, len(header))
	totals[0] = "balance"
	totals[5] = s.Balance.String()
	totals[6] = FormatAmount(s.Balance, b.Currency)
	if err := cw.Write(totals); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func row(t models.Transaction, currency string) []string {
	r := []string{
		t.ID,
		t.Date.UTC().Format(time.RFC3339),
		t.Description,
		string(t.Type),
		string(t.Category),
		t.Amount.String(),
		FormatAmount(t.Amount, currency),
		"", "", "", "", "", "",
	}
	if d := t.MSBDetails; d != nil {
		r[6] = FormatAmount(t.Amount, d.ReceivingCurrency)
		r[7] = string(d.Status)
		r[8] = d.SenderName
		r[9] = d.SourceAmount.String()
		r[10] = d.SourceCurrency
		r[11] = d.ExchangeRate.String()
		r[12] = d.ReceivingCurrency
	}
	return r
}

// Job renders one book export in the background. The book is a snapshot value,
// so the export never contends with ledger writes.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}
	buf    bytes.Buffer
	err    error
}

func Start(ctx context.Context, b models.Book) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(j.done)
		defer cancel()
		j.err = WriteBookCSV(ctx, &j.buf, b)
	}()
	return j
}

func (j *Job) Cancel() { j.cancel() }

// Wait blocks until the export finishes and returns the CSV document.
func (j *Job) Wait() ([]byte, error) {
	<-j.done
	if j.err != nil {
		return nil, j.err
	}
	return j.buf.Bytes(), nil
}
