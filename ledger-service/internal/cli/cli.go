package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/export"
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/query"
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/repository"
	"github.com/Preet1920/finebookeasyaccounting/shared/config"
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/google/subcommands"
)

// Env gives commands access to the configured record store. Tests replace Open.
type Env struct {
	Open   func(ctx context.Context) (repository.RecordStore, func(), error)
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnv opens the record store selected by the environment configuration.
func DefaultEnv() *Env {
	return &Env{
		Open: func(ctx context.Context) (repository.RecordStore, func(), error) {
			b, err := repository.OpenBackends(ctx, config.Load())
			if err != nil {
				return nil, nil, err
			}
			return b.Records, b.Close, nil
		},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Register adds every ledgerctl command to commander.
func Register(commander *subcommands.Commander, env *Env) {
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{env: env}, "")
	commander.Register(&summaryCmd{env: env}, "")
	commander.Register(&exportCmd{env: env}, "")
}

func (e *Env) fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(e.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

func (e *Env) load(ctx context.Context) (models.Collection, func(), error) {
	records, closeFn, err := e.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	users, err := repository.NewJSONStore(records).Load(ctx)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return users, closeFn, nil
}

// --- migrateCmd ---

type migrateCmd struct {
	env    *Env
	dryRun bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "bring the stored ledger record to the current schema" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate [-dry-run]

  Reads the ledger record from the configured store, applies every schema
  migration step and writes the result back.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "dry-run", false, "Report the changes without writing them.")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	records, closeFn, err := c.env.Open(ctx)
	if err != nil {
		return c.env.fail("%v", err)
	}
	defer closeFn()

	data, err := records.ReadRecord(ctx)
	if errors.Is(err, repository.ErrNoRecord) {
		fmt.Fprintln(c.env.Stdout, "No ledger record found.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		return c.env.fail("%v", err)
	}

	users, report, err := repository.DecodeCollection(data)
	if err != nil {
		return c.env.fail("%v", err)
	}
	if !report.Changed() {
		fmt.Fprintf(c.env.Stdout, "Ledger record already at schema v%d (%d users).\n", repository.SchemaVersion(), len(users))
		return subcommands.ExitSuccess
	}
	names := make([]string, 0, len(report))
	for name, n := range report {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(c.env.Stdout, "  %s: %d\n", name, report[name])
	}
	if c.dryRun {
		fmt.Fprintln(c.env.Stdout, "Dry run, nothing written.")
		return subcommands.ExitSuccess
	}
	if err := repository.NewJSONStore(records).Save(ctx, users); err != nil {
		return c.env.fail("%v", err)
	}
	fmt.Fprintf(c.env.Stdout, "Migrated %d users to schema v%d.\n", len(users), repository.SchemaVersion())
	return subcommands.ExitSuccess
}

// --- summaryCmd ---

type summaryCmd struct {
	env   *Env
	email string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print income, expense and balance for every book" }
func (*summaryCmd) Usage() string {
	return `ledgerctl summary [-email <address>]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Only summarize the user with this email.")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	users, closeFn, err := c.env.load(ctx)
	if err != nil {
		return c.env.fail("%v", err)
	}
	defer closeFn()

	w := tabwriter.NewWriter(c.env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USER\tBOOK\tTYPE\tCURRENCY\tTRANSACTIONS\tINCOME\tEXPENSE\tBALANCE")
	found := false
	for _, u := range users {
		if c.email != "" && !strings.EqualFold(u.Email, c.email) {
			continue
		}
		found = true
		for _, b := range u.Books {
			s := query.Summarize(b)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				u.Email, b.Name, b.Type, b.Currency, s.TransactionCount,
				s.TotalIncome, s.TotalExpense, s.Balance)
		}
	}
	if err := w.Flush(); err != nil {
		return c.env.fail("%v", err)
	}
	if c.email != "" && !found {
		return c.env.fail("no user with email %s", c.email)
	}
	return subcommands.ExitSuccess
}

// --- exportCmd ---

type exportCmd struct {
	env   *Env
	email string
	book  string
	out   string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export one book as CSV" }
func (*exportCmd) Usage() string {
	return `ledgerctl export -email <address> -book <name or id> [-out <file>]
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email of the book owner.")
	f.StringVar(&c.book, "book", "", "Book name (case-insensitive) or id.")
	f.StringVar(&c.out, "out", "", "Output file. Defaults to stdout.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" || c.book == "" {
		fmt.Fprintln(c.env.Stderr, "Error: -email and -book are required.")
		return subcommands.ExitUsageError
	}
	users, closeFn, err := c.env.load(ctx)
	if err != nil {
		return c.env.fail("%v", err)
	}
	defer closeFn()

	book, ok := findBook(users, c.email, c.book)
	if !ok {
		return c.env.fail("no book %q for %s", c.book, c.email)
	}

	w := c.env.Stdout
	if c.out != "" {
		f, err := os.Create(c.out)
		if err != nil {
			return c.env.fail("%v", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteBookCSV(ctx, w, book); err != nil {
		return c.env.fail("%v", err)
	}
	return subcommands.ExitSuccess
}

func findBook(users models.Collection, email, book string) (models.Book, bool) {
	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		for _, b := range u.Books {
			if b.ID == book || strings.EqualFold(b.Name, book) {
				return b, true
			}
		}
	}
	return models.Book{}, false
}
