package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/services"
)

// ErrUsage is returned for unknown commands and bad flags.
var ErrUsage = errors.New("usage error")

const adminUsage = `usage: fintrack-admin <command> [flags]

commands:
  set-credential  -owner NAME [-secret S]   set an owner's API secret (read from stdin when -secret is absent)
  seed-categories -owner NAME               create the default categories
  materialize     [-date YYYY-MM-DD]        run the fixed-expense pass for a day`

// CredentialSetter stores an owner's hashed secret.
type CredentialSetter interface {
	SetCredential(ctx context.Context, owner, secret string) error
}

// Admin implements the fintrack-admin commands.
type Admin struct {
	Credentials CredentialSetter
	Ledger      *services.LedgerService
	Recurring   *services.RecurringGenerator
	In          io.Reader
	Out         io.Writer
	Now         func() time.Time
}

var defaultCategories = []struct {
	name string
	typ  core.CategoryType
}{
	{"Salary", core.Income},
	{"Other income", core.Income},
	{"Rent", core.Expense},
	{"Food", core.Expense},
	{"Transport", core.Expense},
	{"Utilities", core.Expense},
	{"Health", core.Expense},
	{"Leisure", core.Expense},
}

// Run dispatches args[0] to its command.
func (a *Admin) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.Out, adminUsage)
		return ErrUsage
	}
	switch args[0] {
	case "set-credential":
		return a.setCredential(ctx, args[1:])
	case "seed-categories":
		return a.seedCategories(ctx, args[1:])
	case "materialize":
		return a.materialize(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprintln(a.Out, adminUsage)
		return nil
	default:
		fmt.Fprintln(a.Out, adminUsage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func (a *Admin) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Out)
	return fs
}

func (a *Admin) setCredential(ctx context.Context, args []string) error {
	fs := a.flags("set-credential")
	owner := fs.String("owner", "", "owner name")
	secret := fs.String("secret", "", "secret; read from stdin when empty")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if strings.TrimSpace(*owner) == "" {
		return fmt.Errorf("%w: -owner is required", ErrUsage)
	}

	if *secret == "" && a.In != nil {
		line, err := bufio.NewReader(a.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read secret: %w", err)
		}
		*secret = strings.TrimRight(line, "\r\n")
	}

	if err := a.Credentials.SetCredential(ctx, strings.TrimSpace(*owner), *secret); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "credential set for %s\n", strings.TrimSpace(*owner))
	return nil
}

// seedCategories creates the default categories, leaving existing ones alone.
func (a *Admin) seedCategories(ctx context.Context, args []string) error {
	fs := a.flags("seed-categories")
	owner := fs.String("owner", "", "owner name")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if strings.TrimSpace(*owner) == "" {
		return fmt.Errorf("%w: -owner is required", ErrUsage)
	}

	created := 0
	for i, c := range defaultCategories {
		_, err := a.Ledger.CreateCategory(ctx, *owner, c.name, c.typ, i)
		switch {
		case errors.Is(err, core.ErrDuplicateCategory):
			continue
		case err != nil:
			return fmt.Errorf("create %s: %w", c.name, err)
		}
		created++
	}
	fmt.Fprintf(a.Out, "%d categories created for %s\n", created, *owner)
	return nil
}

func (a *Admin) materialize(ctx context.Context, args []string) error {
	fs := a.flags("materialize")
	date := fs.String("date", "", "day to process (YYYY-MM-DD), today when empty")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	day := a.now()
	if *date != "" {
		d, err := core.ParseDate(*date)
		if err != nil {
			return err
		}
		day = d
	}

	created, err := a.Recurring.ProcessDay(ctx, day)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%d transactions created for %s\n", created, core.FormatDate(day))
	return nil
}

func (a *Admin) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
