package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"subtrackr/internal/core"
	applog "subtrackr/internal/log"
	"subtrackr/internal/services"
	"subtrackr/internal/store"
	"subtrackr/internal/view"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

var errNotFound = errors.New("subscription not found")

// usageError marks mistakes in how a command was invoked. reported is set when
// the FlagSet already printed the problem.
type usageError struct {
	msg      string
	reported bool
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

const usageText = `Usage: subtrackr <command> [flags]

Commands:
  list      [-json]                          show all subscriptions
  add       -name -cost -renews [-cycle] [-category] [-notes]
                                             add a subscription and print its id
  update    -id [-name] [-cost] [-cycle] [-renews] [-category] [-notes]
                                             change only the given fields
  delete    -id [-yes]                       remove a subscription
  stats                                      spend totals and category breakdown
  upcoming                                   renewals due within 7 days
  import    -file <path|->                   replace every subscription from a JSON array

Configuration is read from the environment and an optional .env file.
`

// App runs commands against a subscription service.
type App struct {
	Service *services.SubscriptionService
	Format  view.Formatter
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *applog.Logger
}

// Run wires configuration, logging and storage, then executes the command in args.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return ExitUsage
	}
	if isHelp(args[0]) {
		fmt.Fprint(stdout, usageText)
		return ExitOK
	}

	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	logger := SetupLogger(cfg, stderr)

	st, cleanup, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open storage",
			applog.FieldOperation, applog.OpStartup,
			applog.FieldErrorType, applog.ErrorTypeStorage,
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldError, err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.WarnContext(ctx, "Failed to release storage",
				applog.FieldOperation, applog.OpShutdown,
				applog.FieldError, err)
		}
	}()

	app := &App{
		Service: services.NewSubscriptionService(st, services.WithServiceLogger(logger)),
		Format:  view.NewFormatter(languageOf(cfg), cfg.CurrencySymbol),
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
	}
	return app.Execute(ctx, args)
}

// Execute dispatches args[0] to its command and maps the outcome to an exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	if a.Logger == nil {
		a.Logger = applog.Nop()
	}
	if len(args) == 0 {
		fmt.Fprint(a.Stderr, usageText)
		return ExitUsage
	}
	cmd, rest := args[0], args[1:]
	var run func(context.Context, []string) error
	switch cmd {
	case "list", "ls":
		run = a.list
	case "add":
		run = a.add
	case "update", "edit":
		run = a.update
	case "delete", "rm":
		run = a.delete
	case "stats":
		run = a.stats
	case "upcoming":
		run = a.upcoming
	case "import":
		run = a.importFile
	default:
		if isHelp(cmd) {
			fmt.Fprint(a.Stdout, usageText)
			return ExitOK
		}
		fmt.Fprintf(a.Stderr, "unknown command %q\n\n%s", cmd, usageText)
		return ExitUsage
	}
	return a.traced(ctx, cmd, func(ctx context.Context) int {
		return a.exitCode(ctx, cmd, run(ctx, rest))
	})
}

func (a *App) exitCode(ctx context.Context, cmd string, err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}

	applog.FromContext(ctx).DebugContext(ctx, "Command failed",
		applog.FieldErrorType, errorType(err),
		applog.FieldError, err)

	var ue usageError
	switch {
	case errors.As(err, &ue):
		if !ue.reported {
			fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		}
		return ExitUsage
	case isValidation(err):
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitUsage
	default:
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitError
	}
}

func errorType(err error) string {
	var ue usageError
	switch {
	case errors.As(err, &ue), isValidation(err):
		return applog.ErrorTypeValidation
	case errors.Is(err, errNotFound):
		return applog.ErrorTypeNotFound
	case errors.Is(err, store.ErrDuplicateID), errors.Is(err, store.ErrEmptyID):
		return applog.ErrorTypeConflict
	default:
		return applog.ErrorTypeStorage
	}
}

func isHelp(arg string) bool {
	switch arg {
	case "help", "-h", "-help", "--help":
		return true
	}
	return false
}

func isValidation(err error) bool {
	for _, target := range []error{
		core.ErrEmptyName,
		core.ErrNameTooLong,
		core.ErrInvalidCost,
		core.ErrInvalidCycle,
		core.ErrInvalidRenewalDate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{msg: err.Error(), reported: true}
	}
	if fs.NArg() > 0 {
		return usagef("%s: unexpected arguments %v", fs.Name(), fs.Args())
	}
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := a.newFlagSet("list")
	asJSON := fs.Bool("json", false, "print the stored collection as JSON")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ov, err := a.Service.Overview(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		subs := make([]core.Subscription, 0, len(ov.Items))
		for _, it := range ov.Items {
			subs = append(subs, it.Subscription)
		}
		enc := json.NewEncoder(a.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(subs)
	}
	return a.Format.RenderList(a.Stdout, ov)
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	name := fs.String("name", "", "service name (required)")
	cost := fs.String("cost", "", "cost per billing cycle, e.g. 15.99 (required)")
	cycle := fs.String("cycle", string(core.Monthly), "billing cycle: monthly or yearly")
	renews := fs.String("renews", "", "next renewal date, YYYY-MM-DD (required)")
	category := fs.String("category", "", "optional category")
	notes := fs.String("notes", "", "optional notes")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var missing []string
	for _, req := range []struct{ flag, value string }{
		{"-name", *name},
		{"-cost", *cost},
		{"-renews", *renews},
	} {
		if strings.TrimSpace(req.value) == "" {
			missing = append(missing, req.flag)
		}
	}
	if len(missing) > 0 {
		return usagef("add: missing required flags %s", strings.Join(missing, ", "))
	}

	amount, err := core.ParseCost(*cost)
	if err != nil {
		return fmt.Errorf("cost %q: %w", *cost, err)
	}
	bc, err := core.ParseBillingCycle(*cycle)
	if err != nil {
		return fmt.Errorf("cycle %q: %w", *cycle, err)
	}

	sub, err := a.Service.Create(ctx, core.Fields{
		Name:         *name,
		Cost:         amount,
		BillingCycle: bc,
		RenewalDate:  *renews,
		Category:     *category,
		Notes:        *notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Stdout, sub.ID)
	return nil
}

func (a *App) update(ctx context.Context, args []string) error {
	fs := a.newFlagSet("update")
	id := fs.String("id", "", "subscription id (required)")
	name := fs.String("name", "", "new name")
	cost := fs.String("cost", "", "new cost")
	cycle := fs.String("cycle", "", "new billing cycle")
	renews := fs.String("renews", "", "new renewal date, YYYY-MM-DD")
	category := fs.String("category", "", "new category; pass an empty value to clear it")
	notes := fs.String("notes", "", "new notes; pass an empty value to clear them")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usagef("update: missing required flag -id")
	}

	var patch core.Patch
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "cost":
			amount, err := core.ParseCost(*cost)
			if err != nil {
				parseErr = fmt.Errorf("cost %q: %w", *cost, err)
				return
			}
			patch.Cost = &amount
		case "cycle":
			bc, err := core.ParseBillingCycle(*cycle)
			if err != nil {
				parseErr = fmt.Errorf("cycle %q: %w", *cycle, err)
				return
			}
			patch.BillingCycle = &bc
		case "renews":
			patch.RenewalDate = renews
		case "category":
			patch.Category = category
		case "notes":
			patch.Notes = notes
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if patch.IsEmpty() {
		return usagef("update: nothing to change; pass at least one field flag")
	}

	sub, ok, err := a.Service.Edit(ctx, *id, patch)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", errNotFound, *id)
	}
	fmt.Fprintf(a.Stdout, "Updated %s (%s)\n", sub.Name, sub.ID)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	fs := a.newFlagSet("delete")
	id := fs.String("id", "", "subscription id (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usagef("delete: missing required flag -id")
	}

	if !*yes {
		sub, ok, err := a.Service.Get(ctx, *id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", errNotFound, *id)
		}
		fmt.Fprintf(a.Stdout, "Delete %q? [y/N]: ", sub.Name)
		if !a.confirm() {
			fmt.Fprintln(a.Stdout, "Cancelled.")
			return nil
		}
	}

	removed, err := a.Service.Remove(ctx, *id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %s", errNotFound, *id)
	}
	fmt.Fprintf(a.Stdout, "Deleted %s\n", *id)
	return nil
}

func (a *App) confirm() bool {
	if a.Stdin == nil {
		return false
	}
	line, err := bufio.NewReader(a.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (a *App) stats(ctx context.Context, args []string) error {
	if err := parseFlags(a.newFlagSet("stats"), args); err != nil {
		return err
	}
	ov, err := a.Service.Overview(ctx)
	if err != nil {
		return err
	}
	return a.Format.RenderStats(a.Stdout, ov.Summary)
}

func (a *App) upcoming(ctx context.Context, args []string) error {
	if err := parseFlags(a.newFlagSet("upcoming"), args); err != nil {
		return err
	}
	renewals, err := a.Service.Upcoming(ctx)
	if err != nil {
		return err
	}
	return a.Format.RenderUpcoming(a.Stdout, renewals)
}

func (a *App) importFile(ctx context.Context, args []string) error {
	fs := a.newFlagSet("import")
	path := fs.String("file", "", "JSON array of subscriptions; - reads stdin (required)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *path == "" {
		return usagef("import: missing required flag -file")
	}

	var (
		data []byte
		err  error
	)
	if *path == "-" {
		data, err = io.ReadAll(a.Stdin)
	} else {
		data, err = os.ReadFile(*path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", *path, err)
	}

	var subs []core.Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return fmt.Errorf("decode %s: %w", *path, err)
	}
	if err := a.Service.Import(ctx, subs); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "Imported %d subscriptions\n", len(subs))
	return nil
}
