package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appkg "github.com/xenking/catalog-feed/internal/app"
	"github.com/xenking/catalog-feed/internal/cli"
)

// closeTimeout bounds flushing pending writes on exit.
const closeTimeout = 5 * time.Second

// env is the state shared by all commands of one invocation.
type env struct {
	lg     *zap.Logger
	opts   appkg.Options
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath  string
	backend     string
	dataDir     string
	productsURL string
	recipesURL  string
	output      string
	limit       int
	timeout     time.Duration
	noColor     bool

	app     *appkg.App
	printer cli.Printer
}

// run executes one command line and always releases the app afterwards so
// queued writes reach storage even when the command failed.
func run(ctx context.Context, e *env, args []string) error {
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	err := root.ExecuteContext(ctx)
	if e.app != nil {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if closeErr := e.app.Close(closeCtx); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "persist changes")
		}
	}
	if err != nil {
		_, _ = fmt.Fprintln(e.stderr, cli.FormatError(err))
	}
	return err
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "feed",
		Short: "Browse the product catalog from the terminal",
		Long: `feed shows the product catalog as a list of cards with a computed
price and a badge on prime positions. Products can be saved for later;
the saved list survives restarts.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	f := root.PersistentFlags()
	f.StringVar(&e.configPath, "config", "", "Path to a YAML config file")
	f.StringVar(&e.backend, "storage", "", "Storage backend: memory, file or postgres")
	f.StringVar(&e.dataDir, "data-dir", "", "Data directory for the file backend")
	f.StringVar(&e.productsURL, "products-url", "", "Products endpoint")
	f.StringVar(&e.recipesURL, "recipes-url", "", "Recipes endpoint")
	f.StringVarP(&e.output, "output", "o", "table", "Output format: table, json or yaml")
	f.IntVar(&e.limit, "limit", 0, "Maximum number of products, 0 means all")
	f.DurationVar(&e.timeout, "timeout", 0, "Catalog request timeout")
	f.BoolVar(&e.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newFeedCmd(e),
		newSavedCmd(e),
		newDetailCmd(e),
		newSaveCmd(e),
		newUnsaveCmd(e),
		newRecipesCmd(e),
		newFavoritesCmd(e),
		newDoctorCmd(e),
	)
	return root
}

// open loads the configuration, applies flag overrides and wires the app.
func (e *env) open(cmd *cobra.Command) (*appkg.App, error) {
	if e.app != nil {
		return e.app, nil
	}

	cfg, err := appkg.LoadConfig(e.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage.Backend = e.backend
	}
	if flags.Changed("data-dir") {
		cfg.Storage.Dir = e.dataDir
	}
	if flags.Changed("products-url") {
		cfg.Catalog.ProductsURL = e.productsURL
	}
	if flags.Changed("recipes-url") {
		cfg.Catalog.RecipesURL = e.recipesURL
	}
	if flags.Changed("limit") {
		cfg.Catalog.Limit = e.limit
	}
	if flags.Changed("timeout") {
		cfg.Catalog.Timeout = e.timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format, err := cli.ParseFormat(e.output)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	palette := cli.PaletteFor(out)
	if e.noColor {
		palette.Enabled = false
	}
	e.printer = cli.Printer{W: out, Format: format, Palette: palette}

	a, err := appkg.New(cmd.Context(), cfg, e.opts)
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

// warn reports a non-fatal problem on stderr.
func (e *env) warn(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintln(e.stderr, e.printer.Palette.Yellow("warning: ")+err.Error())
}

func parseProductID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, &cli.ValidationError{Field: "id", Message: fmt.Sprintf("%q is not a product id", s)}
	}
	return id, nil
}
