// Package commands wires the wd command tree.
package commands

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/teranos/wd/am"
	"github.com/teranos/wd/display"
	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/logger"
	"github.com/teranos/wd/version"
	"github.com/teranos/wd/wikidata"
)

// Options carries everything the command tree takes from the process
type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Version version.Info
	Config  am.LoadOptions

	// HTTPClient and Clock replace the network client and clock (tests)
	HTTPClient *http.Client
	Clock      func() time.Time
}

// globalFlags mirrors the persistent flags of the root command
type globalFlags struct {
	json              bool
	format            string
	verbosity         int
	logJSON           bool
	timeout           time.Duration
	userAgent         string
	apiURL            string
	queryURL          string
	textifierURL      string
	vectorURL         string
	vectorSecret      string
	requestsPerSecond float64
}

// app is the per-invocation state shared by all commands
type app struct {
	opts   Options
	flags  globalFlags
	cfg    am.Config
	client *wikidata.Client
}

// NewRootCommand builds the wd command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	a := &app{opts: opts}

	cmd := &cobra.Command{
		Use:   "wd",
		Short: "Wikidata from the command line",
		Long: `wd - search, disambiguate, and inspect Wikidata entities.

Searches run against the Wikidata vector search service first and fall back
to keyword search. Statements come from the Wikidata textifier.

Examples:
  wd search-items "Douglas Adams"          # Find items
  wd resolve Hartree --limit 5             # Rank candidates with confidence
  wd profile Q42 --type person             # Curated person profile
  wd hierarchy Q5 --max-depth 2            # instance of / subclass of tree
  wd sparql -q 'SELECT ?x WHERE { ?x wdt:P31 wd:Q5 } LIMIT 3'
  wd am show                               # Show resolved configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)

	flags := cmd.PersistentFlags()
	flags.BoolVar(&a.flags.json, "json", false, "Output JSON to stdout (same as --format json)")
	flags.StringVar(&a.flags.format, "format", am.FormatText, "Output format: text, json, yaml")
	flags.CountVarP(&a.flags.verbosity, "verbose", "v", "Increase log verbosity on stderr (-v, -vv, -vvv, -vvvv)")
	flags.BoolVar(&a.flags.logJSON, "log-json", false, "Write logs as JSON")
	flags.DurationVar(&a.flags.timeout, "timeout", 0, "HTTP timeout for outbound requests (default from config, 15s)")
	flags.StringVar(&a.flags.userAgent, "user-agent", "", "User-Agent header used for Wikidata services")
	flags.StringVar(&a.flags.apiURL, "wikidata-api-url", "", "Wikidata API base URL")
	flags.StringVar(&a.flags.queryURL, "wikidata-query-url", "", "Wikidata Query Service URL")
	flags.StringVar(&a.flags.textifierURL, "textifier-url", "", "Wikidata textifier API URL")
	flags.StringVar(&a.flags.vectorURL, "vector-search-url", "", "Wikidata vector search API URL")
	flags.StringVar(&a.flags.vectorSecret, "vector-api-secret", "", "Optional API secret for vector search")
	flags.Float64Var(&a.flags.requestsPerSecond, "requests-per-second", 0, "Pace outbound requests (0 = unlimited)")

	cmd.AddCommand(
		newSearchItemsCommand(a),
		newSearchPropertiesCommand(a),
		newResolveCommand(a),
		newProfileCommand(a),
		newGetStatementsCommand(a),
		newGetStatementValuesCommand(a),
		newHierarchyCommand(a),
		newExecuteSPARQLCommand(a),
		newVersionCommand(a),
		newAmCommand(a),
	)
	return cmd
}

// Execute runs the command tree with args
func Execute(ctx context.Context, opts Options, args []string) error {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// setup initializes logging, tags the context with an invocation ID, and
// loads the configuration with flag overrides applied.
func (a *app) setup(cmd *cobra.Command) error {
	if err := logger.InitializeWithWriter(a.opts.Stderr, a.flags.logJSON, a.flags.verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	invocationID := uuid.NewString()
	cmd.SetContext(logger.WithInvocationID(ctx, invocationID))

	cfg, err := am.LoadWithOptions(a.opts.Config)
	if err != nil {
		return err
	}
	a.cfg = a.applyFlags(cmd, cfg)

	if logger.ShouldOutput(a.flags.verbosity, logger.OutputConfig) {
		logger.LoggerFromContext(cmd.Context(), "cli").Infow("configuration loaded",
			logger.FieldCommand, cmd.CommandPath(),
			"verbosity", logger.LevelName(a.flags.verbosity),
			"api_url", a.cfg.Endpoints.APIURL,
			"timeout", a.cfg.Timeout().String())
	}
	return nil
}

// applyFlags overrides cfg with every flag the user set explicitly
func (a *app) applyFlags(cmd *cobra.Command, cfg am.Config) am.Config {
	changed := cmd.Flags().Changed
	if changed("timeout") {
		cfg.Request.TimeoutSeconds = a.flags.timeout.Seconds()
	}
	if changed("user-agent") {
		cfg.Request.UserAgent = a.flags.userAgent
	}
	if changed("wikidata-api-url") {
		cfg.Endpoints.APIURL = a.flags.apiURL
	}
	if changed("wikidata-query-url") {
		cfg.Endpoints.QueryURL = a.flags.queryURL
	}
	if changed("textifier-url") {
		cfg.Endpoints.TextifierURL = a.flags.textifierURL
	}
	if changed("vector-search-url") {
		cfg.Endpoints.VectorSearchURL = a.flags.vectorURL
	}
	if changed("vector-api-secret") {
		cfg.Endpoints.VectorAPISecret = a.flags.vectorSecret
	}
	if changed("requests-per-second") {
		cfg.Request.RequestsPerSecond = a.flags.requestsPerSecond
	}
	return cfg
}

// wikidataClient builds the client on first use; commands that never touch
// the network never validate endpoints.
func (a *app) wikidataClient() (*wikidata.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	var opts []wikidata.Option
	if a.opts.HTTPClient != nil {
		opts = append(opts, wikidata.WithHTTPClient(a.opts.HTTPClient))
	}
	if a.opts.Clock != nil {
		opts = append(opts, wikidata.WithClock(a.opts.Clock))
	}
	client, err := wikidata.NewClient(a.cfg, opts...)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// printer returns a printer for the output format selected for cmd
func (a *app) printer(cmd *cobra.Command) (*display.Printer, error) {
	format, err := display.ResolveFormat(cmd, a.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return display.NewPrinter(a.opts.Stdout, format), nil
}
