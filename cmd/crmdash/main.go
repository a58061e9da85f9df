package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"crmdash/internal/chart"
	"crmdash/internal/config"
	"crmdash/internal/dashboard"
	"crmdash/internal/export"
	"crmdash/internal/ingest"
	"crmdash/internal/nav"
	"crmdash/internal/persist"
	"crmdash/internal/report"
	"crmdash/internal/server"
	"crmdash/internal/table"
	"crmdash/internal/ui"
	"crmdash/internal/util/logx"
	"crmdash/internal/version"
	"crmdash/internal/view"
)

// Global (root-level) flag variables
var (
	flagConfig    string
	flagLogLevel  string
	flagLogStderr bool
)

// cfg is loaded once in PersistentPreRunE.
var cfg *config.Config

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crmdash",
		Short: "CRM lead dashboard",
		Long: strings.TrimSpace(`
crmdash - terminal dashboard for CRM leads

Without a subcommand it opens the dashboard: tabs, stat cards, the lead table,
charts, filters and CSV import. The table is kept in local storage between runs.`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			c, err := config.Load(flagConfig, cmd.Flags())
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = c
			return nil
		},
		RunE: runDashboard,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default "+config.DefaultFile()+")")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.BoolVar(&flagLogStderr, "log-stderr", false, "mirror application logs to stderr")
	config.BindFlags(pf)
	cmd.Version = version.String()

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func initLogging() {
	logx.SetLevelFromEnv()
	if flagLogLevel != "" {
		if l, ok := logx.ParseLevel(flagLogLevel); ok {
			logx.SetLevel(l)
		}
	}
	if flagLogStderr {
		logx.SetStderr(true)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("crmdash", version.String())
		},
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// openSession wires storage, gateway and the chart sink from cfg.
func openSession() (*dashboard.Session, *chart.TermSink, func(), error) {
	st, err := persist.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("storage: %w", err)
	}
	adapter := persist.NewAdapter(st)
	var gw ingest.Gateway
	if cfg.Offline {
		gw = ingest.NewLocalGateway(cfg.LocalCSV)
	} else {
		gw = ingest.NewHTTPGateway(cfg.APIBaseURL, cfg.Timeout)
	}
	sink := chart.NewTermSink()
	sess := dashboard.New(table.NewStore(), adapter, gw, sink)
	closeFn := func() {
		if err := adapter.Close(); err != nil {
			logx.Warnf("storage close: %v", err)
		}
	}
	return sess, sink, closeFn, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	sess, sink, closeFn, err := openSession()
	if err != nil {
		return err
	}
	defer closeFn()
	logx.Infof("starting crmdash %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg, sess, sink); err != nil {
		logx.Errorf("crmdash exited with error: %v", err)
		return err
	}
	return nil
}

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the applicant backend (get-data, upload-csv, sort-data, ...)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logx.SetStderr(true)
			ctx, cancel := signalContext()
			defer cancel()
			apps, err := server.OpenApplicants(cfg.Server.DBPath)
			if err != nil {
				return err
			}
			defer apps.Close()
			deps := server.Deps{Applicants: apps}
			if cfg.Server.UploadRPS > 0 {
				deps.Upload = server.NewClientLimiter(cfg.Server.UploadRPS, 2)
			}
			logx.Infof("serve: db=%s upload_rps=%.2f", cfg.Server.DBPath, cfg.Server.UploadRPS)
			return server.Serve(ctx, cfg.Server.Addr, server.NewHandler(deps))
		},
	}
	config.BindServerFlags(c.Flags())
	return c
}

type statsFlags struct {
	tab     string
	noColor bool
}

func newStatsCmd() *cobra.Command {
	var f statsFlags
	c := &cobra.Command{
		Use:   "stats",
		Short: "Print the stat cards of a tab",
		Long: strings.TrimSpace(`
Print the stat cards and breakdowns of a dashboard tab. The Home tab also
prints its chart data.

Examples:
  crmdash stats --tab Leads
  crmdash stats --tab Accounts --offline --local-csv leads.csv`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			sess, _, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()
			sess.Start(ctx)
			st := sess.Select(f.tab)
			rf := report.NewFormatter()
			rf.EnableColors = !f.noColor
			if err := rf.Stats(os.Stdout, f.tab, st.Screen.Stats); err != nil {
				return err
			}
			if len(st.Screen.Charts) > 0 {
				fmt.Println()
				return rf.Charts(os.Stdout, st.Screen.Charts)
			}
			return nil
		},
	}
	c.Flags().StringVar(&f.tab, "tab", nav.Home, "tab name: "+strings.Join(nav.Tabs, ", "))
	c.Flags().BoolVar(&f.noColor, "no-color", false, "disable ANSI colors")
	return c
}

type exportFlags struct {
	search string
	status string
	domain string
	expr   string
}

func newExportCmd() *cobra.Command {
	var f exportFlags
	c := &cobra.Command{
		Use:   "export",
		Short: "Export the stored table, optionally filtered",
		Long: strings.TrimSpace(`
Write the rows that pass the given filters. Without --out the rows are printed
as a table.

Examples:
  crmdash export --out leads.csv
  crmdash export --search /gmail/ --format json --out gmail.json
  crmdash export --expr 'Contacted == "Yes"'`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			sess, _, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()
			sess.Start(ctx)
			fc := sess.Filter()
			for _, set := range []struct {
				v  string
				fn func(string) error
			}{
				{f.search, fc.SetSearch},
				{f.status, fc.SetStatus},
				{f.domain, fc.SetDomain},
				{f.expr, fc.SetExpr},
			} {
				if set.v == "" {
					continue
				}
				if err := set.fn(set.v); err != nil {
					return err
				}
			}
			rows, schema := sess.VisibleRows()
			if cfg.Export.Out == "" {
				return report.NewFormatter().Grid(os.Stdout, view.Render(rows, schema, nil))
			}
			if err := export.ToFile(cfg.Export.Out, cfg.Export.Format, rows, schema); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "exported %d rows to %s (%s)\n", len(rows), cfg.Export.Out, cfg.Export.Format)
			return nil
		},
	}
	config.BindExportFlags(c.Flags())
	c.Flags().StringVar(&f.search, "search", "", "search text, or /regex/")
	c.Flags().StringVar(&f.status, "status", "", "status filter")
	c.Flags().StringVar(&f.domain, "domain", "", "preferred job domain")
	c.Flags().StringVar(&f.expr, "expr", "", "filter expression over columns")
	return c
}
