package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/insights-workspace/internal/bootstrap"
	"github.com/bryanwahyu/insights-workspace/internal/config"
	"github.com/bryanwahyu/insights-workspace/internal/domain/advice"
	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
	"github.com/bryanwahyu/insights-workspace/internal/infra/localfs"
	"github.com/bryanwahyu/insights-workspace/internal/logger"
	"github.com/bryanwahyu/insights-workspace/internal/mcpserver"
)

const version = "0.3.0"

type rootOptions struct {
	configPath string
	fast       bool
	verbose    bool
}

type listOptions struct {
	search string
	sort   string
	asc    bool
	filter string
	json   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "insightctl",
		Short: "Analyze documents for cognitive biases, logical fallacies and heuristics",
		Long: `insightctl runs the document analysis pipeline locally.

Each invocation opens one session; results are discarded when it exits.

Examples:
  insightctl analyze memo.pdf plan.docx --sort issues
  insightctl report board-minutes.txt
  insightctl mcp`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	defaultConfig := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "config file")
	root.PersistentFlags().BoolVar(&opts.fast, "fast", false, "skip the simulated analysis delays")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(newAnalyzeCmd(opts), newReportCmd(opts), newMCPCmd(opts))
	return root
}

// start loads config and wires the service. Logs always go to stderr so
// stdout stays clean for results and the MCP stdio transport.
func start(ctx context.Context, opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if opts.fast {
		cfg.Analysis.SplitDelay = 0
		cfg.Analysis.AnalyzeDelay = 0
	}
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true, Output: os.Stderr})
	return bootstrap.New(ctx, cfg, log, nil)
}

func stop(app *bootstrap.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.Service.Shutdown(ctx)
	_ = app.Close()
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	lo := &listOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <files...>",
		Short: "Analyze files as one batch and print stats plus the document list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asc := ""
			if cmd.Flags().Changed("asc") {
				asc = strconv.FormatBool(lo.asc)
			}
			q, err := domain.ParseQuery(lo.search, lo.sort, asc, lo.filter)
			if err != nil {
				return err
			}
			files, err := localfs.Load(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := start(ctx, root)
			if err != nil {
				return err
			}
			defer stop(app)

			sess, err := app.Service.CreateSession(ctx)
			if err != nil {
				return err
			}
			if _, err := app.Service.SubmitAndWait(ctx, sess.ID, files); err != nil {
				return err
			}
			stats, err := app.Service.Stats(ctx, sess.ID)
			if err != nil {
				return err
			}
			list, err := app.Service.List(ctx, sess.ID, q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if lo.json {
				return writeJSON(out, map[string]any{"stats": stats, "documents": list})
			}
			printStats(out, stats)
			fmt.Fprintln(out)
			printList(out, list)
			return nil
		},
	}
	cmd.Flags().StringVar(&lo.search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&lo.sort, "sort", "date", "sort field: name, issues, date")
	cmd.Flags().BoolVar(&lo.asc, "asc", false, "ascending order")
	cmd.Flags().StringVar(&lo.filter, "filter", "all", "category: all, bias, fallacy, heuristic")
	cmd.Flags().BoolVar(&lo.json, "json", false, "print JSON")
	return cmd
}

func newReportCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Analyze one file and print its detailed report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := localfs.Load(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			app, err := start(ctx, root)
			if err != nil {
				return err
			}
			defer stop(app)

			sess, err := app.Service.CreateSession(ctx)
			if err != nil {
				return err
			}
			results, err := app.Service.SubmitAndWait(ctx, sess.ID, files)
			if err != nil {
				return err
			}
			rep, err := app.Service.Report(ctx, sess.ID, results[0].ID)
			if err != nil {
				return err
			}
			if results[0].Status == domain.StatusError {
				fmt.Fprintf(cmd.ErrOrStderr(), "analysis failed: %s\n", results[0].Error)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			printReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newMCPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve insights tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := start(ctx, root)
			if err != nil {
				return err
			}
			defer stop(app)

			s, err := mcpserver.New(ctx, app.Service)
			if err != nil {
				return err
			}
			return s.NewMCPServer(version).Run(ctx, &mcp.StdioTransport{})
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStats(w io.Writer, s domain.Stats) {
	fmt.Fprintf(w, "Documents:  %d\n", s.TotalDocuments)
	fmt.Fprintf(w, "Issues:     %d (biases %d, fallacies %d, heuristics %d)\n",
		s.TotalIssues, s.IssueTypes.Biases, s.IssueTypes.Fallacies, s.IssueTypes.Heuristics)
	if s.MostCommonIssue != nil {
		fmt.Fprintf(w, "Most common: %s (%d)\n", s.MostCommonIssue.Type, s.MostCommonIssue.Count)
	} else {
		fmt.Fprintln(w, "Most common: -")
	}
}

func printList(w io.Writer, docs []domain.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tISSUES\tUPLOADED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			d.ID, d.Name, d.Status, d.IssueTotal(), d.UploadedAt.Format(time.RFC3339))
	}
	tw.Flush()
}

func printReport(w io.Writer, rep advice.Report) {
	fmt.Fprintf(w, "%s (%s)\n", rep.Name, rep.Status)
	fmt.Fprintf(w, "Biases %d | Fallacies %d | Heuristics %d\n\n",
		rep.Overview.Biases, rep.Overview.Fallacies, rep.Overview.Heuristics)
	for _, is := range rep.Issues {
		fmt.Fprintf(w, "## %s (x%d)\n", is.Type, is.Count)
		fmt.Fprintf(w, "%s\n", is.Description)
		fmt.Fprintf(w, "Financial implication: %s\n", is.FinancialImplication)
		fmt.Fprintf(w, "Mitigation: %s\n", is.MitigationStrategy)
		for _, step := range is.ActionSteps {
			fmt.Fprintf(w, "  - %s\n", step)
		}
		fmt.Fprintln(w)
	}
	if len(rep.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for _, r := range rep.Recommendations {
			fmt.Fprintf(w, "  * %s\n", strings.TrimSpace(r))
		}
	}
}
