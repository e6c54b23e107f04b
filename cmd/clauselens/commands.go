package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clauselens/internal/analysis"
	"clauselens/internal/backend"
	"clauselens/internal/config"
	"clauselens/internal/model"
)

// newBackend is replaced in tests.
var newBackend = backend.New

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clauselens",
		Short: "Legal document risk analysis from the command line",
		Long: `clauselens talks to the analysis backend directly, without the API server.

Examples:
  clauselens analyze lease.pdf --query "termination notice"
  clauselens estimate --pages 24 --clauses 10
  clauselens explain gs://bucket/lease.pdf --voice Puck`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("backend", "", "backend base URL (default $BACKEND_URL)")

	root.AddCommand(newAnalyzeCmd(), newEstimateCmd(), newExplainCmd())
	return root
}

func backendConfig(cmd *cobra.Command) config.BackendConfig {
	cfg := config.Load().Backend
	if u, _ := cmd.Flags().GetString("backend"); u != "" {
		cfg.URL = u
	}
	return cfg
}

type analyzeOutput struct {
	Analysis model.DocumentAnalysis `json:"analysis"`
	Ranked   []model.Clause         `json:"ranked_clauses"`
	Query    string                 `json:"query,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Upload a PDF to the backend and print the normalized analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.EqualFold(filepath.Ext(path), ".pdf") {
				return fmt.Errorf("%s: only PDF documents are accepted", path)
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			cfg := backendConfig(cmd)
			pages, _ := cmd.Flags().GetInt("default-pages")
			query, _ := cmd.Flags().GetString("query")

			raw, err := newBackend(cfg).Analyze(cmd.Context(), filepath.Base(path), content)
			if err != nil {
				return err
			}

			a, err := analysis.Normalize(raw, filepath.Base(path), analysis.WithDefaultPageCount(pages))
			var nerr *analysis.NormalizationError
			if errors.As(err, &nerr) {
				for _, issue := range nerr.Issues {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning:", issue)
				}
			}

			return writeJSON(cmd.OutOrStdout(), analyzeOutput{
				Analysis: a,
				Ranked:   analysis.Rank(a.Clauses, query),
				Query:    query,
			})
		},
	}
	cmd.Flags().StringP("query", "q", "", "only list clauses matching any of these words")
	cmd.Flags().Int("default-pages", analysis.DefaultPageCount, "page count assumed when the backend reports none")
	return cmd
}

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print the review time saved for a document size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, _ := cmd.Flags().GetInt("pages")
			clauses, _ := cmd.Flags().GetInt("clauses")
			_, err := fmt.Fprintln(cmd.OutOrStdout(), analysis.EstimateTimeSaved(pages, clauses))
			return err
		},
	}
	cmd.Flags().Int("pages", analysis.DefaultPageCount, "page count")
	cmd.Flags().Int("clauses", 0, "clause count")
	return cmd
}

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain URI",
		Short: "Request an audio explanation of a document the backend already stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := backendConfig(cmd)
			voice, _ := cmd.Flags().GetString("voice")
			if voice == "" {
				voice = cfg.Voice
			}

			e, err := newBackend(cfg).Explain(cmd.Context(), backend.ExplainRequest{FileURI: args[0], VoicePreference: voice})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), e)
		},
	}
	cmd.Flags().String("voice", "", "voice preference (default $BACKEND_VOICE)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
