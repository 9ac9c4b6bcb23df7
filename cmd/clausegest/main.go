// Command clausegest segments regulatory documents into numbered clauses
// from the command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/clausegest/internal/convert"
	"github.com/dgallion1/clausegest/internal/pipeline"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Exit codes for conversion failures; anything else exits 1.
const (
	exitUnsupported = 2
	exitUnavailable = 3
	exitConversion  = 4
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clausegest",
		Short: "Clause segmentation for regulatory documents",
		Long: `clausegest splits regulatory documents (TXT, Markdown, HTML, PDF, DOCX)
into uniquely numbered clause records with section context and
cross references between clauses.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	root.PersistentFlags().Bool("pdftotext", true, "Fall back to pdftotext when PDF extraction fails")
	root.PersistentFlags().String("default-title", "", "Title used when a document names none")

	root.AddCommand(parseCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(watchCmd())
	return root
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, convert.ErrUnsupportedFormat):
		return exitUnsupported
	case errors.Is(err, convert.ErrConverterUnavailable):
		return exitUnavailable
	case errors.Is(err, convert.ErrConversionFailed):
		return exitConversion
	default:
		return 1
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// newWorker builds a worker without a store; the CLI only segments.
func newWorker(cmd *cobra.Command, log *slog.Logger) *pipeline.Worker {
	fallback, _ := cmd.Flags().GetBool("pdftotext")
	defaultTitle, _ := cmd.Flags().GetString("default-title")
	return pipeline.NewWorker(nil, log, nil, pipeline.WorkerOptions{
		PDFFallback:  fallback,
		DefaultTitle: defaultTitle,
	})
}

// segmentFile reads and segments one file.
func segmentFile(cmd *cobra.Command, path, title string) (*pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newWorker(cmd, newLogger(cmd)).Segment(data, path, title)
}

// withOutput runs fn against the -o file, or stdout when none is given.
func withOutput(cmd *cobra.Command, fn func(io.Writer) error) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
