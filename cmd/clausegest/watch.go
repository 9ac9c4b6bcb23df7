package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/clausegest/internal/document"
	"github.com/dgallion1/clausegest/internal/output"
	"github.com/dgallion1/clausegest/internal/pipeline"
	"github.com/dgallion1/clausegest/internal/watch"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Segment every document dropped into a directory",
		Long: `Watch DIR and write <name>.clauses.json (or .yaml) for each supported
document that appears or changes, until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")
			format, _ := cmd.Flags().GetString("format")
			debounce, _ := cmd.Flags().GetDuration("debounce")

			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q", format)
			}
			if outDir == "" {
				outDir = args[0]
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			log := newLogger(cmd)
			worker := newWorker(cmd, log)
			inbox, err := watch.New(args[0], debounce, func(_ context.Context, path string, data []byte) {
				dest, err := writeClauses(worker, outDir, format, path, data)
				if err != nil {
					log.Error("segment failed", "path", path, "error", err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", path, dest)
			}, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return inbox.Run(ctx)
		},
	}
	cmd.Flags().String("out", "", "Directory for clause files (default: the watched directory)")
	cmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Quiet period before a file is processed")
	return cmd
}

// writeClauses segments one file and writes its records next to the
// other results in outDir. It returns the written path.
func writeClauses(worker *pipeline.Worker, outDir, format, path string, data []byte) (string, error) {
	res, err := worker.Segment(data, filepath.Base(path), "")
	if err != nil {
		return "", err
	}
	dest := filepath.Join(outDir, document.NameFromFile(path)+".clauses."+format)
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if err := output.Write(f, format, res.Records); err != nil {
		f.Close()
		return "", err
	}
	return dest, f.Close()
}
