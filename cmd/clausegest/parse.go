package main

import (
	"fmt"
	"io"

	"github.com/dgallion1/clausegest/internal/output"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Segment a document and print its clauses",
		Long: `Segment a document into clause records and write them as JSON or YAML.

Example:
  clausegest parse rules.docx -o rules.clauses.json
  clausegest parse rules.txt --format yaml --title "ПРАВИЛА № 32"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			title, _ := cmd.Flags().GetString("title")
			showStats, _ := cmd.Flags().GetBool("stats")

			if format != "json" && format != "yaml" && format != "yml" {
				return fmt.Errorf("unknown format %q", format)
			}

			res, err := segmentFile(cmd, args[0], title)
			if err != nil {
				return err
			}

			if err := withOutput(cmd, func(w io.Writer) error {
				return output.Write(w, format, res.Records)
			}); err != nil {
				return err
			}

			if showStats {
				refs, dangling := 0, 0
				for _, r := range res.Records {
					refs += len(r.Metadata.CrossReferences)
					dangling += len(res.Index.Dangling(r))
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "clauses: %d\ncross references: %d\nunresolved: %d\n",
					len(res.Records), refs, dangling)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringP("title", "t", "", "Document title (default: detected from the text)")
	cmd.Flags().Bool("stats", false, "Print clause and reference counts to stderr")
	return cmd
}
