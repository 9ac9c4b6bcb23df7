package main

import (
	"io"

	"github.com/dgallion1/clausegest/internal/output"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Render a review report of a document's clauses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			markdown, _ := cmd.Flags().GetBool("markdown")

			res, err := segmentFile(cmd, args[0], title)
			if err != nil {
				return err
			}

			reportTitle := res.Document.Name
			if len(res.Records) > 0 {
				reportTitle = res.Records[0].Metadata.SourceDocumentTitle
			}

			return withOutput(cmd, func(w io.Writer) error {
				if markdown {
					return output.RenderMarkdown(w, reportTitle, res.Records, res.Index)
				}
				return output.RenderReport(w, reportTitle, res.Records, res.Index)
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringP("title", "t", "", "Document title (default: detected from the text)")
	cmd.Flags().Bool("markdown", false, "Write Markdown instead of HTML")
	return cmd
}
