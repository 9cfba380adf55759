package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/godilite/gwa-analytics/internal/feedback"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <gwa>",
		Short: "Print the feedback bucket for a grade average",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			value := feedback.Parse(args[0])
			bucket, ok := feedback.Classify(value)
			if !ok {
				fmt.Fprintf(out, "No feedback for %q\n", strings.TrimSpace(args[0]))
				return nil
			}

			fmt.Fprintf(out, "%s %s\n", bucket.Emoji, bucket.Headline(value))
			for _, msg := range bucket.Messages {
				fmt.Fprintf(out, "  - %s\n", msg)
			}
			return nil
		},
	}
}
