package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"docqa/internal/intent"
	"docqa/internal/keywords"
)

var explainCmd = &cobra.Command{
	Use:   "explain [question]",
	Short: "Show how a question is interpreted",
	Long:  `Prints the detected intent and the single-word and two-word query terms used for retrieval.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")
		kw := keywords.Extract(question)
		cmd.Printf("intent:  %s\n", intent.Detect(question))
		cmd.Printf("singles: %s\n", strings.Join(kw.Singles, ", "))
		cmd.Printf("phrases: %s\n", strings.Join(kw.Phrases, ", "))
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
