package cli

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"docqa/internal/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [file] [question]",
	Short: "Answer one question about a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc := newService(appConfig, logger)
	if _, err := svc.Load(args[0]); err != nil {
		return eris.Wrap(err, "load document")
	}
	ans := svc.Ask(args[1])
	if askJSON {
		data, err := json.MarshalIndent(ans, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal answer")
		}
		cmd.Println(string(data))
		return nil
	}
	printAnswer(cmd, ans)
	return nil
}

func printAnswer(cmd *cobra.Command, ans domain.Answer) {
	cmd.Println(ans.Text)
	if len(ans.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range ans.Sources {
		cmd.Printf("  [%d] Page %d · %s\n", i+1, src.Page, src.Section)
		cmd.Printf("      %s\n", src.Snippet)
	}
}
