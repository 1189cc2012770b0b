package cli

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"docqa/internal/answer"
)

const previewLen = 80

var chunksOverview bool

var chunksCmd = &cobra.Command{
	Use:   "chunks [file]",
	Short: "List the chunks a document is split into",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunks,
}

func init() {
	chunksCmd.Flags().BoolVar(&chunksOverview, "overview", false, "print the document overview first")
	rootCmd.AddCommand(chunksCmd)
}

func runChunks(cmd *cobra.Command, args []string) error {
	svc := newService(appConfig, logger)
	doc, err := svc.Load(args[0])
	if err != nil {
		return eris.Wrap(err, "load document")
	}
	chunks := newChunker(appConfig).Chunk(doc.Content)

	cmd.Printf("%s: %d chunks, %d pages\n", doc.Name, len(chunks), doc.TotalPages)
	if chunksOverview {
		cmd.Println()
		cmd.Println(svc.Overview())
	}
	cmd.Println()
	for _, ch := range chunks {
		preview := answer.Truncate(strings.Join(strings.Fields(ch.Text), " "), previewLen)
		cmd.Printf("  #%-4d page %-3d %-13s %5d bytes  %s\n",
			ch.Index,
			answer.EstimatePage(ch.Index, len(chunks), doc.TotalPages),
			answer.EstimateSection(ch.Index, len(chunks)),
			len(ch.Text),
			preview,
		)
	}
	return nil
}
