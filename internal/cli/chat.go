package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docqa/internal/tui"
	"docqa/internal/watch"
)

var chatWatch bool

var chatCmd = &cobra.Command{
	Use:   "chat [file]",
	Short: "Open an interactive chat about a document",
	Long: `Opens a terminal chat about one document.

Controls:
  Enter          - Ask
  ↑/↓, PgUp/PgDn - Scroll the transcript
  Esc, Ctrl+C    - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatWatch, "watch", false, "reload the document when the file changes")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	path := args[0]
	// stderr belongs to the terminal UI
	log := logger
	if appConfig.Log.File == "" {
		log = zap.NewNop()
	}
	svc := newService(appConfig, log)
	doc, err := svc.Load(path)
	if err != nil {
		return eris.Wrap(err, "load document")
	}

	p := tea.NewProgram(tui.New(svc, doc, svc.Overview()), tea.WithAltScreen())

	if chatWatch || appConfig.Chat.Watch {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		w := watch.New(watch.WithLogger(log))
		go func() {
			err := w.Watch(ctx, path, func() {
				doc, err := svc.Load(path)
				if err != nil {
					p.Send(tui.ReloadFailedMsg{Err: err})
					return
				}
				p.Send(tui.DocumentLoadedMsg{Document: doc, Overview: svc.Overview()})
			})
			if err != nil {
				log.Warn("watch stopped", zap.Error(err))
			}
		}()
	}

	_, err = p.Run()
	return err
}
