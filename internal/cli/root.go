package cli

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docqa/internal/answer"
	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/loader"
	"docqa/internal/logging"
	"docqa/internal/scoring"
	"docqa/internal/service"
	"docqa/internal/summarizer"
)

var (
	version = "dev"

	cfgPath  string
	logLevel string

	appConfig *config.AppConfig
	logger    = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about a document",
	Long: `docqa answers natural-language questions about a single document
(.txt, .md, .pdf, .docx) using lexical retrieval. Answers quote the
document and cite estimated page and section for every source.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML or TOML config file (default ./config.yaml or ~/.config/docqa/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return eris.Wrap(err, "load config")
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	l, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	// Without a log file, log output would interleave with command output.
	if cfg.Log.File == "" {
		l = l.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	}
	appConfig, logger = cfg, l
	return nil
}

func newChunker(cfg *config.AppConfig) *chunker.ParagraphChunker {
	return chunker.NewParagraphChunker(
		chunker.WithChunkSize(cfg.Engine.ChunkSize),
		chunker.WithOverlap(cfg.Engine.ChunkOverlap),
		chunker.WithMinParagraph(cfg.Engine.MinParagraph),
	)
}

func newService(cfg *config.AppConfig, log *zap.Logger) *service.QAService {
	engine := answer.NewEngine(
		answer.WithChunker(newChunker(cfg)),
		answer.WithRanker(scoring.NewRanker(cfg.Engine.ParallelThreshold)),
		answer.WithTopK(cfg.Engine.TopK),
		answer.WithCitedChunks(cfg.Engine.CitedChunks),
		answer.WithLogger(log),
	)
	ld := loader.New(
		loader.WithMaxFileSizeMB(cfg.Loader.MaxFileSizeMB),
		loader.WithAllowedExtensions(cfg.Loader.AllowedExtensions),
		loader.WithCharsPerPage(cfg.Loader.CharsPerPage),
		loader.WithLogger(log),
	)
	return service.NewQAService(ld, engine, summarizer.NewFrequencySummarizer(), log)
}
