package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// EngineConfig tunes chunking and retrieval.
type EngineConfig struct {
	ChunkSize         int `yaml:"chunk_size" toml:"chunk_size"`
	ChunkOverlap      int `yaml:"chunk_overlap" toml:"chunk_overlap"`
	MinParagraph      int `yaml:"min_paragraph" toml:"min_paragraph"`
	TopK              int `yaml:"top_k" toml:"top_k"`
	CitedChunks       int `yaml:"cited_chunks" toml:"cited_chunks"`
	ParallelThreshold int `yaml:"parallel_threshold" toml:"parallel_threshold"`
}

// LoaderConfig limits which files can be loaded.
type LoaderConfig struct {
	MaxFileSizeMB     int      `yaml:"max_file_size_mb" toml:"max_file_size_mb"`
	AllowedExtensions []string `yaml:"allowed_extensions" toml:"allowed_extensions"`
	CharsPerPage      int      `yaml:"chars_per_page" toml:"chars_per_page"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

type ChatConfig struct {
	Watch bool `yaml:"watch" toml:"watch"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Engine EngineConfig `yaml:"engine" toml:"engine"`
	Loader LoaderConfig `yaml:"loader" toml:"loader"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	Chat   ChatConfig   `yaml:"chat" toml:"chat"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	// Keys missing from the file keep their defaults.
	cfg := Default()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	applyConfigDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "create config directory")
	}
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return eris.Wrap(err, "encode config")
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in settings.
func Default() *AppConfig {
	return &AppConfig{
		Engine: EngineConfig{
			ChunkSize:         600,
			ChunkOverlap:      150,
			MinParagraph:      15,
			TopK:              6,
			CitedChunks:       3,
			ParallelThreshold: 512,
		},
		Loader: LoaderConfig{
			MaxFileSizeMB:     50,
			AllowedExtensions: []string{".txt", ".md", ".pdf", ".docx"},
			CharsPerPage:      3000,
		},
		Log: LogConfig{Level: "info"},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

// applyConfigDefaults replaces values written as zero or negative where that
// is not usable. Overlap is kept as written since zero is meaningful.
func applyConfigDefaults(cfg *AppConfig) {
	def := Default()
	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&cfg.Engine.ChunkSize, def.Engine.ChunkSize)
	fill(&cfg.Engine.MinParagraph, def.Engine.MinParagraph)
	fill(&cfg.Engine.TopK, def.Engine.TopK)
	fill(&cfg.Engine.CitedChunks, def.Engine.CitedChunks)
	fill(&cfg.Engine.ParallelThreshold, def.Engine.ParallelThreshold)
	fill(&cfg.Loader.MaxFileSizeMB, def.Loader.MaxFileSizeMB)
	fill(&cfg.Loader.CharsPerPage, def.Loader.CharsPerPage)
	if cfg.Engine.ChunkOverlap < 0 {
		cfg.Engine.ChunkOverlap = def.Engine.ChunkOverlap
	}
	if len(cfg.Loader.AllowedExtensions) == 0 {
		cfg.Loader.AllowedExtensions = def.Loader.AllowedExtensions
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

func applyEnv(cfg *AppConfig) {
	envInt("DOCQA_CHUNK_SIZE", &cfg.Engine.ChunkSize, 1)
	envInt("DOCQA_CHUNK_OVERLAP", &cfg.Engine.ChunkOverlap, 0)
	envInt("DOCQA_TOP_K", &cfg.Engine.TopK, 1)
	envInt("DOCQA_MAX_FILE_SIZE_MB", &cfg.Loader.MaxFileSizeMB, 1)
	if v := strings.TrimSpace(os.Getenv("DOCQA_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("DOCQA_LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
}

// envInt overrides dst when key holds an integer >= floor.
func envInt(key string, dst *int, floor int) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < floor {
		return
	}
	*dst = n
}
