// Package config holds the file locations and interpreter options of a
// semgraph installation. Values come from defaults, an optional YAML file,
// a .env file and SEMGRAPH_* environment variables, in that order.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreFile   = "file"
	StoreSqlite = "sqlite"
	StoreMemory = "memory"
)

const EnvPrefix = "SEMGRAPH_"

type Config struct {
	// DataDir is the base of every relative path below
	DataDir string `yaml:"data_dir"`

	LemmaCorpus string `yaml:"lemma_corpus"`
	PosCorpus   string `yaml:"pos_corpus"`
	LemmaIndex  string `yaml:"lemma_index"`
	PosIndex    string `yaml:"pos_index"`

	Compounds       string `yaml:"compounds"`
	Overrides       string `yaml:"overrides"`
	Rules           string `yaml:"rules"`
	LexicalResource string `yaml:"lexical_resource"`

	// Store is one of file, sqlite or memory
	Store string `yaml:"store"`

	// StorePath is the relation table directory of the file store or the
	// database file of the sqlite store
	StorePath string `yaml:"store_path"`

	AutoCreateNodes bool `yaml:"auto_create_nodes"`
	MaxBindings     int  `yaml:"max_bindings"`

	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		DataDir:         "data",
		LemmaCorpus:     "lemmas.csv",
		PosCorpus:       "pos.csv",
		LemmaIndex:      "lemmas.idx",
		PosIndex:        "pos.idx",
		Compounds:       "compounds.csv",
		Overrides:       "overrides.json",
		Rules:           "rules.txt",
		LexicalResource: "lexical.csv",
		Store:           StoreFile,
		StorePath:       "relations",
		MaxBindings:     100000,
		LogLevel:        "info",
	}
}

// Load returns the configuration read from the YAML file at path, or the
// defaults if path is empty. A .env file in the working directory and the
// environment override the file values.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	// a missing .env file is not an error
	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DATA_DIR":         &c.DataDir,
		"LEMMA_CORPUS":     &c.LemmaCorpus,
		"POS_CORPUS":       &c.PosCorpus,
		"LEMMA_INDEX":      &c.LemmaIndex,
		"POS_INDEX":        &c.PosIndex,
		"COMPOUNDS":        &c.Compounds,
		"OVERRIDES":        &c.Overrides,
		"RULES":            &c.Rules,
		"LEXICAL_RESOURCE": &c.LexicalResource,
		"STORE":            &c.Store,
		"STORE_PATH":       &c.StorePath,
		"LOG_LEVEL":        &c.LogLevel,
	}
	for name, field := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*field = v
		}
	}

	if v, ok := lookup(EnvPrefix + "AUTO_CREATE_NODES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%sAUTO_CREATE_NODES", EnvPrefix)
		}
		c.AutoCreateNodes = b
	}
	if v, ok := lookup(EnvPrefix + "MAX_BINDINGS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sMAX_BINDINGS", EnvPrefix)
		}
		c.MaxBindings = n
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case StoreFile, StoreSqlite, StoreMemory:
	default:
		return errors.Errorf("unknown store %q", c.Store)
	}
	if c.MaxBindings < 0 {
		return errors.Errorf("max_bindings must not be negative, got %d", c.MaxBindings)
	}
	return nil
}

// Path resolves a configured path against DataDir. Empty paths stay empty.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
