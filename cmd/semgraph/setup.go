package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/semgraph/config"
	"github.com/revelaction/semgraph/disamb"
	"github.com/revelaction/semgraph/engine"
	"github.com/revelaction/semgraph/lexicon"
	"github.com/revelaction/semgraph/lexres"
	"github.com/revelaction/semgraph/pipeline"
	"github.com/revelaction/semgraph/rule"
	"github.com/revelaction/semgraph/storage"
	"github.com/revelaction/semgraph/storage/filesystem"
	"github.com/revelaction/semgraph/storage/memory"
	"github.com/revelaction/semgraph/storage/sqlite/zombiezen"
	"github.com/revelaction/semgraph/tokenize"
)

// env is the configuration and logger shared by the commands.
type env struct {
	cfg config.Config
	log *logrus.Logger

	closers []io.Closer
}

func setup(c *cli.Context, ui UI) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(ui.Err)
	if c.Bool("log-json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level := cfg.LogLevel
	if l := c.String("log-level"); l != "" {
		level = l
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	log.SetLevel(lvl)

	return &env{cfg: cfg, log: log}, nil
}

// Close closes the lexicon files and stores opened by the env.
func (e *env) Close() error {
	var first error
	for _, c := range e.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}

func (e *env) pipeline() *pipeline.Pipeline {
	cfg := e.cfg

	lex := lexicon.Open(lexicon.Files{
		LemmaCorpus: cfg.Path(cfg.LemmaCorpus),
		LemmaIndex:  cfg.Path(cfg.LemmaIndex),
		PosCorpus:   cfg.Path(cfg.PosCorpus),
		PosIndex:    cfg.Path(cfg.PosIndex),
	}, e.log)
	e.closers = append(e.closers, lex)

	tk := tokenize.New(tokenize.LoadCompounds(cfg.Path(cfg.Compounds), e.log))
	overrides := disamb.LoadOverrides(cfg.Path(cfg.Overrides), e.log)

	return pipeline.New(tk, lex, overrides, e.log)
}

func (e *env) store() (storage.RelationStore, error) {
	path := e.cfg.Path(e.cfg.StorePath)

	switch strings.ToLower(e.cfg.Store) {
	case config.StoreMemory:
		return memory.NewRelationStore(), nil

	case config.StoreSqlite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
		s, err := zombiezen.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open relation database %s", path)
		}
		e.closers = append(e.closers, s)
		return s, nil

	default:
		return filesystem.NewRelationStore(path), nil
	}
}

// interpreter loads the rules and the lexical resource and creates the
// relation tables of the store.
func (e *env) interpreter() (*engine.Interpreter, error) {
	store, err := e.store()
	if err != nil {
		return nil, err
	}

	cfg := e.cfg
	in := engine.New(store, rule.Load(cfg.Path(cfg.Rules), e.log))
	in.Resources = lexres.Load(cfg.Path(cfg.LexicalResource), e.log)
	in.Log = e.log
	in.AutoCreateNodes = cfg.AutoCreateNodes
	in.MaxBindings = cfg.MaxBindings

	if err := in.Init(); err != nil {
		return nil, errors.Wrap(err, "init relation store")
	}

	return in, nil
}

// inputs returns the texts to process: the content of each file, or the
// arguments joined as one text, or the whole of ui.In.
func inputs(c *cli.Context, ui UI) ([]string, []string, error) {
	files := c.StringSlice("file")
	if len(files) > 0 {
		texts := make([]string, 0, len(files))
		for _, name := range files {
			b, err := os.ReadFile(name)
			if err != nil {
				return nil, nil, err
			}
			texts = append(texts, string(b))
		}
		return texts, files, nil
	}

	if c.NArg() > 0 {
		return []string{strings.Join(c.Args().Slice(), " ")}, []string{"args"}, nil
	}

	b, err := io.ReadAll(ui.In)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read stdin")
	}
	return []string{string(b)}, []string{"stdin"}, nil
}

func fileFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "read the text from `FILE`; repeat for several documents",
	}
}
