package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/semgraph/engine"
	"github.com/revelaction/semgraph/graph"
	"github.com/revelaction/semgraph/query"
	"github.com/revelaction/semgraph/render"
	sent "github.com/revelaction/semgraph/sentence"
)

// ---- JSON types ---------------------------------------------------------

type textRequest struct {
	Text string `json:"text"`
}

type applyResponse struct {
	Doc   *sent.Doc    `json:"doc"`
	Stats engine.Stats `json:"stats"`
	Edges []graph.Edge `json:"edges"`
}

type typesResponse struct {
	Types []string `json:"types"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ---- server -------------------------------------------------------------

// server serializes the requests on the analyzer and the interpreter.
type server struct {
	mu       sync.Mutex
	analyzer query.Analyzer
	in       *engine.Interpreter
	log      logrus.FieldLogger
}

func (s *server) routes(origins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/apply", s.handleApply)
	mux.HandleFunc("GET /api/relations", s.handleTypes)
	mux.HandleFunc("GET /api/relations/{type}", s.handleRelations)
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

func decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body textRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return "", false
	}
	return body.Text, true
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	doc := s.analyzer.Analyze(text)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, doc)
}

func (s *server) handleApply(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	doc := s.analyzer.Analyze(text)
	before := len(s.in.Graph.Edges())
	stats := s.in.Apply(doc)
	edges := engine.RuleEdges(s.in.Graph.Edges()[before:])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, applyResponse{Doc: doc, Stats: stats, Edges: edges})
}

func (s *server) handleTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	types, err := s.in.Store.Types()
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).Error("list relation types")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, typesResponse{Types: types})
}

func (s *server) handleRelations(w http.ResponseWriter, r *http.Request) {
	relation := r.PathValue("type")

	s.mu.Lock()
	rows, err := s.in.Store.Scan(relation)
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).WithField("relation", relation).Error("scan relation")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	render.NewJSONRenderer(w).Relations(relation, rows)
}

func serveCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the analyzer and the interpreter as a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
			&cli.StringSliceFlag{Name: "cors-origin", Value: cli.NewStringSlice("*"), Usage: "allowed CORS origin"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c, ui)
			if err != nil {
				return err
			}
			defer e.Close()

			in, err := e.interpreter()
			if err != nil {
				return err
			}

			s := &server{analyzer: e.pipeline(), in: in, log: e.log}
			srv := &http.Server{
				Addr:              c.String("addr"),
				Handler:           s.routes(c.StringSlice("cors-origin")),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				e.log.WithField("addr", srv.Addr).Info("listening")
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		},
	}
}
