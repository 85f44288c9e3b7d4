package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"tsumego/sgf"
	"tsumego/solver"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SolveServer exposes the solver over HTTP: clients post a problem SGF and
// get back the proof status and the ranked move statistics.
type SolveServer struct {
	engine      solver.Engine
	simulations int
	goroutines  int
	widen       bool
}

func NewSolveServer(engine solver.Engine, simulations, goroutines int, widen bool) *SolveServer {
	return &SolveServer{
		engine:      engine,
		simulations: simulations,
		goroutines:  goroutines,
		widen:       widen,
	}
}

// Router mounts the solve endpoints on a chi router.
func (s *SolveServer) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Post("/solve", s.handleSolve)
	return r
}

// Start serves until the listener fails.
func (s *SolveServer) Start(port string) error {
	log.Info().Msgf("solve server listening on %s", port)
	return http.ListenAndServe(port, s.Router())
}

type solveRequest struct {
	SGF         string `json:"sgf"`
	Simulations int    `json:"simulations"`
}

type solveResponse struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Proven      bool              `json:"proven"`
	Simulations int               `json:"simulations"`
	Moves       []solver.MoveStat `json:"moves"`
}

type errorResponse struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func (s *SolveServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *SolveServer) handleSolve(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{ID: id, Error: "invalid request body"})
		return
	}

	simulations := req.Simulations
	if simulations <= 0 {
		simulations = s.simulations
	}

	options := []solver.Option{
		solver.WithSimulations(simulations),
		solver.WithGoroutines(s.goroutines),
		solver.WithMetrics(),
	}
	if s.widen {
		options = append(options, solver.WithWidening())
	}
	sol := solver.New(s.engine, options...)

	if err := sol.Load(req.SGF); err != nil {
		status := http.StatusInternalServerError
		var lexErr *sgf.LexicalError
		var synErr *sgf.SyntaxError
		if errors.As(err, &lexErr) || errors.As(err, &synErr) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{ID: id, Error: err.Error()})
		return
	}

	log.Info().Str("id", id).Int("simulations", simulations).Msg("solve started")
	report, err := sol.Solve(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{ID: id, Error: err.Error()})
		return
	}
	log.Info().Str("id", id).Str("status", report.Status.String()).Int("simulations", report.Simulations).Msg("solve finished")

	writeJSON(w, http.StatusOK, solveResponse{
		ID:          id,
		Status:      report.Status.String(),
		Proven:      report.Proven,
		Simulations: report.Simulations,
		Moves:       report.Moves,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
