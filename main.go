package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"tsumego/bootstrap"
	"tsumego/communication/server"
	"tsumego/engine"
	"tsumego/solver"
	"tsumego/solver/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup configuration")
	}

	eng := buildEngine(cfg)

	if cfg.ServerPort != "" {
		srv := server.NewSolveServer(eng, cfg.Simulations, cfg.Goroutines, cfg.Widen)
		if err := srv.Start(":" + cfg.ServerPort); err != nil {
			log.Fatal().Err(err).Msg("solve server failed")
		}
		return
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: tsumego <problem.sgf>")
		os.Exit(2)
	}
	solveFile(cfg, eng, os.Args[1])
}

// buildEngine wires the oracle subprocess client, with a redis evaluation
// cache in front when configured.
func buildEngine(cfg *bootstrap.Config) solver.Engine {
	var eng solver.Engine = engine.NewNCTU6(cfg.EnginePath, engine.WithWorkDir(cfg.EngineWorkDir))

	if cfg.RedisUrl != "" {
		opts, err := redis.ParseURL(cfg.RedisUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis url")
		}
		ttl := time.Duration(cfg.CacheTTLHours) * time.Hour
		eng = engine.NewCache(eng, redis.NewClient(opts), ttl)
		log.Info().Msg("evaluation cache enabled")
	}
	return eng
}

func solveFile(cfg *bootstrap.Config, eng solver.Engine, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to read %s", path)
	}

	options := []solver.Option{
		solver.WithSimulations(cfg.Simulations),
		solver.WithGoroutines(cfg.Goroutines),
		solver.WithMetrics(),
	}
	if cfg.Widen {
		options = append(options, solver.WithWidening())
	}
	sol := solver.New(eng, options...)

	if err := sol.Load(string(src)); err != nil {
		log.Fatal().Err(err).Msg("failed to load problem")
	}

	report, err := sol.Solve(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("solve failed")
	}

	fmt.Printf("status: %s (proven: %t) after %d simulations\n",
		report.Status, report.Proven, report.Simulations)
	for i, move := range report.Moves {
		fmt.Printf("%2d. %-8s visits=%-5d score=%+.3f %s\n",
			i+1, move.Move, move.Visits, move.Score, move.Status)
	}

	writer, err := metrics.NewWriter()
	if err != nil {
		log.Warn().Err(err).Msg("skipping metrics output")
		return
	}
	record := metrics.SolveRecord{
		ID:          1,
		Problem:     path,
		Status:      report.Status.String(),
		SolveMetric: report.Metric,
	}
	if err := writer.WriteSolveRecords([]metrics.SolveRecord{record}); err != nil {
		log.Warn().Err(err).Msg("failed to write solve metrics")
	}
}
