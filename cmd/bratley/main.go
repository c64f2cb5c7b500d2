// Command bratley решает задачу 1|r,d|Cmax для экземпляра из файла.
//
//	bratley [-config file.yaml] [-max_nodes N] [-timeout D] <input> <output>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"singleMachine/internal/bratley"
	"singleMachine/internal/config"
	"singleMachine/internal/instio"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "путь к YAML-файлу конфигурации")
		maxNodes = flag.Int("max_nodes", -1, "лимит узлов дерева поиска (-1 — из конфигурации, 0 — без ограничения)")
		timeout  = flag.Duration("timeout", 0, "ограничение времени поиска; 0 — из конфигурации")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <input> <output>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	in, out := flag.Arg(0), flag.Arg(1)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(2)
	}
	if *maxNodes >= 0 {
		cfg.Solver.MaxNodes = *maxNodes
	}
	if *timeout > 0 {
		cfg.Solver.TimeLimit = *timeout
	}
	logger := cfg.Log.NewLogger(os.Stderr).With("run_id", uuid.NewString())

	inst, err := instio.ReadFile(in)
	if err != nil {
		logger.Error("load instance", "path", in, "error", err)
		os.Exit(2)
	}

	solver, err := bratley.New(bratley.Config{MaxNodes: cfg.Solver.MaxNodes})
	if err != nil {
		logger.Error("invalid solver config", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Solver.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Solver.TimeLimit)
		defer cancel()
	}

	logger.Info("search started", "jobs", inst.N(), "max_nodes", cfg.Solver.MaxNodes, "time_limit", cfg.Solver.TimeLimit)

	res, err := solver.Solve(ctx, inst)
	st := bratley.StatsOf(res)
	switch {
	case err == nil:
	case errors.Is(err, bratley.ErrNodeLimit), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// Незавершённый поиск: пишем лучший найденный рекорд, но не считаем его оптимальным.
		logger.Warn("search stopped early", "reason", err, "feasible", res.Feasible)
	default:
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}

	logger.Info("search finished",
		"feasible", res.Feasible,
		"optimal", res.Optimal,
		"makespan", res.Makespan,
		"nodes", st.Nodes,
		"leaves", st.Leaves,
		"deadline_prunes", st.DeadlinePrunes,
		"bound_prunes", st.BoundPrunes,
		"decomposition_depth", st.DecompositionDepth,
		"duration", res.Duration,
	)

	sched, err := res.Schedule(inst)
	if err != nil {
		logger.Error("reconstruct schedule", "error", err)
		os.Exit(1)
	}
	if err := instio.WriteFile(out, sched); err != nil {
		logger.Error("write schedule", "path", out, "error", err)
		os.Exit(1)
	}
}
