package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"singleMachine/internal/bench"
	"singleMachine/internal/bratley"
	"singleMachine/internal/brute"
	"singleMachine/internal/config"
	"singleMachine/internal/machine"
	"singleMachine/internal/opt"
	"singleMachine/internal/sa"
	"singleMachine/internal/ts"
)

// bratleyAdapter превращает исчерпание лимита узлов в неоптимальный результат,
// а не в ошибку запуска.
type bratleyAdapter struct{ s *bratley.Solver }

func (a bratleyAdapter) Solve(ctx context.Context, inst *machine.Instance) (opt.Result, error) {
	res, err := a.s.Solve(ctx, inst)
	if errors.Is(err, bratley.ErrNodeLimit) {
		return res, nil
	}
	return res, err
}

// Фабрики

func newBratleyFactory(cfg bratley.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := bratley.New(cfg)
		return bratleyAdapter{s: solver}
	}
}

func newBruteFactory() func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		return brute.New()
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func main() {
	// CLI флаги для настройки параметров алгоритмов и политики запуска
	var (
		cfgPath      = flag.String("config", "", "путь к YAML-файлу конфигурации")
		out          = flag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		sizes        = flag.String("jobs", "6,8,10,14", "размеры экземпляров: количество работ (через запятую)")
		algos        = flag.String("algos", "BB,SA", "список алгоритмов: BB, BF, SA, TS (через запятую)")
		runs         = flag.Int("runs", 10, "количество запусков каждого алгоритма (с разными сидами)")
		baseSeed     = flag.Int64("seed", 1000, "базовый сид для запусков алгоритмов")
		instanceSeed = flag.Int64("instance_seed", 777, "базовый сид для генерации экземпляров задачи (фиксирован для конфигурации)")
		perRunTO     = flag.Duration("per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
		workers      = flag.Int("workers", 0, "число параллельных воркеров (0 — из конфигурации)")
		slack        = flag.Int("slack_per_job", 15, "максимальный запас директивного срока на одну работу")

		// --- Метод ветвей и границ ---
		bbMaxNodes = flag.Int("bb_max_nodes", -1, "лимит узлов дерева поиска (-1 — из конфигурации, 0 — без ограничения)")

		// --- Алгоритм имитации отжига ---
		saIterPerJob = flag.Int("sa_iter_per_job", 500, "количество итераций на одну работу (используется, если sa_iter == 0)")
		saIter       = flag.Int("sa_iter", 0, "общее количество итераций (0 => sa_iter_per_job × nJobs)")
		saTempScale  = flag.Float64("sa_temp_scale", 2.0, "начальная температура в средних временах обработки")
		saFinalRatio = flag.Float64("sa_final_ratio", 0.01, "конечная температура как доля начальной")
		saAlpha      = flag.Float64("sa_alpha", 0, "коэффициент охлаждения (0 — подобрать по бюджету итераций)")
		saNeigh      = flag.String("sa_neigh", "swap", "тип окрестности: swap | insert")
		saPenalty    = flag.Int("sa_penalty", 0, "вес суммарного опоздания (0 — max r + 1)")

		// --- Поиск с запретами ---
		tsIterPerJob = flag.Int("ts_iter_per_job", 100, "количество итераций на одну работу (используется, если ts_iter == 0)")
		tsIter       = flag.Int("ts_iter", 0, "общее количество итераций (0 => ts_iter_per_job × nJobs)")
		tsTenure     = flag.Int("ts_tenure", 7, "срок запрета обратного хода")
		tsTenureRand = flag.Int("ts_tenure_rand", 3, "случайная добавка к сроку запрета [0..ts_tenure_rand]")
		tsNeighbors  = flag.Int("ts_neighbors", 60, "число соседей за итерацию (окрестность меньше — просматривается целиком)")
		tsNeigh      = flag.String("ts_neigh", "insert", "тип окрестности: insert | swap")
		tsPenalty    = flag.Int("ts_penalty", 0, "вес суммарного опоздания (0 — max r + 1)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(2)
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cases, err := parseSizes(*sizes, *instanceSeed, *slack)
	if err != nil {
		logger.Error("invalid -jobs", "error", err)
		os.Exit(2)
	}

	bbCfg := bratley.Config{MaxNodes: cfg.Solver.MaxNodes}
	if *bbMaxNodes >= 0 {
		bbCfg.MaxNodes = *bbMaxNodes
	}
	if err := bbCfg.Validate(); err != nil {
		logger.Error("invalid branch-and-bound config", "error", err)
		os.Exit(2)
	}

	saCfg := sa.Config{
		Iterations:       *saIter,
		IterationsPerJob: *saIterPerJob,
		TempScale:        *saTempScale,
		FinalRatio:       *saFinalRatio,
		Alpha:            *saAlpha,
		Neighborhood:     sa.Neighborhood(*saNeigh),
		Penalty:          *saPenalty,
	}
	if err := saCfg.Validate(); err != nil {
		logger.Error("invalid simulated annealing config", "error", err)
		os.Exit(2)
	}

	tsCfg := ts.Config{
		Iterations:       *tsIter,
		IterationsPerJob: *tsIterPerJob,
		TabuTenure:       *tsTenure,
		TabuTenureRand:   *tsTenureRand,
		NeighborsPerIter: *tsNeighbors,
		Neighborhood:     ts.Neighborhood(*tsNeigh),
		Penalty:          *tsPenalty,
	}
	if err := tsCfg.Validate(); err != nil {
		logger.Error("invalid tabu search config", "error", err)
		os.Exit(2)
	}

	available := map[string]bench.Algorithm{
		"BB": {Name: "BB", Factory: newBratleyFactory(bbCfg)},
		"BF": {Name: "BF", Factory: newBruteFactory()},
		"SA": {Name: "SA", Factory: newSAFactory(saCfg)},
		"TS": {Name: "TS", Factory: newTSFactory(tsCfg)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(*algos) {
		al, ok := available[a]
		if !ok {
			logger.Error("unknown algorithm", "algo", a, "available", keys(available))
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	timeout := *perRunTO
	if timeout == 0 {
		timeout = cfg.Solver.TimeLimit
	}
	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		PerRunTimeout: timeout,
		Workers:       cfg.Bench.Workers,
	}
	if *workers > 0 {
		runner.Workers = *workers
	}

	logger.Info("bench started", "cases", len(cases), "algos", *algos, "runs", runner.Runs, "workers", runner.Workers)

	records, err := runner.RunAll(ctx, cases, selected, func(rec bench.Record) {
		logger.Info("case done",
			"run_id", rec.RunID,
			"algo", rec.Algo,
			"jobs", rec.Jobs,
			"feasible", rec.Feasible,
			"optimal", rec.Optimal,
			"timed_out", rec.TimedOut,
			"makespan_best", rec.MakespanBest,
			"makespan_mean", rec.MakespanMean,
			"time_mean_ms", rec.TimeMeanMs,
			"evals_mean", rec.EvalsMean,
		)
	})
	if err != nil {
		logger.Error("bench failed", "error", err)
		os.Exit(1)
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		logger.Error("write csv", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("saved", "path", *out, "records", len(records))
}

// helpers

func parseSizes(s string, baseInstanceSeed int64, slackPerJob int) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	if slackPerJob < 0 {
		return nil, fmt.Errorf("запас директивного срока должен быть >= 0 (получено %d)", slackPerJob)
	}
	for i, p := range parts {
		jobs, err := atoiStrict(p)
		if err != nil {
			return nil, fmt.Errorf("размер %q: ошибка парсинга количества работ: %w", p, err)
		}
		if jobs <= 0 {
			return nil, fmt.Errorf("размер %q: количество работ должно быть > 0", p)
		}

		gp := machine.DefaultGenParams(jobs)
		gp.MaxSlack = slackPerJob * jobs

		cases = append(cases, bench.Case{
			Jobs:         jobs,
			InstanceSeed: baseInstanceSeed + int64(i)*10_000 + int64(jobs)*100,
			Gen:          gp,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
