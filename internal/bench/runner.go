package bench

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"singleMachine/internal/machine"
	"singleMachine/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

type Case struct {
	Jobs         int
	InstanceSeed int64
	Gen          machine.GenParams
}

type Record struct {
	RunID string
	Algo  string
	Jobs  int
	Runs  int

	// Feasible — число запусков, нашедших допустимое расписание.
	Feasible int
	// Optimal — число запусков с доказанной оптимальностью.
	Optimal int
	// TimedOut — число запусков, остановленных по PerRunTimeout.
	TimedOut int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest int
	MakespanMean float64
	MakespanStd  float64

	EvalsMean float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	// Workers — число одновременно выполняемых пар (случай, алгоритм); <= 1 — последовательно.
	Workers int
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := machine.RandomInstance(c.Jobs, c.Gen, rand.New(rand.NewSource(c.InstanceSeed)))

	makespans := make([]int, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	evals := make([]float64, 0, r.Runs)
	optimal, timedOut := 0, 0

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op := algo.Factory(runSeed)

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Solve(runCtx, inst)
		dur := time.Since(start)
		cancel()

		switch {
		case err != nil && ctx.Err() != nil:
			return Record{}, fmt.Errorf("run %d: cancelled: %w", i, err)
		case err != nil && errors.Is(err, context.DeadlineExceeded) && runCtx.Err() != nil:
			// Истёк только таймаут запуска: учитываем лучший найденный результат как неоптимальный.
			timedOut++
			res.Optimal = false
			err = nil
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if res.Feasible {
			if err := verify(inst, res); err != nil {
				return Record{}, fmt.Errorf("run %d: %w", i, err)
			}
			makespans = append(makespans, res.Makespan)
		}
		if res.Optimal {
			optimal++
		}
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		evals = append(evals, float64(res.Evaluations))
	}

	msStats := CalcIntStats(makespans)
	tStats := CalcFloatStats(timesMs)
	eStats := CalcFloatStats(evals)

	return Record{
		RunID: uuid.NewString(),
		Algo:  algo.Name,
		Jobs:  c.Jobs,
		Runs:  r.Runs,

		Feasible: len(makespans),
		Optimal:  optimal,
		TimedOut: timedOut,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest: msStats.Best,
		MakespanMean: msStats.Mean,
		MakespanStd:  msStats.Std,

		EvalsMean: eStats.Mean,
	}, nil
}

// RunAll прогоняет все пары (случай, алгоритм) и возвращает записи в порядке
// cases × algos независимо от числа воркеров.
func (r Runner) RunAll(ctx context.Context, cases []Case, algos []Algorithm, onDone func(Record)) ([]Record, error) {
	records := make([]Record, len(cases)*len(algos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))
	for ci, c := range cases {
		for ai, a := range algos {
			idx := ci*len(algos) + ai
			c, a := c, a
			g.Go(func() error {
				rec, err := r.RunCase(gctx, c, a)
				if err != nil {
					return fmt.Errorf("%s on %d jobs: %w", a.Name, c.Jobs, err)
				}
				records[idx] = rec
				if onDone != nil {
					onDone(rec)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// verify проверяет, что результат — корректное допустимое расписание с заявленным makespan.
func verify(inst *machine.Instance, res opt.Result) error {
	s, err := res.Schedule(inst)
	if err != nil {
		return err
	}
	if id := s.Check(inst); id >= 0 {
		return fmt.Errorf("job %d violates its time window", id)
	}
	if ms := s.Makespan(inst); ms != res.Makespan {
		return errors.New("reported makespan does not match schedule")
	}
	return nil
}

func WriteCSV(path string, records []Record) error {
	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"run_id", "algo", "jobs", "runs", "feasible", "optimal", "timed_out",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"makespan_best", "makespan_mean", "makespan_std",
		"evals_mean",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.RunID,
			r.Algo,
			itoa(r.Jobs),
			itoa(r.Runs),
			itoa(r.Feasible),
			itoa(r.Optimal),
			itoa(r.TimedOut),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			itoa(r.MakespanBest),
			ftoa(r.MakespanMean),
			ftoa(r.MakespanStd),

			ftoa(r.EvalsMean),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
