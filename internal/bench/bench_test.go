package bench_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"singleMachine/internal/bench"
	"singleMachine/internal/bratley"
	"singleMachine/internal/brute"
	"singleMachine/internal/machine"
	"singleMachine/internal/opt"
)

func algos() []bench.Algorithm {
	return []bench.Algorithm{
		{Name: "BB", Factory: func(int64) opt.Optimizer {
			s, _ := bratley.New(bratley.DefaultConfig())
			return s
		}},
		{Name: "BF", Factory: func(int64) opt.Optimizer { return brute.New() }},
	}
}

func cases() []bench.Case {
	var out []bench.Case
	for i, n := range []int{3, 5, 7} {
		out = append(out, bench.Case{Jobs: n, InstanceSeed: int64(100 + i), Gen: machine.DefaultGenParams(n)})
	}
	return out
}

func TestRunAll_ExactSolversAgree(t *testing.T) {
	var mu sync.Mutex
	done := 0
	r := bench.Runner{Runs: 2, BaseSeed: 1, Workers: 3}

	recs, err := r.RunAll(context.Background(), cases(), algos(), func(bench.Record) {
		mu.Lock()
		done++
		mu.Unlock()
	})
	require.NoError(t, err)
	require.Len(t, recs, 6)
	assert.Equal(t, 6, done)

	for i := 0; i < len(recs); i += 2 {
		bb, bf := recs[i], recs[i+1]
		assert.Equal(t, "BB", bb.Algo)
		assert.Equal(t, "BF", bf.Algo)
		assert.Equal(t, bf.Jobs, bb.Jobs)
		assert.Equal(t, bf.Feasible, bb.Feasible)
		assert.Equal(t, bf.MakespanBest, bb.MakespanBest)
		assert.Equal(t, 2, bb.Optimal)
		assert.NotEmpty(t, bb.RunID)
		assert.NotEqual(t, bb.RunID, bf.RunID)
	}
}

func TestRunCase_PropagatesSolveError(t *testing.T) {
	r := bench.Runner{Runs: 1}
	big := bench.Case{Jobs: brute.MaxJobs + 1, Gen: machine.DefaultGenParams(brute.MaxJobs + 1)}
	_, err := r.RunCase(context.Background(), big, algos()[1])
	require.ErrorIs(t, err, brute.ErrTooLarge)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "res.csv")
	recs := []bench.Record{{RunID: "x", Algo: "BB", Jobs: 4, Runs: 1, Feasible: 1, Optimal: 1, MakespanBest: 12}}
	require.NoError(t, bench.WriteCSV(path, recs))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "run_id", rows[0][0])
	assert.Equal(t, []string{"x", "BB", "4", "1", "1", "1"}, rows[1][:6])
	assert.Equal(t, "0", rows[1][6])
	assert.Equal(t, "12", rows[1][10])
}

func TestStats(t *testing.T) {
	s := bench.CalcIntStats([]int{4, 2, 6})
	assert.Equal(t, 3, s.N)
	assert.Equal(t, 2, s.Best)
	assert.InDelta(t, 4.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.Std, 1e-9)

	assert.Equal(t, bench.IntStats{}, bench.CalcIntStats(nil))

	f := bench.CalcFloatStats([]float64{1.5})
	assert.Equal(t, 1.5, f.Best)
	assert.Equal(t, 0.0, f.Std)
}

// slowSolver ждёт отмены контекста и возвращает промежуточный результат вместе с ошибкой
// контекста, как это делают точный и эвристические методы.
type slowSolver struct{}

func (slowSolver) Solve(ctx context.Context, inst *machine.Instance) (opt.Result, error) {
	<-ctx.Done()
	perm := make([]int, inst.N())
	machine.Identity(perm)
	ms, late, err := evaluate(inst, perm)
	if err != nil {
		return opt.Result{}, err
	}
	return opt.Result{Permutation: perm, Makespan: ms, Feasible: late == 0, Optimal: true}, ctx.Err()
}

func evaluate(inst *machine.Instance, perm []int) (int, int, error) {
	e, err := machine.NewEvaluator(inst)
	if err != nil {
		return 0, 0, err
	}
	return e.Evaluate(perm)
}

func TestRunCase_PerRunTimeoutKeepsIncumbent(t *testing.T) {
	// Нулевые p и r: любой порядок допустим.
	gp := machine.GenParams{MinProc: 0, MaxProc: 0, MaxRelease: 0, MaxSlack: 5}
	c := bench.Case{Jobs: 4, InstanceSeed: 5, Gen: gp}
	r := bench.Runner{Runs: 2, PerRunTimeout: time.Millisecond}

	rec, err := r.RunCase(context.Background(), c, bench.Algorithm{
		Name:    "slow",
		Factory: func(int64) opt.Optimizer { return slowSolver{} },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TimedOut)
	assert.Equal(t, 2, rec.Feasible)
	assert.Equal(t, 0, rec.Optimal)
}

func TestRunCase_ParentCancelFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := bench.Runner{Runs: 1, PerRunTimeout: time.Hour}

	_, err := r.RunCase(ctx, cases()[0], bench.Algorithm{
		Name:    "slow",
		Factory: func(int64) opt.Optimizer { return slowSolver{} },
	})
	require.ErrorIs(t, err, context.Canceled)
}
