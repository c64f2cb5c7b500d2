package bratley_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"singleMachine/internal/bratley"
	"singleMachine/internal/brute"
	"singleMachine/internal/machine"
	"singleMachine/internal/opt"
)

func mustInstance(t *testing.T, jobs ...machine.Job) *machine.Instance {
	t.Helper()
	inst, err := machine.NewInstance(jobs)
	require.NoError(t, err)
	return inst
}

func solve(t *testing.T, inst *machine.Instance) opt.Result {
	t.Helper()
	s, err := bratley.New(bratley.DefaultConfig())
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	return res
}

func TestSolve_TwoJobs(t *testing.T) {
	inst := mustInstance(t,
		machine.Job{Proc: 2, Release: 0, Deadline: 5},
		machine.Job{Proc: 3, Release: 1, Deadline: 6},
	)
	res := solve(t, inst)

	require.True(t, res.Feasible)
	require.True(t, res.Optimal)
	require.Equal(t, []int{0, 1}, res.Permutation)
	require.Equal(t, 5, res.Makespan)

	sched, err := res.Schedule(inst)
	require.NoError(t, err)
	require.False(t, sched.Infeasible)
	require.Equal(t, []int{0, 2}, sched.Start)
}

func TestSolve_SingleJobMissesDeadline(t *testing.T) {
	inst := mustInstance(t, machine.Job{Proc: 5, Release: 0, Deadline: 4})
	res := solve(t, inst)

	require.False(t, res.Feasible)
	require.Empty(t, res.Permutation)
	require.Equal(t, 1, bratley.StatsOf(res).Nodes)

	sched, err := res.Schedule(inst)
	require.NoError(t, err)
	require.True(t, sched.Infeasible)
	require.Nil(t, sched.Start)
}

func TestSolve_Empty(t *testing.T) {
	res := solve(t, mustInstance(t))

	require.True(t, res.Feasible)
	require.Equal(t, 0, res.Makespan)
	require.Empty(t, res.Permutation)

	sched, err := res.Schedule(mustInstance(t))
	require.NoError(t, err)
	require.False(t, sched.Infeasible)
	require.Empty(t, sched.Start)
}

func TestSolve_SingleJobTerminatesImmediately(t *testing.T) {
	res := solve(t, mustInstance(t, machine.Job{Proc: 4, Release: 3, Deadline: 10}))

	require.True(t, res.Feasible)
	require.Equal(t, 7, res.Makespan)
	st := bratley.StatsOf(res)
	require.Equal(t, 2, st.Nodes)
	require.Equal(t, 1, st.Leaves)
	require.Equal(t, 0, st.DecompositionDepth)
}

func TestSolve_ZeroProcessingTime(t *testing.T) {
	inst := mustInstance(t,
		machine.Job{Proc: 0, Release: 3, Deadline: 3},
		machine.Job{Proc: 2, Release: 0, Deadline: 2},
	)
	res := solve(t, inst)

	require.True(t, res.Feasible)
	require.Equal(t, []int{1, 0}, res.Permutation)
	require.Equal(t, 3, res.Makespan)

	sched, err := res.Schedule(inst)
	require.NoError(t, err)
	require.Equal(t, []int{3, 0}, sched.Start)
}

func TestSolve_DecompositionStopsSearch(t *testing.T) {
	// После первой работы машина свободна до r второй: префикс [0] фиксируется,
	// и ветка, начинающаяся со второй работы, не посещается.
	inst := mustInstance(t,
		machine.Job{Proc: 2, Release: 0, Deadline: 100},
		machine.Job{Proc: 3, Release: 10, Deadline: 100},
	)
	res := solve(t, inst)

	require.Equal(t, []int{0, 1}, res.Permutation)
	require.Equal(t, 13, res.Makespan)
	st := bratley.StatsOf(res)
	require.Equal(t, 1, st.DecompositionDepth)
	require.Equal(t, 3, st.Nodes)
}

func TestSolve_InfeasiblePair(t *testing.T) {
	// Каждая работа помещается одна, но вместе не помещаются ни в каком порядке.
	inst := mustInstance(t,
		machine.Job{Proc: 3, Release: 0, Deadline: 4},
		machine.Job{Proc: 3, Release: 0, Deadline: 4},
	)
	res := solve(t, inst)
	require.False(t, res.Feasible)

	sched, err := res.Schedule(inst)
	require.NoError(t, err)
	require.True(t, sched.Infeasible)
}

func TestSolve_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	bf := brute.New()
	bb, err := bratley.New(bratley.DefaultConfig())
	require.NoError(t, err)

	feasible, infeasible := 0, 0
	for k := 0; k < 400; k++ {
		n := rng.Intn(9) // 0..8
		gp := machine.GenParams{
			MinProc:    rng.Intn(2), // иногда нулевые времена обработки
			MaxProc:    1 + rng.Intn(10),
			MaxRelease: rng.Intn(6*n + 1),
			MaxSlack:   rng.Intn(8*n + 1),
		}
		inst := machine.RandomInstance(n, gp, rng)

		want, err := bf.Solve(context.Background(), inst)
		require.NoError(t, err)
		got, err := bb.Solve(context.Background(), inst)
		require.NoError(t, err)

		require.Equal(t, want.Feasible, got.Feasible, "instance %d: %+v", k, inst.Jobs)
		if !want.Feasible {
			infeasible++
			continue
		}
		feasible++
		require.Equal(t, want.Makespan, got.Makespan, "instance %d: %+v", k, inst.Jobs)
		require.NoError(t, machine.ValidatePermutation(got.Permutation, n))

		sched, err := got.Schedule(inst)
		require.NoError(t, err)
		require.Equal(t, -1, sched.Check(inst), "instance %d: %+v", k, inst.Jobs)
		require.Equal(t, got.Makespan, sched.Makespan(inst))
	}
	// Генератор должен давать обе категории, иначе проверка вырождается.
	require.Positive(t, feasible)
	require.Positive(t, infeasible)
}

func TestSolve_Deterministic(t *testing.T) {
	inst := machine.RandomInstance(9, machine.DefaultGenParams(9), rand.New(rand.NewSource(7)))
	a := solve(t, inst)
	b := solve(t, inst)

	require.Equal(t, a.Feasible, b.Feasible)
	require.Equal(t, a.Permutation, b.Permutation)
	require.Equal(t, a.Makespan, b.Makespan)
	require.Equal(t, bratley.StatsOf(a), bratley.StatsOf(b))
}

func TestSolve_NodeLimit(t *testing.T) {
	inst := mustInstance(t,
		machine.Job{Proc: 2, Release: 0, Deadline: 20},
		machine.Job{Proc: 3, Release: 1, Deadline: 20},
		machine.Job{Proc: 1, Release: 2, Deadline: 20},
	)
	s, err := bratley.New(bratley.Config{MaxNodes: 1})
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.ErrorIs(t, err, bratley.ErrNodeLimit)
	require.False(t, res.Optimal)
	require.False(t, res.Feasible)
	require.Equal(t, bratley.ErrNodeLimit.Error(), res.Meta["stopped"])
	require.Equal(t, 1, bratley.StatsOf(res).Nodes)
}

func TestSolve_NodeLimitKeepsIncumbent(t *testing.T) {
	inst := mustInstance(t,
		machine.Job{Proc: 2, Release: 0, Deadline: 20},
		machine.Job{Proc: 3, Release: 1, Deadline: 20},
		machine.Job{Proc: 1, Release: 2, Deadline: 20},
	)
	// Корень, два уровня и лист первой ветки.
	s, err := bratley.New(bratley.Config{MaxNodes: 4})
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.ErrorIs(t, err, bratley.ErrNodeLimit)
	require.True(t, res.Feasible)
	require.False(t, res.Optimal)
	require.NoError(t, machine.ValidatePermutation(res.Permutation, 3))
	require.Equal(t, 4, bratley.StatsOf(res).Nodes)
}

func TestSolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := bratley.New(bratley.DefaultConfig())
	require.NoError(t, err)
	res, err := s.Solve(ctx, mustInstance(t, machine.Job{Proc: 1, Release: 0, Deadline: 1}))
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, res.Optimal)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := bratley.New(bratley.Config{MaxNodes: -1})
	require.Error(t, err)
}

func TestSolve_InvalidInstance(t *testing.T) {
	s, err := bratley.New(bratley.DefaultConfig())
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), &machine.Instance{Jobs: []machine.Job{{Proc: -1}}})
	require.ErrorIs(t, err, machine.ErrInvalidInstance)
}
