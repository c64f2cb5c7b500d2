// Package brute перебирает все n! порядков работ. Используется как эталон
// для проверки точного решателя на малых экземплярах.
package brute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"singleMachine/internal/machine"
	"singleMachine/internal/opt"
)

// MaxJobs — наибольший размер экземпляра, который допускает полный перебор.
const MaxJobs = 10

var ErrTooLarge = errors.New("brute: instance too large for enumeration")

type Solver struct{}

func New() *Solver { return &Solver{} }

// Solve возвращает лексикографически первый порядок с минимальным makespan
// среди допустимых.
func (s *Solver) Solve(ctx context.Context, inst *machine.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	n := inst.N()
	if n > MaxJobs {
		return opt.Result{}, fmt.Errorf("%w: n=%d > %d", ErrTooLarge, n, MaxJobs)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	eval, err := machine.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	perm := make([]int, n)
	machine.Identity(perm)
	best := make([]int, n)
	bestCost, found := 0, false
	evals := 0

	for {
		if evals&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return opt.Result{}, err
			}
		}
		ms, late := eval.MustEvaluate(perm)
		evals++
		if late == 0 && (!found || ms < bestCost) {
			copy(best, perm)
			bestCost = ms
			found = true
		}
		if !nextPermutation(perm) {
			break
		}
	}

	res := opt.Result{
		Feasible:    found,
		Optimal:     true,
		Evaluations: evals,
		Iterations:  evals,
		Duration:    time.Since(start),
		Meta:        map[string]any{"enumerated": evals},
	}
	if found {
		res.Permutation = best
		res.Makespan = bestCost
	}
	return res, nil
}

// nextPermutation переставляет p в следующую перестановку в лексикографическом порядке.
// Возвращает false, если p была последней.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}
