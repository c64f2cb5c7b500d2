package opt

import (
	"context"
	"time"

	"singleMachine/internal/machine"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *machine.Instance) (Result, error)
}

// Result — итог работы оптимизатора.
// Если Feasible == false, Permutation пуст и Makespan не определён.
type Result struct {
	Permutation []int
	Makespan    int
	Feasible    bool
	// Optimal — оптимальность доказана (точный метод завершил поиск).
	Optimal     bool
	Evaluations int
	Iterations  int
	Duration    time.Duration
	Meta        map[string]any
}

// Schedule строит выходное расписание по результату.
func (r Result) Schedule(inst *machine.Instance) (machine.Schedule, error) {
	return machine.Reconstruct(inst, r.Permutation, r.Feasible)
}
