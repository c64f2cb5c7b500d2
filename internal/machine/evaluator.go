package machine

import "fmt"

// Evaluator вычисляет характеристики расписания для фиксированного порядка работ.
// Работы запускаются как можно раньше: start = max(free, r).
type Evaluator struct {
	inst *Instance
}

func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{inst: inst}, nil
}

// Evaluate возвращает makespan и суммарное опоздание относительно директивных сроков.
// Порядок допустим тогда и только тогда, когда lateness == 0.
func (e *Evaluator) Evaluate(perm []int) (makespan, lateness int, err error) {
	if e == nil || e.inst == nil {
		return 0, 0, fmt.Errorf("nil evaluator")
	}
	if err := ValidatePermutation(perm, e.inst.N()); err != nil {
		return 0, 0, err
	}

	free := 0
	for _, id := range perm {
		j := e.inst.Jobs[id]
		free = max(free, j.Release) + j.Proc
		if free > j.Deadline {
			lateness += free - j.Deadline
		}
	}
	return free, lateness, nil
}

// Makespan возвращает время завершения последней работы и признак допустимости порядка.
func (e *Evaluator) Makespan(perm []int) (int, bool, error) {
	ms, late, err := e.Evaluate(perm)
	if err != nil {
		return 0, false, err
	}
	return ms, late == 0, nil
}

func (e *Evaluator) MustEvaluate(perm []int) (int, int) {
	ms, late, err := e.Evaluate(perm)
	if err != nil {
		panic(err)
	}
	return ms, late
}
