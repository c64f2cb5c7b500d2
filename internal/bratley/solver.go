package bratley

import (
	"context"
	"errors"
	"time"

	"singleMachine/internal/machine"
	"singleMachine/internal/opt"
)

// ErrNodeLimit — поиск исчерпал Config.MaxNodes до завершения.
var ErrNodeLimit = errors.New("bratley: node limit reached")

// Solver — точный решатель 1|r,d|Cmax.
type Solver struct {
	Cfg Config
}

func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// Solve запускает поиск. Поиск детерминирован: повторный запуск на том же экземпляре
// даёт тот же результат.
//
// Недопустимый экземпляр — не ошибка: возвращается Result с Feasible == false.
// При отмене ctx или исчерпании лимита узлов возвращается лучший найденный рекорд
// (Optimal == false) вместе с ошибкой.
func (s *Solver) Solve(ctx context.Context, inst *machine.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	e := newEngine(ctx, inst, s.Cfg.MaxNodes)
	e.search(0, 0)

	res := opt.Result{
		Feasible:    e.best.found,
		Optimal:     e.err == nil,
		Evaluations: e.stats.Nodes,
		Iterations:  e.stats.Leaves,
		Duration:    time.Since(start),
		Meta: map[string]any{
			"nodes":               e.stats.Nodes,
			"leaves":              e.stats.Leaves,
			"deadline_prunes":     e.stats.DeadlinePrunes,
			"bound_prunes":        e.stats.BoundPrunes,
			"decomposition_depth": e.stats.DecompositionDepth,
		},
	}
	if e.best.found {
		res.Permutation = e.best.perm
		res.Makespan = e.best.cost
	}
	if e.err != nil {
		res.Meta["stopped"] = e.err.Error()
		return res, e.err
	}
	return res, nil
}

// StatsOf извлекает счётчики из Meta результата Solve.
func StatsOf(res opt.Result) Stats {
	st := Stats{DecompositionDepth: -1}
	if res.Meta == nil {
		return st
	}
	get := func(k string) int {
		v, _ := res.Meta[k].(int)
		return v
	}
	st.Nodes = get("nodes")
	st.Leaves = get("leaves")
	st.DeadlinePrunes = get("deadline_prunes")
	st.BoundPrunes = get("bound_prunes")
	if _, ok := res.Meta["decomposition_depth"]; ok {
		st.DecompositionDepth = get("decomposition_depth")
	}
	return st
}
