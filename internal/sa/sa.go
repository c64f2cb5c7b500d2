// Package sa — имитация отжига для 1|r,d|Cmax. Эвристика: оптимальность не
// гарантируется, используется в бенчмарке для сравнения с точным методом.
package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"singleMachine/internal/machine"
	"singleMachine/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve — реализация эвристики. Целевая функция: makespan + Penalty × суммарное опоздание,
// температура и вес опоздания выводятся из экземпляра (см. Config).
func (s *Solver) Solve(ctx context.Context, inst *machine.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	eval, err := machine.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	n := inst.N()

	maxIter := s.Cfg.budget(inst)
	t0, tmin, alpha := s.Cfg.cooling(inst, maxIter)
	penalty := s.Cfg.penalty(inst)

	cost := func(p []int) (int, int, int) {
		ms, late := eval.MustEvaluate(p)
		return ms + penalty*late, ms, late
	}

	curr := make([]int, n)
	cand := make([]int, n)

	// Начальное решение — порядок EDD (по неубыванию директивных сроков)
	machine.EDD(curr, inst)

	currCost, ms, late := cost(curr)
	evals := 1

	// Лучшее допустимое решение
	best := make([]int, n)
	bestMs, found := 0, false
	if late == 0 {
		copy(best, curr)
		bestMs, found = ms, true
	}

	result := func(iter int, meta map[string]any) opt.Result {
		r := opt.Result{
			Feasible:    found,
			Evaluations: evals,
			Iterations:  iter,
			Duration:    time.Since(start),
			Meta:        meta,
		}
		if found {
			r.Permutation = best
			r.Makespan = bestMs
		}
		return r
	}

	T := t0
	iter := 0
	for ; iter < maxIter && T > tmin && n >= 2; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return result(iter, map[string]any{
				"stopped": "context",
				"T":       T,
			}), err
		}

		copy(cand, curr)
		switch s.Cfg.Neighborhood {
		case NeighborhoodInsert:
			neighborInsert(cand, s.Rng)
		default:
			neighborSwap(cand, s.Rng)
		}

		candCost, candMs, candLate := cost(cand)
		evals++

		delta := candCost - currCost
		accept := false
		if delta <= 0 {
			accept = true
		} else {
			// Критерий Метрополиса
			p := math.Exp(-float64(delta) / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			curr, cand = cand, curr
			currCost = candCost

			if candLate == 0 && (!found || candMs < bestMs) {
				bestMs, found = candMs, true
				copy(best, curr)
			}
		}

		T *= alpha
	}

	return result(iter, map[string]any{
		"initial_temp": t0,
		"final_temp":   tmin,
		"alpha":        alpha,
		"neighborhood": string(s.Cfg.Neighborhood),
		"penalty":      penalty,
	}), nil
}

// Формирует соседнее решение путём обмена двух случайных позиций.
func neighborSwap(p []int, rng *rand.Rand) {
	if len(p) < 2 {
		return
	}
	i := rng.Intn(len(p))
	j := rng.Intn(len(p) - 1)
	if j >= i {
		j++
	}
	p[i], p[j] = p[j], p[i]
}

// Формирует соседнее решение путём извлечения элемента из позиции i и вставки его в позицию j.
func neighborInsert(p []int, rng *rand.Rand) {
	n := len(p)
	if n < 2 {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}

	val := p[i]
	if i < j {
		copy(p[i:j], p[i+1:j+1])
		p[j] = val
	} else {
		copy(p[j+1:i+1], p[j:i])
		p[j] = val
	}
}
