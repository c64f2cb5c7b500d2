// Package ts — поиск с запретами для 1|r,d|Cmax. Как и отжиг, служит в бенчмарке
// эвристикой для сравнения с точным методом.
package ts

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"singleMachine/internal/machine"
	"singleMachine/internal/opt"
)

type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый TS-солвер с валидацией конфигурации.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// move — ход в окрестности текущего порядка.
type move struct {
	from, to int
	job      int
	cost     int
	ms, late int
}

func (m move) ok() bool { return m.from >= 0 }

// Solve начинает с порядка EDD и на каждой итерации переходит к лучшему соседу
// по стоимости makespan + Penalty × опоздание. Запрещён возврат работы на
// покинутую позицию, пока не истёк срок; запрет снимается, если ход даёт
// стоимость лучше рекордной. Результат — лучший найденный допустимый порядок.
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
	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerJob * n
	}
	penalty := s.Cfg.Penalty
	if penalty == 0 {
		penalty = inst.LatenessWeight()
	}

	moves := n * (n - 1)
	fullScan := moves <= s.Cfg.NeighborsPerIter
	tenureCap := max(1, moves/2)

	curr := make([]int, n)
	cand := make([]int, n)
	machine.EDD(curr, inst)

	ms, late := eval.MustEvaluate(curr)
	evals := 1

	// bestCost — рекорд по штрафной стоимости для критерия аспирации;
	// best/bestMs — лучший допустимый порядок, он и возвращается.
	bestCost := ms + penalty*late
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

	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	apply := func(p []int, from, to int) {
		if s.Cfg.Neighborhood == NeighborhoodSwap {
			applySwap(p, from, to)
			return
		}
		applyInsert(p, from, to)
	}

	iter := 0
	for ; iter < maxIter && n >= 2; iter++ {
		if err := ctx.Err(); err != nil {
			return result(iter, map[string]any{"stopped": "context"}), err
		}

		chosen := move{from: -1, cost: math.MaxInt}
		fallback := move{from: -1, cost: math.MaxInt}

		consider := func(from, to int) {
			copy(cand, curr)
			apply(cand, from, to)
			cms, clate := eval.MustEvaluate(cand)
			evals++

			m := move{from: from, to: to, job: curr[from], cost: cms + penalty*clate, ms: cms, late: clate}
			if m.cost < fallback.cost {
				fallback = m
			}
			if tabu.IsTabu(moveKey(m.job, to), iter) && m.cost >= bestCost {
				return
			}
			if m.cost < chosen.cost {
				chosen = m
			}
		}

		if fullScan {
			for from := 0; from < n; from++ {
				for to := 0; to < n; to++ {
					if to != from {
						consider(from, to)
					}
				}
			}
		} else {
			for k := 0; k < s.Cfg.NeighborsPerIter; k++ {
				from := s.Rng.Intn(n)
				to := s.Rng.Intn(n - 1)
				if to >= from {
					to++
				}
				consider(from, to)
			}
		}

		if !chosen.ok() {
			chosen = fallback
		}
		if !chosen.ok() {
			break
		}

		apply(curr, chosen.from, chosen.to)

		// Запрещаем работе вернуться на позицию, с которой она ушла.
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(moveKey(chosen.job, chosen.from), iter+min(tenure, tenureCap))

		if chosen.cost < bestCost {
			bestCost = chosen.cost
		}
		if chosen.late == 0 && (!found || chosen.ms < bestMs) {
			bestMs, found = chosen.ms, true
			copy(best, curr)
		}
	}

	return result(iter, map[string]any{
		"tabu_tenure":        s.Cfg.TabuTenure,
		"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
		"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		"full_scan":          fullScan,
		"neighborhood":       string(s.Cfg.Neighborhood),
		"penalty":            penalty,
	}), nil
}

// tabuList — кольцевой буфер фиксированного размера с map для проверки запрета.
type tabuList struct {
	m   map[uint64]int // ключ → итерация истечения запрета
	key []uint64
	exp []int
	i   int
}

func newTabuList(capacity int) *tabuList {
	capacity = max(capacity, 8)
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
	}
}

func (t *tabuList) IsTabu(k uint64, iter int) bool {
	exp, ok := t.m[k]
	return ok && exp > iter
}

// Add вытесняет самую старую запись буфера, если её не перезаписали позже.
func (t *tabuList) Add(k uint64, expiry int) {
	if old := t.key[t.i]; old != 0 {
		if cur, ok := t.m[old]; ok && cur == t.exp[t.i] {
			delete(t.m, old)
		}
	}
	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry
	t.i = (t.i + 1) % len(t.key)
}

func applySwap(p []int, i, j int) {
	p[i], p[j] = p[j], p[i]
}

// applyInsert переносит элемент из позиции from в позицию to.
func applyInsert(p []int, from, to int) {
	if from == to {
		return
	}
	val := p[from]
	if from < to {
		copy(p[from:to], p[from+1:to+1])
	} else {
		copy(p[to+1:from+1], p[to:from])
	}
	p[to] = val
}

// moveKey кодирует пару (работа, позиция). Старший бит гарантирует ненулевой ключ:
// ноль в буфере означает пустую ячейку.
func moveKey(job, pos int) uint64 {
	return 1<<63 | uint64(uint32(job))<<32 | uint64(uint32(pos))
}
