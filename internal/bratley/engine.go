// Package bratley — точное решение задачи 1|r,d|Cmax алгоритмом Брэтли.
//
// Поиск в глубину по перестановкам незапланированных работ с тремя правилами
// отсечения:
//  1. Нарушение директивного срока: если какая-либо оставшаяся работа j,
//     поставленная следующей, не успевает к d_j, узел отсекается.
//  2. Граница: LB = max(c, min r_T) + sum p_T. С рекордом UB отсекаем при
//     LB >= UB; без рекорда — при LB > max d_T (допустимого продолжения нет).
//  3. Декомпозиция: если c <= min r_T, префикс не влияет на оставшиеся работы,
//     и после полного обхода поддерева этого узла рекорд оптимален глобально.
//     Узел сообщает об этом вверх, и поиск завершается целиком.
//
// Множество T хранится в одном срезе с дисциплиной «обмен с хвостом/возврат»,
// поэтому шаг ветвления O(1) по памяти.
package bratley

import (
	"context"

	"singleMachine/internal/machine"
)

// outcome — результат обработки узла дерева поиска.
type outcome int

const (
	// pruned — узел отсечён одним из правил.
	pruned outcome = iota
	// proceed — лист записан или поддерево исчерпано; продолжаем с соседями.
	proceed
	// optimal — оптимальность подтверждена декомпозицией; прекращаем весь поиск.
	optimal
	// halted — поиск остановлен извне (контекст или лимит узлов).
	halted
)

// incumbent — лучшее найденное полное допустимое решение.
type incumbent struct {
	perm  []int
	cost  int
	found bool
}

func (b *incumbent) record(seq []int, cost int) {
	copy(b.perm, seq)
	b.cost = cost
	b.found = true
}

// Stats — счётчики одного запуска поиска.
type Stats struct {
	Nodes          int
	Leaves         int
	DeadlinePrunes int
	BoundPrunes    int
	// DecompositionDepth — глубина узла, подтвердившего оптимальность (0 — корень);
	// -1, если корень отсечён или поиск остановлен.
	DecompositionDepth int
}

type engine struct {
	jobs []machine.Job

	// seq[:depth] — размещённые работы S в порядке выполнения.
	seq []int
	// rest[:n-depth] — неразмещённые работы T.
	rest []int

	best incumbent

	ctx      context.Context
	maxNodes int
	err      error

	stats Stats
}

func newEngine(ctx context.Context, inst *machine.Instance, maxNodes int) *engine {
	n := inst.N()
	e := &engine{
		jobs:     inst.Jobs,
		seq:      make([]int, n),
		rest:     make([]int, n),
		best:     incumbent{perm: make([]int, n)},
		ctx:      ctx,
		maxNodes: maxNodes,
	}
	machine.Identity(e.rest)
	e.stats.DecompositionDepth = -1
	return e
}

// visit учитывает узел и проверяет внешние ограничения.
// Узел, на котором сработал лимит, не считается: Nodes <= MaxNodes.
// Контекст проверяется в корне и далее раз в 4096 узлов.
func (e *engine) visit() bool {
	if e.maxNodes > 0 && e.stats.Nodes >= e.maxNodes {
		e.err = ErrNodeLimit
		return false
	}
	e.stats.Nodes++
	if e.stats.Nodes&4095 == 1 {
		if err := e.ctx.Err(); err != nil {
			e.err = err
			return false
		}
	}
	return true
}

// search обрабатывает узел (S = seq[:depth], T = rest[:n-depth], c).
func (e *engine) search(depth, c int) outcome {
	if !e.visit() {
		return halted
	}

	rest := e.rest[:len(e.rest)-depth]

	minRelease, maxDeadline, sumProc := -1, 0, 0
	for _, id := range rest {
		j := e.jobs[id]
		if max(c, j.Release)+j.Proc > j.Deadline {
			e.stats.DeadlinePrunes++
			return pruned
		}
		if minRelease < 0 || j.Release < minRelease {
			minRelease = j.Release
		}
		maxDeadline = max(maxDeadline, j.Deadline)
		sumProc += j.Proc
	}

	if len(rest) == 0 {
		e.stats.Leaves++
		if !e.best.found || c < e.best.cost {
			e.best.record(e.seq[:depth], c)
		}
		return proceed
	}

	lb := max(c, minRelease) + sumProc
	if e.best.found {
		if lb >= e.best.cost {
			e.stats.BoundPrunes++
			return pruned
		}
	} else if lb > maxDeadline {
		e.stats.BoundPrunes++
		return pruned
	}

	decomposed := c <= minRelease

	last := len(rest) - 1
	for i := range rest {
		id := rest[i]
		j := e.jobs[id]
		e.seq[depth] = id
		rest[i], rest[last] = rest[last], rest[i]
		out := e.search(depth+1, max(c, j.Release)+j.Proc)
		rest[i], rest[last] = rest[last], rest[i]
		if out == optimal || out == halted {
			return out
		}
	}

	if decomposed {
		e.stats.DecompositionDepth = depth
		return optimal
	}
	return proceed
}
