package sa

import (
	"fmt"
	"math"

	"singleMachine/internal/machine"
)

// Тип окрестности
type Neighborhood string

const (
	NeighborhoodSwap   Neighborhood = "swap"
	NeighborhoodInsert Neighborhood = "insert"
)

// Config задаёт отжиг в единицах экземпляра, а не в абсолютных числах:
// перестановка двух работ сдвигает makespan на величину порядка p_j,
// поэтому температура измеряется в средних временах обработки.
type Config struct {
	Iterations       int
	IterationsPerJob int

	// TempScale — начальная температура в средних временах обработки:
	// T0 = TempScale × mean(p).
	TempScale float64
	// FinalRatio — доля T0, при которой охлаждение заканчивается.
	FinalRatio float64
	// Alpha — коэффициент охлаждения; 0 — подобрать так, чтобы температура
	// дошла до FinalRatio × T0 ровно за бюджет итераций.
	Alpha float64

	Neighborhood Neighborhood

	// Penalty — вес суммарного опоздания; 0 — Instance.LatenessWeight (max r + 1),
	// при котором любой допустимый порядок дешевле любого недопустимого.
	Penalty int
}

func DefaultConfig() Config {
	return Config{
		Iterations:       0,
		IterationsPerJob: 500,

		TempScale:  2.0,
		FinalRatio: 0.01,
		Alpha:      0,

		Neighborhood: NeighborhoodSwap,
		Penalty:      0,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerJob <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerJob > 0",
		)
	}
	if c.TempScale <= 0 {
		return fmt.Errorf(
			"TempScale должно быть > 0: температура измеряется в средних временах обработки (получено %f)",
			c.TempScale,
		)
	}
	if c.FinalRatio <= 0 || c.FinalRatio >= 1 {
		return fmt.Errorf(
			"FinalRatio должно лежать в интервале (0,1): конечная температура — доля начальной (получено %f)",
			c.FinalRatio,
		)
	}
	if c.Alpha < 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) или быть 0 для подбора по бюджету итераций (получено %f)",
			c.Alpha,
		)
	}
	if c.Penalty < 0 {
		return fmt.Errorf(
			"Penalty должно быть >= 0, 0 — вес max r + 1 (получено %d)",
			c.Penalty,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodSwap, NeighborhoodInsert:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return nil
}

// budget — общее число итераций для экземпляра.
func (c Config) budget(inst *machine.Instance) int {
	if c.Iterations > 0 {
		return c.Iterations
	}
	return c.IterationsPerJob * inst.N()
}

// cooling возвращает начальную и конечную температуры и коэффициент охлаждения.
// Нулевые времена обработки не обнуляют температуру: mean(p) берётся не меньше 1.
func (c Config) cooling(inst *machine.Instance, iters int) (t0, tmin, alpha float64) {
	sum := 0
	for _, j := range inst.Jobs {
		sum += j.Proc
	}
	mean := 1.0
	if n := inst.N(); n > 0 {
		mean = max(float64(sum)/float64(n), 1)
	}
	t0 = c.TempScale * mean
	tmin = t0 * c.FinalRatio

	alpha = c.Alpha
	if alpha == 0 {
		alpha = math.Pow(c.FinalRatio, 1/float64(max(iters, 1)))
	}
	return t0, tmin, alpha
}

// penalty возвращает вес опоздания для экземпляра.
func (c Config) penalty(inst *machine.Instance) int {
	if c.Penalty > 0 {
		return c.Penalty
	}
	return inst.LatenessWeight()
}
