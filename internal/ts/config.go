package ts

import "fmt"

// Neighborhood определяет тип окрестности.
type Neighborhood string

const (
	NeighborhoodInsert Neighborhood = "insert"
	NeighborhoodSwap   Neighborhood = "swap"
)

type Config struct {
	Iterations       int
	IterationsPerJob int

	// TabuTenure — базовый срок запрета обратного хода в итерациях. Фактический срок
	// не превышает половины числа различных ходов n(n-1), иначе на малых n
	// запрещённой оказывается вся окрестность.
	TabuTenure     int
	TabuTenureRand int

	// NeighborsPerIter — число случайных соседей за итерацию. Если окрестность
	// не больше этого числа, она просматривается целиком и детерминированно.
	NeighborsPerIter int

	Neighborhood Neighborhood

	// Penalty — вес суммарного опоздания; 0 — Instance.LatenessWeight.
	Penalty int
}

func DefaultConfig() Config {
	return Config{
		Iterations:       0,
		IterationsPerJob: 100,

		TabuTenure:     7,
		TabuTenureRand: 3,

		NeighborsPerIter: 60,
		Neighborhood:     NeighborhoodInsert,
		Penalty:          0,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerJob <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerJob > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
		)
	}
	if c.Penalty < 0 {
		return fmt.Errorf(
			"Penalty должно быть >= 0, 0 — вес max r + 1 (получено %d)",
			c.Penalty,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodInsert, NeighborhoodSwap:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return nil
}
