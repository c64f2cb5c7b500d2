package machine

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidInstance оборачивает все ошибки валидации экземпляра.
var ErrInvalidInstance = errors.New("invalid instance")

// Job — одна работа задачи 1|r,d|Cmax.
type Job struct {
	Proc     int // время обработки p
	Release  int // время готовности r
	Deadline int // директивный срок d
}

// Instance — неизменяемый набор работ. Индекс работы в Jobs является её идентификатором.
type Instance struct {
	Jobs []Job
}

func NewInstance(jobs []Job) (*Instance, error) {
	cp := make([]Job, len(jobs))
	copy(cp, jobs)
	inst := &Instance{Jobs: cp}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Validate проверяет только то, что можно проверить синтаксически.
// Работы с d < r+p допустимы: для них просто не найдётся допустимого расписания.
func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: instance is nil", ErrInvalidInstance)
	}
	for i, j := range inst.Jobs {
		if j.Proc < 0 {
			return fmt.Errorf("%w: jobs[%d].proc must be >= 0 (got %d)", ErrInvalidInstance, i, j.Proc)
		}
		if j.Release < 0 {
			return fmt.Errorf("%w: jobs[%d].release must be >= 0 (got %d)", ErrInvalidInstance, i, j.Release)
		}
	}
	return nil
}

func (inst *Instance) N() int { return len(inst.Jobs) }

func (inst *Instance) Job(i int) Job { return inst.Jobs[i] }

// LatenessWeight — наименьший вес опоздания, при котором makespan + w × опоздание
// любого допустимого порядка меньше, чем у любого недопустимого: makespan допустимого
// не больше max r + sum p, makespan любого порядка не меньше sum p, опоздание
// недопустимого не меньше 1.
func (inst *Instance) LatenessWeight() int {
	maxRelease := 0
	for _, j := range inst.Jobs {
		maxRelease = max(maxRelease, j.Release)
	}
	return maxRelease + 1
}

// GenParams задаёт диапазоны для генератора случайных экземпляров.
// Директивный срок строится как r + p + slack, где slack ∈ [0, MaxSlack].
type GenParams struct {
	MinProc, MaxProc int
	MaxRelease       int
	MaxSlack         int
}

func DefaultGenParams(jobs int) GenParams {
	return GenParams{
		MinProc:    1,
		MaxProc:    20,
		MaxRelease: 10 * jobs,
		MaxSlack:   15 * jobs,
	}
}

func RandomInstance(jobs int, gp GenParams, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if gp.MinProc < 0 || gp.MaxProc < gp.MinProc || gp.MaxRelease < 0 || gp.MaxSlack < 0 {
		panic("invalid generator bounds")
	}
	js := make([]Job, jobs)
	for i := range js {
		p := gp.MinProc + rng.Intn(gp.MaxProc-gp.MinProc+1)
		r := rng.Intn(gp.MaxRelease + 1)
		js[i] = Job{
			Proc:     p,
			Release:  r,
			Deadline: r + p + rng.Intn(gp.MaxSlack+1),
		}
	}
	inst, err := NewInstance(js)
	if err != nil {
		panic(err)
	}
	return inst
}
