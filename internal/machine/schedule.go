package machine

// Schedule — времена начала работ, индексированные исходным идентификатором работы.
// Infeasible отличает «решения нет» от пустого (n = 0) или нулевого расписания.
type Schedule struct {
	Start      []int
	Infeasible bool
}

// InfeasibleSchedule — сентинел «допустимого расписания не существует».
func InfeasibleSchedule() Schedule {
	return Schedule{Infeasible: true}
}

// Reconstruct переводит порядок работ во времена начала.
// found == false означает, что поиск не записал ни одного допустимого листа.
func Reconstruct(inst *Instance, perm []int, found bool) (Schedule, error) {
	if !found {
		return InfeasibleSchedule(), nil
	}
	if err := inst.Validate(); err != nil {
		return Schedule{}, err
	}
	if err := ValidatePermutation(perm, inst.N()); err != nil {
		return Schedule{}, err
	}

	start := make([]int, inst.N())
	free := 0
	for _, id := range perm {
		j := inst.Jobs[id]
		s := max(free, j.Release)
		start[id] = s
		free = s + j.Proc
	}
	return Schedule{Start: start}, nil
}

// Makespan возвращает время завершения последней работы расписания.
func (s Schedule) Makespan(inst *Instance) int {
	ms := 0
	for id, st := range s.Start {
		ms = max(ms, st+inst.Jobs[id].Proc)
	}
	return ms
}

// Check проверяет, что каждая работа начинается не раньше r и завершается не позже d,
// и что работы не перекрываются на машине. Возвращает индекс первой нарушившей работы или -1.
func (s Schedule) Check(inst *Instance) int {
	if s.Infeasible {
		return -1
	}
	for id, st := range s.Start {
		j := inst.Jobs[id]
		if st < j.Release || st+j.Proc > j.Deadline {
			return id
		}
	}
	for a := range s.Start {
		for b := a + 1; b < len(s.Start); b++ {
			ea := s.Start[a] + inst.Jobs[a].Proc
			eb := s.Start[b] + inst.Jobs[b].Proc
			if inst.Jobs[a].Proc > 0 && inst.Jobs[b].Proc > 0 && s.Start[a] < eb && s.Start[b] < ea {
				return b
			}
		}
	}
	return -1
}
