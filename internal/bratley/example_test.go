package bratley_test

import (
	"context"
	"fmt"

	"singleMachine/internal/bratley"
	"singleMachine/internal/machine"
)

func ExampleSolver_Solve() {
	inst, _ := machine.NewInstance([]machine.Job{
		{Proc: 2, Release: 0, Deadline: 5},
		{Proc: 3, Release: 1, Deadline: 6},
	})
	s, _ := bratley.New(bratley.DefaultConfig())
	res, _ := s.Solve(context.Background(), inst)
	sched, _ := res.Schedule(inst)

	fmt.Println(res.Permutation, res.Makespan, sched.Start)
	// Output: [0 1] 5 [0 2]
}
