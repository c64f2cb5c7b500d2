package machine

import (
	"fmt"
	"sort"
)

func ValidatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("permutation length must be %d (got %d)", n, len(perm))
	}
	seen := make([]bool, n)
	for i, v := range perm {
		if v < 0 || v >= n {
			return fmt.Errorf("perm[%d]=%d out of range [0,%d)", i, v, n)
		}
		if seen[v] {
			return fmt.Errorf("duplicate job id %d in permutation", v)
		}
		seen[v] = true
	}
	return nil
}

// Identity заполняет p значениями [0, 1, ..., n-1].
func Identity(p []int) {
	for i := range p {
		p[i] = i
	}
}

// EDD заполняет p порядком по неубыванию директивных сроков, при равенстве — по времени готовности.
func EDD(p []int, inst *Instance) {
	Identity(p)
	sort.SliceStable(p, func(a, b int) bool {
		ja, jb := inst.Jobs[p[a]], inst.Jobs[p[b]]
		if ja.Deadline != jb.Deadline {
			return ja.Deadline < jb.Deadline
		}
		return ja.Release < jb.Release
	})
}
