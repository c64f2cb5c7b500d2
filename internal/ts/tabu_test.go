package ts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTabuList(t *testing.T) {
	tl := newTabuList(8)
	k := moveKey(3, 1)
	tl.Add(k, 5)
	require.True(t, tl.IsTabu(k, 4))
	require.False(t, tl.IsTabu(k, 5))
	require.False(t, tl.IsTabu(moveKey(1, 3), 0))

	// Буфер на 8 записей: девятая вытесняет первую.
	for i := 0; i < 8; i++ {
		tl.Add(moveKey(10+i, 0), 100)
	}
	require.False(t, tl.IsTabu(k, 0))
	require.True(t, tl.IsTabu(moveKey(17, 0), 50))
}

func TestApplyInsert(t *testing.T) {
	p := []int{0, 1, 2, 3}
	applyInsert(p, 0, 2)
	require.Equal(t, []int{1, 2, 0, 3}, p)
	applyInsert(p, 3, 0)
	require.Equal(t, []int{3, 1, 2, 0}, p)
}

func TestMoveKeyNonZero(t *testing.T) {
	require.NotZero(t, moveKey(0, 0))
	require.NotEqual(t, moveKey(0, 1), moveKey(1, 0))
}
