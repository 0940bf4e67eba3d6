package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PanicsOnZeroState(t *testing.T) {
	assert.Panics(t, func() { New([4]uint32{}) })
	assert.Panics(t, func() { FromSeed(0) })
	assert.NotPanics(t, func() { New([4]uint32{0, 0, 0, 1}) })
}

func TestNext_KnownVectors(t *testing.T) {
	g := New([4]uint32{1, 2, 3, 4})

	want := []uint32{11520, 0, 1509978240, 283155840, 4058029980, 3920867100}
	for i, w := range want {
		assert.Equal(t, w, g.Next(), "output %d", i)
	}
	assert.Equal(t, [4]uint32{3529773709, 342512389, 3395563527, 1345448897}, g.State())
}

func TestNext_SameSeedSameSequence(t *testing.T) {
	seeds := [][4]uint32{
		{1, 0, 0, 0},
		{0xdeadbeef, 1, 2, 3},
		{42, 42, 42, 42},
		{0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff},
	}

	for _, seed := range seeds {
		a := New(seed)
		b := New(seed)
		for i := 0; i < 1000; i++ {
			require.Equal(t, a.Next(), b.Next(), "seed %v diverged at draw %d", seed, i)
		}
	}
}

func TestNext_StateNeverCollapses(t *testing.T) {
	g := New([4]uint32{0, 0, 0, 1})
	for i := 0; i < 10000; i++ {
		g.Next()
		require.NotEqual(t, [4]uint32{}, g.State(), "state collapsed at draw %d", i)
	}
}

func TestFromSeed_ReplicatesWord(t *testing.T) {
	g := FromSeed(42)
	assert.Equal(t, [4]uint32{42, 42, 42, 42}, g.State())

	want := []uint32{241920, 241920, 1644167168, 1644409088, 1981808640, 1981867140}
	for i, w := range want {
		assert.Equal(t, w, g.Next(), "output %d", i)
	}
}

func TestNextFloat_Range(t *testing.T) {
	g := FromSeed(7)

	first := g.NextFloat(-700, 700)
	assert.InDelta(t, -699.986857175824, first, 1e-9)

	for i := 0; i < 10000; i++ {
		f := g.NextFloat(-700, 700)
		require.GreaterOrEqual(t, f, -700.0)
		require.LessOrEqual(t, f, 700.0)
	}
}

func TestNextFloat_DegenerateRange(t *testing.T) {
	g := FromSeed(9)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 3.5, g.NextFloat(3.5, 3.5))
	}
}

func TestIntN(t *testing.T) {
	g := FromSeed(7)
	want := []int{0, 0, 2, 2, 0, 0, 0, 5}
	for i, w := range want {
		assert.Equal(t, w, g.IntN(10), "draw %d", i)
	}

	counts := make([]int, 6)
	for i := 0; i < 60000; i++ {
		n := g.IntN(6)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 6)
		counts[n]++
	}
	for i, c := range counts {
		assert.InDelta(t, 10000, c, 600, "bucket %d is skewed", i)
	}

	assert.Panics(t, func() { g.IntN(0) })
}
