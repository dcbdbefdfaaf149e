package routing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DedupStability(t *testing.T) {
	r := NewRegistry(DefaultTolerance)

	first := r.Register(Point{X: 15, Y: 15})
	second := r.Register(Point{X: 15, Y: 15})
	third := r.Register(Point{X: 16.5, Y: 14})

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
	assert.Equal(t, 1, r.Len())

	p, ok := r.Point(first)
	require.True(t, ok)
	assert.Equal(t, Point{X: 15, Y: 15}, p, "first registration keeps its coordinate")
}

func TestRegistry_ToleranceBoundary(t *testing.T) {
	t.Run("exactly epsilon on both axes merges", func(t *testing.T) {
		r := NewRegistry(2)
		a := r.Register(Point{X: 10, Y: 10})
		b := r.Register(Point{X: 12, Y: 12})
		assert.Equal(t, a, b)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("one axis beyond epsilon stays distinct", func(t *testing.T) {
		r := NewRegistry(2)
		a := r.Register(Point{X: 10, Y: 10})
		b := r.Register(Point{X: 12.001, Y: 10})
		c := r.Register(Point{X: 10, Y: 7.5})
		assert.NotEqual(t, a, b)
		assert.NotEqual(t, a, c)
		assert.Equal(t, 3, r.Len())
	})

	t.Run("negative coordinates", func(t *testing.T) {
		r := NewRegistry(2)
		a := r.Register(Point{X: -1, Y: -1})
		b := r.Register(Point{X: 1, Y: 1})
		assert.Equal(t, a, b)
	})
}

func TestRegistry_NoRecentering(t *testing.T) {
	r := NewRegistry(2)
	a := r.Register(Point{X: 0, Y: 0})
	// matches a, but a does not drift toward it
	require.Equal(t, a, r.Register(Point{X: 2, Y: 0}))
	b := r.Register(Point{X: 3, Y: 0})
	assert.NotEqual(t, a, b)
	p, _ := r.Point(a)
	assert.Equal(t, Point{}, p)
}

func TestRegistry_FirstCreatedWins(t *testing.T) {
	r := NewRegistry(2)
	a := r.Register(Point{X: 0, Y: 0})
	b := r.Register(Point{X: 3, Y: 0})
	require.NotEqual(t, a, b)

	// 1.5 is within tolerance of both; the older node is chosen
	assert.Equal(t, a, r.Register(Point{X: 1.5, Y: 0}))
}

func TestRegistry_SequentialIDs(t *testing.T) {
	r := NewRegistry(2)
	for i := 0; i < 5; i++ {
		id := r.Register(Point{X: float64(i * 10), Y: 0})
		assert.Equal(t, NodeID(i), id)
	}
}

func TestRegistry_ZeroTolerance(t *testing.T) {
	r := NewRegistry(0)
	a := r.Register(Point{X: 1, Y: 1})
	assert.Equal(t, a, r.Register(Point{X: 1, Y: 1}))
	assert.NotEqual(t, a, r.Register(Point{X: 1.0001, Y: 1}))
}

func TestRegistry_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry(DefaultTolerance)
	var linear []Point

	linearRegister := func(p Point) NodeID {
		for i, q := range linear {
			if abs(q.X-p.X) <= DefaultTolerance && abs(q.Y-p.Y) <= DefaultTolerance {
				return NodeID(i)
			}
		}
		linear = append(linear, p)
		return NodeID(len(linear) - 1)
	}

	for i := 0; i < 2000; i++ {
		p := Point{
			X: float64(rng.Intn(200)) + rng.Float64()*2 - 100,
			Y: float64(rng.Intn(200)) + rng.Float64()*2 - 100,
		}
		require.Equal(t, linearRegister(p), r.Register(p), "point %d %+v", i, p)
	}
	assert.Equal(t, len(linear), r.Len())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
