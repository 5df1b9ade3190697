package bitqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPushBackPopFrontOrder(t *testing.T) {
	q := New()
	bits := []bool{true, false, false, true, true, false}
	for _, b := range bits {
		q.PushBack(b)
	}
	require.Equal(t, len(bits), q.Len())
	for _, want := range bits {
		got, ok := q.PopFront()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, q.Len())
}

func TestPopBackOrder(t *testing.T) {
	q := New()
	for _, b := range []bool{true, false, true} {
		q.PushBack(b)
	}
	got, ok := q.PopBack()
	require.True(t, ok)
	assert.Equal(t, true, got)
	got, ok = q.PopBack()
	require.True(t, ok)
	assert.Equal(t, false, got)
}

func TestPopFromEmptyReturnsFalse(t *testing.T) {
	q := New()
	_, ok := q.PopFront()
	assert.False(t, ok)
	_, ok = q.PopBack()
	assert.False(t, ok)
}

func TestSpansMultipleBlocks(t *testing.T) {
	q := New()
	const n = bitsPerBlock*3 + 17
	for i := 0; i < n; i++ {
		q.PushBack(i%3 == 0)
	}
	require.Equal(t, n, q.Len())
	for i := 0; i < n; i++ {
		got, ok := q.Get(i)
		require.True(t, ok)
		assert.Equal(t, i%3 == 0, got)
	}
}

func TestDrainRangeFromFront(t *testing.T) {
	q := New()
	bits := []bool{true, true, false, false, true, false, true, true}
	for _, b := range bits {
		q.PushBack(b)
	}
	drained := q.DrainRange(0, 5)
	assert.Equal(t, bits[:5], drained)
	assert.Equal(t, 3, q.Len())
	for i, want := range bits[5:] {
		got, ok := q.Get(i)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestClearResetsAllCounters(t *testing.T) {
	q := New()
	for i := 0; i < 1200; i++ {
		q.PushBack(true)
	}
	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.frontOffset)
	assert.Equal(t, 0, q.backUsed)
	assert.Nil(t, q.blocks)
}

// TestRapidPushPopMatchesSliceModel checks the queue against a plain slice
// model under arbitrary sequences of push/pop operations.
func TestRapidPushPopMatchesSliceModel(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		q := New()
		var model []bool

		ops := rapid.IntRange(1, 300).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				bit := rapid.Bool().Draw(rt, "bit")
				q.PushBack(bit)
				model = append(model, bit)
			case 1:
				if len(model) == 0 {
					continue
				}
				got, ok := q.PopFront()
				require.True(rt, ok)
				assert.Equal(rt, model[0], got)
				model = model[1:]
			case 2:
				if len(model) == 0 {
					continue
				}
				got, ok := q.PopBack()
				require.True(rt, ok)
				assert.Equal(rt, model[len(model)-1], got)
				model = model[:len(model)-1]
			case 3:
				if len(model) == 0 {
					continue
				}
				start := rapid.IntRange(0, len(model)-1).Draw(rt, "start")
				end := rapid.IntRange(start, len(model)).Draw(rt, "end")
				drained := q.DrainRange(start, end)
				assert.Equal(rt, model[start:end], drained)
				model = append(model[:start:start], model[end:]...)
			}
			require.Equal(rt, len(model), q.Len())
		}
	})
}
