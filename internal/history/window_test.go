package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowNeverExceedsCap(t *testing.T) {
	w := NewWindow[int](5)
	for i := 0; i < 23; i++ {
		w.Push(i)
		require.LessOrEqual(t, w.Len(), w.Cap())
	}
	assert.Equal(t, []int{18, 19, 20, 21, 22}, w.Values())
}

func TestWindowEvictsOldest(t *testing.T) {
	w := NewWindow[int](3)
	for i := 1; i <= 3; i++ {
		_, ok := w.Push(i)
		require.False(t, ok)
	}

	evicted, ok := w.Push(4)
	require.True(t, ok)
	assert.Equal(t, 1, evicted)

	evicted, ok = w.Push(5)
	require.True(t, ok)
	assert.Equal(t, 2, evicted)

	oldest, _ := w.Oldest()
	newest, _ := w.Newest()
	assert.Equal(t, 3, oldest)
	assert.Equal(t, 5, newest)
}

func TestWindowLast(t *testing.T) {
	w := NewWindow[int](4)
	assert.Nil(t, w.Last(3))

	w.Push(1)
	w.Push(2)
	assert.Equal(t, []int{1, 2}, w.Last(10))

	for i := 3; i <= 7; i++ {
		w.Push(i)
	}
	assert.Equal(t, []int{6, 7}, w.Last(2))
	assert.Equal(t, []int{4, 5, 6, 7}, w.Last(4))
}

func TestWindowEachOrder(t *testing.T) {
	w := NewWindow[int](3)
	for i := 0; i < 7; i++ {
		w.Push(i)
	}

	var got []int
	w.Each(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{4, 5, 6}, got)
	assert.Equal(t, 5, w.At(1))
	assert.Equal(t, 0, w.At(3))
}

func TestWindowEmpty(t *testing.T) {
	w := NewWindow[string](0)
	assert.Equal(t, 1, w.Cap())

	_, ok := w.Oldest()
	assert.False(t, ok)
	_, ok = w.Newest()
	assert.False(t, ok)
}

func TestStoreCaps(t *testing.T) {
	s := NewStore(0, 0)
	for i := 0; i < 500; i++ {
		s.PushBook(BookSample{TimestampMs: uint64(i)})
		s.PushTrade(TradeSample{TimestampMs: uint64(i)})
	}
	require.Equal(t, DefaultBookCapacity, s.Books.Len())
	require.Equal(t, DefaultTradeCapacity, s.Trades.Len())

	oldestBook, _ := s.Books.Oldest()
	oldestTrade, _ := s.Trades.Oldest()
	assert.Equal(t, uint64(500-DefaultBookCapacity), oldestBook.TimestampMs)
	assert.Equal(t, uint64(500-DefaultTradeCapacity), oldestTrade.TimestampMs)
}
