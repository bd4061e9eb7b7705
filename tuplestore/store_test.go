package tuplestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *Store) ([][]int32, [][]float64) {
	t.Helper()

	var keys [][]int32
	var values [][]float64
	s.Iterate(func(k []int32, v []float64) bool {
		keys = append(keys, append([]int32(nil), k...))
		values = append(values, append([]float64(nil), v...))
		return true
	})

	return keys, values
}

func TestAddAppendsInInsertionOrder(t *testing.T) {
	s := New(2, 1)

	s.Add([]int32{3, 1}, []float64{30})
	s.Add([]int32{1, 1}, []float64{10})
	s.Add([]int32{2, 1}, []float64{20})

	require.Equal(t, 3, s.Count())

	keys, values := collect(t, s)
	require.Equal(t, [][]int32{{3, 1}, {1, 1}, {2, 1}}, keys)
	require.Equal(t, [][]float64{{30}, {10}, {20}}, values)
}

func TestGetReturnsIndependentCopies(t *testing.T) {
	s := New(2, 1)
	s.Add([]int32{1, 2}, []float64{5})

	keys, values, release := s.Get(0)
	keys[0] = 999
	values[0] = -1
	release()

	k2, v2, release2 := s.Get(0)
	defer release2()
	require.Equal(t, []int32{1, 2}, k2)
	require.Equal(t, []float64{5}, v2)
}

func TestSortOrdersByKeyAndIsIdempotent(t *testing.T) {
	s := New(2, 1)
	s.Add([]int32{3, 1}, []float64{3})
	s.Add([]int32{1, 1}, []float64{1})
	s.Add([]int32{2, 1}, []float64{2})
	s.Add([]int32{1, 2}, []float64{4})

	s.Sort()

	keys, values := collect(t, s)
	require.Equal(t, [][]int32{{1, 1}, {1, 2}, {2, 1}, {3, 1}}, keys)
	require.Equal(t, [][]float64{{1}, {4}, {2}, {3}}, values)

	s.Sort()
	keys2, _ := collect(t, s)
	require.Equal(t, keys, keys2)
}

func TestSortOnAlreadySortedDataIsNoOp(t *testing.T) {
	s := New(1, 1)
	s.Add([]int32{1}, []float64{1})
	s.Add([]int32{2}, []float64{2})
	s.Add([]int32{3}, []float64{3})

	s.Sort()

	keys, _ := collect(t, s)
	require.Equal(t, [][]int32{{1}, {2}, {3}}, keys)
}

func TestSearchFindsExistingAndReportsInsertionPoint(t *testing.T) {
	s := New(1, 1)
	s.Add([]int32{1}, []float64{1})
	s.Add([]int32{3}, []float64{3})
	s.Add([]int32{5}, []float64{5})
	s.Sort()

	found, pos := s.Search([]int32{3})
	require.True(t, found)
	require.Equal(t, 1, pos)

	found, pos = s.Search([]int32{4})
	require.False(t, found)
	require.Equal(t, 2, pos)

	found, pos = s.Search([]int32{0})
	require.False(t, found)
	require.Equal(t, 0, pos)

	found, pos = s.Search([]int32{6})
	require.False(t, found)
	require.Equal(t, 3, pos)
}

func TestSearchOnEmptyStore(t *testing.T) {
	s := New(1, 1)
	found, pos := s.Search([]int32{1})
	require.False(t, found)
	require.Equal(t, 0, pos)
}

func TestAddUniqueMaintainsSortedOrder(t *testing.T) {
	s := New(1, 1)

	require.True(t, s.AddUnique([]int32{5}, []float64{5}))
	require.True(t, s.AddUnique([]int32{1}, []float64{1}))
	require.True(t, s.AddUnique([]int32{3}, []float64{3}))

	keys, values := collect(t, s)
	require.Equal(t, [][]int32{{1}, {3}, {5}}, keys)
	require.Equal(t, [][]float64{{1}, {3}, {5}}, values)
}

func TestAddUniqueRejectsDuplicateKey(t *testing.T) {
	s := New(2, 1)

	require.True(t, s.AddUnique([]int32{1, 1}, []float64{10}))
	require.True(t, s.AddUnique([]int32{2, 1}, []float64{20}))
	require.False(t, s.AddUnique([]int32{1, 1}, []float64{99}))

	require.Equal(t, 2, s.Count())
	_, values := collect(t, s)
	require.Equal(t, [][]float64{{10}, {20}}, values)
}

func TestAddUniqueMonotonicInsertionSequence(t *testing.T) {
	s := New(1, 1)

	for i := int32(0); i < 50; i++ {
		require.True(t, s.AddUnique([]int32{i}, []float64{float64(i)}))
	}
	require.False(t, s.AddUnique([]int32{17}, []float64{0}))

	keys, _ := collect(t, s)
	require.Len(t, keys, 50)
	for i, k := range keys {
		require.Equal(t, int32(i), k[0])
	}
}

func TestClearResetsCountAndDuplicateTracking(t *testing.T) {
	s := New(1, 1)
	s.Add([]int32{1}, []float64{1})
	s.AddUnique([]int32{2}, []float64{2})

	s.Clear()

	require.Equal(t, 0, s.Count())
	require.True(t, s.AddUnique([]int32{2}, []float64{2}))
}

func TestMemoryUsedGrowsWithRecords(t *testing.T) {
	s := New(2, 1)
	before := s.MemoryUsed()

	for i := int32(0); i < 100; i++ {
		s.Add([]int32{i, i}, []float64{float64(i)})
	}

	require.Greater(t, s.MemoryUsed(), before)
}

func TestIterateStopsEarly(t *testing.T) {
	s := New(1, 1)
	s.Add([]int32{1}, []float64{1})
	s.Add([]int32{2}, []float64{2})
	s.Add([]int32{3}, []float64{3})

	var seen int
	s.Iterate(func(k []int32, v []float64) bool {
		seen++
		return seen < 2
	})

	require.Equal(t, 2, seen)
}

func TestZeroDimensionStoreHoldsSingleScalarRecord(t *testing.T) {
	s := New(0, 1)
	s.Add(nil, []float64{42})

	require.Equal(t, 1, s.Count())
	_, values := collect(t, s)
	require.Equal(t, [][]float64{{42}}, values)
}
