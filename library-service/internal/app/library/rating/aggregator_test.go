package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramTotal(histogram map[string]int) int {
	total := 0
	for _, count := range histogram {
		total += count
	}
	return total
}

func TestApply_EmptyAggregate(t *testing.T) {
	result, err := Apply(Aggregate{Histogram: map[string]int{}}, 5)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 5, result.Sum)
	assert.InDelta(t, 5.0, result.Average(), 1e-9)
	assert.Equal(t, map[string]int{"5": 1}, result.Histogram)
}

func TestApply_ConcreteScenario(t *testing.T) {
	// avg 4.0 по 3 отзывам, добавляется оценка 2 -> avg 3.5 по 4 отзывам
	current := FromStored(4.0, 3, map[string]int{"4": 2, "5": 1})
	require.Equal(t, 12, current.Sum)

	result, err := Apply(current, 2)

	require.NoError(t, err)
	assert.Equal(t, 4, result.Count)
	assert.InDelta(t, 3.5, result.Average(), 1e-9)
	assert.Equal(t, map[string]int{"2": 1, "4": 2, "5": 1}, result.Histogram)
}

func TestApply_HistogramSumMatchesCount(t *testing.T) {
	current := Aggregate{Histogram: map[string]int{}}

	for _, stars := range []int{1, 3, 3, 5, 2, 4, 5, 5} {
		next, err := Apply(current, stars)
		require.NoError(t, err)

		assert.Equal(t, current.Count+1, next.Count)
		assert.Equal(t, next.Count, histogramTotal(next.Histogram))
		assert.GreaterOrEqual(t, next.Average(), 1.0)
		assert.LessOrEqual(t, next.Average(), 5.0)

		current = next
	}
}

func TestApply_NotIdempotent(t *testing.T) {
	// Каждый вызов - отдельная новая оценка, а не повтор той же
	first, err := Apply(Aggregate{Histogram: map[string]int{}}, 4)
	require.NoError(t, err)
	second, err := Apply(first, 4)
	require.NoError(t, err)

	assert.Equal(t, 2, second.Count)
	assert.Equal(t, map[string]int{"4": 2}, second.Histogram)
}

func TestApply_InvalidStars(t *testing.T) {
	current := FromStored(4.0, 3, map[string]int{"4": 2, "5": 1})

	for _, stars := range []int{0, 6, -1, 100} {
		_, err := Apply(current, stars)
		assert.ErrorIs(t, err, ErrInvalidStars)
	}

	// Вход не тронут
	assert.Equal(t, 12, current.Sum)
	assert.Equal(t, 3, current.Count)
	assert.Equal(t, map[string]int{"4": 2, "5": 1}, current.Histogram)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	current := Aggregate{Sum: 9, Count: 2, Histogram: map[string]int{"4": 1, "5": 1}}

	_, err := Apply(current, 3)
	require.NoError(t, err)

	assert.Equal(t, 9, current.Sum)
	assert.Equal(t, 2, current.Count)
	assert.Equal(t, map[string]int{"4": 1, "5": 1}, current.Histogram)
}

func TestReplace_SameStarsRoundTrip(t *testing.T) {
	current := Aggregate{Sum: 10, Count: 3, Histogram: map[string]int{"3": 2, "4": 1}}

	result, err := Replace(current, 3, 3)

	require.NoError(t, err)
	assert.Equal(t, current.Sum, result.Sum)
	assert.Equal(t, current.Count, result.Count)
	assert.Equal(t, current.Histogram, result.Histogram)
}

func TestReplace_MovesContributionBetweenBuckets(t *testing.T) {
	current := Aggregate{Sum: 10, Count: 3, Histogram: map[string]int{"3": 2, "4": 1}}

	result, err := Replace(current, 3, 5)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Count, "replace must not inflate the review count")
	assert.Equal(t, 12, result.Sum)
	assert.Equal(t, map[string]int{"3": 1, "4": 1, "5": 1}, result.Histogram)
	assert.Equal(t, result.Count, histogramTotal(result.Histogram))
}

func TestReplace_RemovesEmptiedBucket(t *testing.T) {
	current := Aggregate{Sum: 7, Count: 2, Histogram: map[string]int{"3": 1, "4": 1}}

	result, err := Replace(current, 3, 1)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 1, "4": 1}, result.Histogram)
}

func TestReplace_NoPriorRating(t *testing.T) {
	current := Aggregate{Sum: 5, Count: 1, Histogram: map[string]int{"5": 1}}

	_, err := Replace(current, 3, 4)
	assert.ErrorIs(t, err, ErrNoPriorRating)

	_, err = Replace(Aggregate{Histogram: map[string]int{}}, 3, 4)
	assert.ErrorIs(t, err, ErrNoPriorRating)
}

func TestReplace_InvalidStars(t *testing.T) {
	current := Aggregate{Sum: 5, Count: 1, Histogram: map[string]int{"5": 1}}

	_, err := Replace(current, 0, 4)
	assert.ErrorIs(t, err, ErrInvalidStars)

	_, err = Replace(current, 5, 6)
	assert.ErrorIs(t, err, ErrInvalidStars)
}

func TestFromStored_ReconstructsIntegerSum(t *testing.T) {
	// 3.6667 * 3 = 11.0001 -> 11
	aggregate := FromStored(3.6667, 3, map[string]int{"3": 1, "4": 2})

	assert.Equal(t, 11, aggregate.Sum)
	assert.Equal(t, 3, aggregate.Count)
}

func TestAddDelta(t *testing.T) {
	delta, err := AddDelta(4)

	require.NoError(t, err)
	assert.Equal(t, 4, delta.Sum)
	assert.Equal(t, 1, delta.Count)
	assert.Equal(t, map[string]int{"4": 1}, delta.Buckets)

	_, err = AddDelta(0)
	assert.ErrorIs(t, err, ErrInvalidStars)
}

func TestReplaceDelta(t *testing.T) {
	delta, err := ReplaceDelta(2, 5)

	require.NoError(t, err)
	assert.Equal(t, 3, delta.Sum)
	assert.Equal(t, 0, delta.Count)
	assert.Equal(t, map[string]int{"2": -1, "5": 1}, delta.Buckets)
}

func TestReplaceDelta_SameStarsIsZero(t *testing.T) {
	delta, err := ReplaceDelta(3, 3)

	require.NoError(t, err)
	assert.True(t, delta.IsZero())
}

func TestAverage_EmptyAggregate(t *testing.T) {
	assert.Equal(t, 0.0, Aggregate{}.Average())
}
