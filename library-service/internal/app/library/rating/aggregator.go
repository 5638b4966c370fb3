// Package rating сворачивает новые оценки в денормализованный агрегат книги
// (сумма, количество, гистограмма по звездам) без перечитывания всех отзывов.
package rating

import (
	"errors"
	"math"
	"strconv"
)

var (
	// ErrInvalidStars - оценка вне диапазона 1..5, агрегат не меняется
	ErrInvalidStars = errors.New("star rating must be between 1 and 5")
	// ErrNoPriorRating - замена невозможна: за указанной звездой не числится вклада
	ErrNoPriorRating = errors.New("no prior rating recorded for the given star value")
)

// Aggregate сводка рейтинга книги.
// Хранится целочисленная сумма оценок: среднее выводится только для отображения
// и никогда не участвует в дальнейшей арифметике, чтобы не копить дрейф float
type Aggregate struct {
	Sum       int
	Count     int
	Histogram map[string]int
}

// Average среднее значение рейтинга в диапазоне [0, 5]
func (a Aggregate) Average() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}

// FromStored восстанавливает агрегат из документа, где суммы нет,
// а есть только среднее: sum = round(avg * count). Путь миграции для
// старых документов, записанных до появления поля ratingSum
func FromStored(average float64, count int, histogram map[string]int) Aggregate {
	return Aggregate{
		Sum:       int(math.Round(average * float64(count))),
		Count:     count,
		Histogram: cloneHistogram(histogram),
	}
}

// Bucket ключ корзины гистограммы для значения звезды
func Bucket(stars int) string {
	return strconv.Itoa(stars)
}

// Apply сворачивает одну новую оценку в агрегат (режим добавления).
// Возвращает новый агрегат, вход не модифицируется
func Apply(current Aggregate, stars int) (Aggregate, error) {
	if stars < 1 || stars > 5 {
		return Aggregate{}, ErrInvalidStars
	}

	next := clone(current)
	next.Sum += stars
	next.Count++
	next.Histogram[Bucket(stars)]++

	return next, nil
}

// Replace заменяет прежний вклад пользователя новой оценкой:
// сначала снимается старый вклад, затем новая оценка добавляется как свежая
func Replace(current Aggregate, oldStars, newStars int) (Aggregate, error) {
	if oldStars < 1 || oldStars > 5 || newStars < 1 || newStars > 5 {
		return Aggregate{}, ErrInvalidStars
	}
	if current.Count == 0 || current.Histogram[Bucket(oldStars)] == 0 {
		return Aggregate{}, ErrNoPriorRating
	}

	next := clone(current)
	next.Sum -= oldStars
	next.Count--
	next.Histogram[Bucket(oldStars)]--
	if next.Histogram[Bucket(oldStars)] == 0 {
		delete(next.Histogram, Bucket(oldStars))
	}

	return Apply(next, newStars)
}

// Delta покомпонентное изменение агрегата для атомарного инкремента
// на стороне хранилища ($inc по полям вместо read-modify-write документа)
type Delta struct {
	Sum     int
	Count   int
	Buckets map[string]int
}

// IsZero true если дельта ничего не меняет
func (d Delta) IsZero() bool {
	if d.Sum != 0 || d.Count != 0 {
		return false
	}
	for _, inc := range d.Buckets {
		if inc != 0 {
			return false
		}
	}
	return true
}

// AddDelta дельта для новой оценки
func AddDelta(stars int) (Delta, error) {
	if stars < 1 || stars > 5 {
		return Delta{}, ErrInvalidStars
	}

	return Delta{
		Sum:     stars,
		Count:   1,
		Buckets: map[string]int{Bucket(stars): 1},
	}, nil
}

// ReplaceDelta дельта для замены прежней оценки новой.
// Количество отзывов не меняется; при oldStars == newStars дельта нулевая
func ReplaceDelta(oldStars, newStars int) (Delta, error) {
	if oldStars < 1 || oldStars > 5 || newStars < 1 || newStars > 5 {
		return Delta{}, ErrInvalidStars
	}

	if oldStars == newStars {
		return Delta{Buckets: map[string]int{}}, nil
	}

	return Delta{
		Sum:   newStars - oldStars,
		Count: 0,
		Buckets: map[string]int{
			Bucket(oldStars): -1,
			Bucket(newStars): 1,
		},
	}, nil
}

func clone(a Aggregate) Aggregate {
	return Aggregate{
		Sum:       a.Sum,
		Count:     a.Count,
		Histogram: cloneHistogram(a.Histogram),
	}
}

func cloneHistogram(histogram map[string]int) map[string]int {
	next := make(map[string]int, len(histogram))
	for bucket, count := range histogram {
		next[bucket] = count
	}
	return next
}
