package workday_test

import (
	"testing"
	"time"

	"go-leave/internal/shared/workday"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := workday.Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCountBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     int
	}{
		{"single weekday", "2024-01-01", "2024-01-01", 1},
		{"single saturday", "2024-01-06", "2024-01-06", 0},
		{"full week", "2024-01-01", "2024-01-07", 5},
		{"friday to monday", "2024-01-05", "2024-01-08", 2},
		{"two weeks", "2024-01-01", "2024-01-14", 10},
		{"reversed range", "2024-01-08", "2024-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, workday.CountBetween(day(tt.from), day(tt.to)))
		})
	}
}

func TestCountAndSorted(t *testing.T) {
	dates := []time.Time{day("2024-01-06"), day("2024-01-01"), day("2024-01-02")}

	assert.Equal(t, 2, workday.Count(dates))

	sorted := workday.Sorted(dates)
	assert.Equal(t, "2024-01-01", sorted[0].Format(workday.DateLayout))
	assert.Equal(t, "2024-01-06", sorted[2].Format(workday.DateLayout))
	// input untouched
	assert.Equal(t, "2024-01-06", dates[0].Format(workday.DateLayout))
}
