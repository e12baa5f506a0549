package domain

import (
	"fmt"
	"math"
	"time"
)

const dayMillis = 24 * 60 * 60 * 1000

// DaysBetween devuelve los días enteros entre a y b, nunca negativo.
func DaysBetween(a, b time.Time) int {
	diff := float64(b.Sub(a).Milliseconds()) / dayMillis
	days := int(math.Floor(diff + 0.5))
	if days < 0 {
		return 0
	}
	return days
}

// WeekKey formatea la semana ISO-8601 (en UTC) como "2024-W07".
// La semana va con cero a la izquierda para que el orden lexicográfico sea cronológico.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
