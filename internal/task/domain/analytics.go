package domain

import (
	"fmt"
	"math"
	"sort"
)

// DefaultForecastHorizon es el número de semanas previstas si no se indica otro.
const DefaultForecastHorizon = 4

// pipelineWeights pondera el revenue según lo cerca que está de cerrarse.
var pipelineWeights = map[TaskStatus]float64{
	TaskTodo:       0.1,
	TaskInProgress: 0.5,
	TaskDone:       1.0,
}

// Priorities en orden de peso descendente.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type Funnel struct {
	Todo                       int     `json:"todo"`
	InProgress                 int     `json:"inProgress"`
	Done                       int     `json:"done"`
	ConversionTodoToInProgress float64 `json:"conversionTodoToInProgress"`
	ConversionInProgressToDone float64 `json:"conversionInProgressToDone"`
}

type Velocity struct {
	AvgDays    float64 `json:"avgDays"`
	MedianDays int     `json:"medianDays"`
}

type WeekBucket struct {
	Week    string  `json:"week"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type ForecastPoint struct {
	Week    string  `json:"week"`
	Revenue float64 `json:"revenue"`
}

type CohortRow struct {
	Week     string   `json:"week"`
	Priority Priority `json:"priority"`
	Revenue  float64  `json:"revenue"`
}

func ComputeFunnel(tasks []Task) Funnel {
	var f Funnel
	for _, t := range tasks {
		switch t.Status {
		case TaskTodo:
			f.Todo++
		case TaskInProgress:
			f.InProgress++
		case TaskDone:
			f.Done++
		}
	}

	if total := f.Todo + f.InProgress + f.Done; total > 0 {
		f.ConversionTodoToInProgress = float64(f.InProgress+f.Done) / float64(total)
	}
	if f.InProgress > 0 {
		f.ConversionInProgressToDone = float64(f.Done) / float64(f.InProgress)
	}
	return f
}

// ComputeVelocityByPriority mide los días de creación a cierre por prioridad.
// La mediana es la inferior en listas de longitud par (sorted[n/2]).
func ComputeVelocityByPriority(tasks []Task) map[Priority]Velocity {
	buckets := make(map[Priority][]int, len(Priorities))
	for _, t := range tasks {
		if t.CompletedAt == nil || !t.Priority.Valid() {
			continue
		}
		buckets[t.Priority] = append(buckets[t.Priority], DaysBetween(t.CreatedAt, *t.CompletedAt))
	}

	out := make(map[Priority]Velocity, len(Priorities))
	for _, p := range Priorities {
		days := buckets[p]
		if len(days) == 0 {
			out[p] = Velocity{}
			continue
		}
		sort.Ints(days)
		sum := 0
		for _, d := range days {
			sum += d
		}
		out[p] = Velocity{
			AvgDays:    float64(sum) / float64(len(days)),
			MedianDays: days[len(days)/2],
		}
	}
	return out
}

// ComputeThroughputByWeek agrupa por semana ISO de completedAt.
func ComputeThroughputByWeek(tasks []Task) []WeekBucket {
	index := make(map[string]int)
	out := []WeekBucket{}
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		key := WeekKey(*t.CompletedAt)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, WeekBucket{Week: key})
		}
		out[i].Count++
		out[i].Revenue += t.Revenue
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

func ComputeWeightedPipeline(tasks []Task) float64 {
	total := 0.0
	for _, t := range tasks {
		total += t.Revenue * pipelineWeights[t.Status]
	}
	return total
}

// ComputeForecast ajusta una regresión lineal por mínimos cuadrados del revenue
// contra el índice de semana y proyecta horizon pasos, sin bajar de 0.
func ComputeForecast(series []WeekBucket, horizon int) []ForecastPoint {
	n := len(series)
	if n < 2 || horizon <= 0 {
		return []ForecastPoint{}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, b := range series {
		x := float64(i)
		sumX += x
		sumY += b.Revenue
		sumXY += x * b.Revenue
		sumXX += x * x
	}

	nf := float64(n)
	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		denom = 1
	}
	slope := (nf*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / nf

	out := make([]ForecastPoint, 0, horizon)
	for step := 1; step <= horizon; step++ {
		idx := float64(n - 1 + step)
		out = append(out, ForecastPoint{
			Week:    fmt.Sprintf("+%d", step),
			Revenue: math.Max(0, slope*idx+intercept),
		})
	}
	return out
}

// ComputeCohortRevenue suma revenue por (semana de creación, prioridad).
// Dentro de una misma semana se respeta el orden de aparición.
func ComputeCohortRevenue(tasks []Task) []CohortRow {
	type cohortKey struct {
		week     string
		priority Priority
	}
	index := make(map[cohortKey]int)
	out := []CohortRow{}
	for _, t := range tasks {
		k := cohortKey{week: WeekKey(t.CreatedAt), priority: t.Priority}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, CohortRow{Week: k.week, Priority: k.priority})
		}
		out[i].Revenue += t.Revenue
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}
