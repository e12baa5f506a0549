package domain

import "math"

type PerformanceGrade string

const (
	GradeExcellent        PerformanceGrade = "Excellent"
	GradeGood             PerformanceGrade = "Good"
	GradeNeedsImprovement PerformanceGrade = "Needs Improvement"
)

// Umbrales de la política de calificación.
const (
	ExcellentROIThreshold = 500.0
	GoodROIThreshold      = 200.0
)

// Metrics agrega la colección completa. Se recalcula siempre, nunca se guarda.
type Metrics struct {
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalTimeTaken    float64          `json:"totalTimeTaken"`
	TimeEfficiencyPct float64          `json:"timeEfficiencyPct"`
	RevenuePerHour    float64          `json:"revenuePerHour"`
	AverageROI        float64          `json:"averageROI"`
	PerformanceGrade  PerformanceGrade `json:"performanceGrade"`
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round2 redondea a 2 decimales con medio hacia +infinito.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ComputeROI devuelve revenue/timeTaken redondeado a 2 decimales, o nil si
// alguna entrada no es finita, timeTaken <= 0 o la división no es finita.
func ComputeROI(revenue, timeTaken float64) *float64 {
	if !finite(revenue) || !finite(timeTaken) || timeTaken <= 0 {
		return nil
	}
	roi := round2(revenue / timeTaken)
	if !finite(roi) {
		return nil
	}
	return &roi
}

// ComputePriorityWeight: High=3, Medium=2, cualquier otro valor=1.
func ComputePriorityWeight(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

func ComputeTotalRevenue(tasks []Task) float64 {
	total := 0.0
	for _, t := range tasks {
		if t.Status == TaskDone {
			total += t.Revenue
		}
	}
	return total
}

func ComputeTotalTimeTaken(tasks []Task) float64 {
	total := 0.0
	for _, t := range tasks {
		total += t.TimeTaken
	}
	return total
}

// ComputeTimeEfficiency es el porcentaje de tareas en Done; 0 si no hay tareas.
func ComputeTimeEfficiency(tasks []Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == TaskDone {
			done++
		}
	}
	return 100 * float64(done) / float64(len(tasks))
}

func ComputeRevenuePerHour(tasks []Task) float64 {
	totalTime := ComputeTotalTimeTaken(tasks)
	if totalTime == 0 {
		return 0
	}
	return ComputeTotalRevenue(tasks) / totalTime
}

// ComputeAverageROI promedia solo los ROI finitos; 0 si no hay ninguno.
func ComputeAverageROI(tasks []Task) float64 {
	sum, n := 0.0, 0
	for _, t := range tasks {
		if roi := ComputeROI(t.Revenue, t.TimeTaken); roi != nil {
			sum += *roi
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func ComputePerformanceGrade(avgROI float64) PerformanceGrade {
	switch {
	case avgROI > ExcellentROIThreshold:
		return GradeExcellent
	case avgROI >= GoodROIThreshold:
		return GradeGood
	default:
		return GradeNeedsImprovement
	}
}

// ComputeMetrics junta todas las métricas agregadas de la colección.
func ComputeMetrics(tasks []Task) Metrics {
	avg := ComputeAverageROI(tasks)
	return Metrics{
		TotalRevenue:      ComputeTotalRevenue(tasks),
		TotalTimeTaken:    ComputeTotalTimeTaken(tasks),
		TimeEfficiencyPct: ComputeTimeEfficiency(tasks),
		RevenuePerHour:    ComputeRevenuePerHour(tasks),
		AverageROI:        avg,
		PerformanceGrade:  ComputePerformanceGrade(avg),
	}
}
