package application

import (
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
)

// Analytics es todo lo que se deriva de la colección. Es una función pura de
// las tareas: mismo input, mismo output. Se trata como solo lectura.
type Analytics struct {
	Derived          []taskDomain.DerivedTask                    `json:"derived"`
	Metrics          taskDomain.Metrics                          `json:"metrics"`
	Funnel           taskDomain.Funnel                           `json:"funnel"`
	Velocity         map[taskDomain.Priority]taskDomain.Velocity `json:"velocity"`
	Throughput       []taskDomain.WeekBucket                     `json:"throughput"`
	WeightedPipeline float64                                     `json:"weightedPipeline"`
	Forecast         []taskDomain.ForecastPoint                  `json:"forecast"`
	Cohorts          []taskDomain.CohortRow                      `json:"cohorts"`
}

// Dashboard es el contrato Store -> Vista.
type Dashboard struct {
	Tasks       []taskDomain.Task `json:"tasks"`
	LastDeleted *taskDomain.Task  `json:"lastDeleted"`
	Loading     bool              `json:"loading"`
	LoadError   string            `json:"loadError,omitempty"`
	Version     uint64            `json:"version"`
	Analytics
}

func ComputeAnalytics(tasks []taskDomain.Task, horizon int) Analytics {
	throughput := taskDomain.ComputeThroughputByWeek(tasks)
	return Analytics{
		Derived:          taskDomain.SortTasks(taskDomain.DeriveAll(tasks)),
		Metrics:          taskDomain.ComputeMetrics(tasks),
		Funnel:           taskDomain.ComputeFunnel(tasks),
		Velocity:         taskDomain.ComputeVelocityByPriority(tasks),
		Throughput:       throughput,
		WeightedPipeline: taskDomain.ComputeWeightedPipeline(tasks),
		Forecast:         taskDomain.ComputeForecast(throughput, horizon),
		Cohorts:          taskDomain.ComputeCohortRevenue(tasks),
	}
}
