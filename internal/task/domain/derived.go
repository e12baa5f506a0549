package domain

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DerivedTask es la proyección de solo lectura que consume la vista.
type DerivedTask struct {
	Task
	ROI            *float64 `json:"roi"`
	PriorityWeight int      `json:"priorityWeight"`
}

// WithDerived añade roi y priorityWeight sin modificar la tarea original.
func WithDerived(t Task) DerivedTask {
	return DerivedTask{
		Task:           t.Clone(),
		ROI:            ComputeROI(t.Revenue, t.TimeTaken),
		PriorityWeight: ComputePriorityWeight(t.Priority),
	}
}

func DeriveAll(tasks []Task) []DerivedTask {
	out := make([]DerivedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, WithDerived(t))
	}
	return out
}

func roiOrNegInf(roi *float64) float64 {
	if roi == nil {
		return math.Inf(-1)
	}
	return *roi
}

// SortTasks devuelve una copia ordenada con orden total:
// ROI desc (nil al final), peso desc, createdAt desc, título asc, id asc.
func SortTasks(tasks []DerivedTask) []DerivedTask {
	out := make([]DerivedTask, len(tasks))
	copy(out, tasks)

	// El collator guarda buffers internos: uno por llamada.
	col := collate.New(language.Und)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if ra, rb := roiOrNegInf(a.ROI), roiOrNegInf(b.ROI); ra != rb {
			return ra > rb
		}
		if a.PriorityWeight != b.PriorityWeight {
			return a.PriorityWeight > b.PriorityWeight
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.ID, b.ID); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	return out
}
