package ingestion

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/google/uuid"
)

// DefaultFallbackSize es el tamaño del lote sintético.
const DefaultFallbackSize = 50

var (
	sampleActions = []string{"Follow up with", "Demo for", "Renewal call with", "Proposal to", "Upsell", "Onboard", "Negotiate with", "Close deal with"}
	sampleClients = []string{"Acme Corp", "Globex", "Initech", "Umbrella", "Hooli", "Stark Industries", "Wayne Enterprises", "Soylent", "Cyberdyne", "Tyrell"}
	sampleNotes   = []string{"", "", "Waiting on procurement", "Champion left the company", "Budget approved", "Needs legal review"}
	statuses      = []taskDomain.TaskStatus{taskDomain.TaskTodo, taskDomain.TaskInProgress, taskDomain.TaskDone}
)

// Generator produce tareas plausibles que ya cumplen los invariantes de Task.
type Generator struct {
	size int
	rng  *rand.Rand
}

// NewGenerator con la misma semilla produce siempre el mismo lote.
func NewGenerator(size int, seed uint64) *Generator {
	if size <= 0 {
		size = DefaultFallbackSize
	}
	return &Generator{
		size: size,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (g *Generator) Generate(now time.Time) []taskDomain.Task {
	now = now.UTC()
	tasks := make([]taskDomain.Task, 0, g.size)
	for i := 0; i < g.size; i++ {
		// Los primeros del lote son los más antiguos, como en la normalización.
		createdAt := now.Add(-time.Duration(g.size-i) * 24 * time.Hour).
			Add(-time.Duration(g.rng.IntN(12*60)) * time.Minute)

		t := taskDomain.Task{
			ID:        g.newID(),
			Title:     fmt.Sprintf("%s %s", pick(g.rng, sampleActions), pick(g.rng, sampleClients)),
			Revenue:   math.Round(100+g.rng.Float64()*9900),
			TimeTaken: float64(1 + g.rng.IntN(40)),
			Priority:  pick(g.rng, taskDomain.Priorities),
			Status:    pick(g.rng, statuses),
			Notes:     pick(g.rng, sampleNotes),
			CreatedAt: createdAt,
		}
		if t.Status == taskDomain.TaskDone {
			completed := createdAt.Add(time.Duration(1+g.rng.IntN(14)) * 24 * time.Hour)
			if completed.After(now) {
				completed = now
			}
			t.CompletedAt = &completed
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// newID deriva uuids v4 del propio rng para que el lote sea reproducible.
func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(rngReader{g.rng})
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// rngReader expone el rng con semilla como io.Reader.
type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.UintN(256))
	}
	return len(p), nil
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
