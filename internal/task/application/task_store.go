package application

import (
	"sync"
	"time"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/google/uuid"
)

// TaskStore es el único dueño de la colección canónica de tareas.
// Cada operación es atómica respecto a las demás (un solo escritor a la vez).
// Las vistas derivadas se memorizan por versión de la colección: la versión
// sube solo cuando la colección cambia.
type TaskStore struct {
	mu          sync.Mutex
	tasks       []taskDomain.Task
	lastDeleted *taskDomain.Task
	version     uint64

	loading   bool
	loadError string

	now     func() time.Time
	newID   func() string
	horizon int

	analytics        *Analytics
	analyticsVersion uint64
}

type StoreOption func(*TaskStore)

// WithClock inyecta el "ahora" que usan las mutaciones.
func WithClock(now func() time.Time) StoreOption {
	return func(s *TaskStore) { s.now = now }
}

func WithIDGenerator(newID func() string) StoreOption {
	return func(s *TaskStore) { s.newID = newID }
}

// WithForecastHorizon fija el horizonte del dashboard; <= 0 deja el de por defecto.
func WithForecastHorizon(weeks int) StoreOption {
	return func(s *TaskStore) {
		if weeks > 0 {
			s.horizon = weeks
		}
	}
}

func NewTaskStore(opts ...StoreOption) *TaskStore {
	s := &TaskStore{
		tasks:   []taskDomain.Task{},
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
		horizon: taskDomain.DefaultForecastHorizon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ------------------ Mutaciones ------------------

// Add asigna id si falta, corrige timeTaken, fija createdAt a ahora y, si
// entra directamente como Done sin completedAt, lo fija también.
func (s *TaskStore) Add(t taskDomain.Task) taskDomain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t = t.Clone()
	if t.ID == "" {
		t.ID = s.newID()
	}
	t.CreatedAt = now
	if t.Status == taskDomain.TaskDone && t.CompletedAt == nil {
		completed := now
		t.CompletedAt = &completed
	}
	t.Sanitize()

	s.tasks = append(s.tasks, t)
	s.bump()
	return t.Clone()
}

// Update mezcla el patch sobre la tarea con ese id. Si no existe no hace nada.
func (s *TaskStore) Update(id string, patch taskDomain.Patch) (taskDomain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return taskDomain.Task{}, false
	}

	updated := s.tasks[i].Clone()
	updated.Apply(patch, s.now())
	s.tasks[i] = updated
	s.bump()
	return updated.Clone(), true
}

// Delete retira la tarea y la deja en lastDeleted, pisando lo que hubiera.
func (s *TaskStore) Delete(id string) (taskDomain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return taskDomain.Task{}, false
	}

	removed := s.tasks[i].Clone()
	next := make([]taskDomain.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	s.lastDeleted = &removed
	s.bump()
	return removed.Clone(), true
}

// UndoDelete vuelve a añadir lastDeleted al final de la colección.
func (s *TaskStore) UndoDelete() (taskDomain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		return taskDomain.Task{}, false
	}

	restored := *s.lastDeleted
	s.lastDeleted = nil
	s.tasks = append(s.tasks, restored)
	s.bump()
	return restored.Clone(), true
}

// DismissLastDeleted descarta el buffer sin restaurar. No cambia la colección.
func (s *TaskStore) DismissLastDeleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDeleted = nil
}

// ------------------ Carga inicial ------------------

// BeginLoad marca el inicio de la ingesta: las lecturas ven estado "loading".
func (s *TaskStore) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.loadError = ""
}

// FinishLoad coloca las tareas ya normalizadas delante de las que se
// añadieron durante la carga (si un id coincide, gana la de la carga).
// loadErr es el fallo no fatal de la fuente (los datos serán los de respaldo).
func (s *TaskStore) FinishLoad(tasks []taskDomain.Task, loadErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]taskDomain.Task, 0, len(tasks)+len(s.tasks))
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		t = t.Clone()
		t.Sanitize()
		next = append(next, t)
		seen[t.ID] = struct{}{}
	}
	for _, t := range s.tasks {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		next = append(next, t)
	}
	s.tasks = next
	s.loading = false
	s.loadError = ""
	if loadErr != nil {
		s.loadError = loadErr.Error()
	}
	s.bump()
}

// AbortLoad cierra la fase de carga sin tocar la colección.
func (s *TaskStore) AbortLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// ------------------ Lectura ------------------

// Tasks devuelve una copia de la colección canónica.
func (s *TaskStore) Tasks() []taskDomain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *TaskStore) Get(id string) (taskDomain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return taskDomain.Task{}, false
}

func (s *TaskStore) LastDeleted() *taskDomain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDeleted == nil {
		return nil
	}
	t := s.lastDeleted.Clone()
	return &t
}

func (s *TaskStore) LoadState() (loading bool, loadError string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, s.loadError
}

func (s *TaskStore) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Dashboard arma la vista completa. La parte analítica solo se recalcula si
// la versión de la colección cambió desde el último cálculo.
func (s *TaskStore) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.analytics == nil || s.analyticsVersion != s.version {
		a := ComputeAnalytics(s.tasks, s.horizon)
		s.analytics = &a
		s.analyticsVersion = s.version
	}

	var lastDeleted *taskDomain.Task
	if s.lastDeleted != nil {
		t := s.lastDeleted.Clone()
		lastDeleted = &t
	}

	return Dashboard{
		Tasks:       cloneTasks(s.tasks),
		LastDeleted: lastDeleted,
		Loading:     s.loading,
		LoadError:   s.loadError,
		Version:     s.version,
		Analytics:   *s.analytics,
	}
}

// ------------------ Helpers ------------------

func (s *TaskStore) bump() {
	s.version++
}

func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []taskDomain.Task) []taskDomain.Task {
	out := make([]taskDomain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
