// en internal/task/infra/outbound/filesystem/snapshot_storage.go
package filesystem

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
)

// JSONSnapshotStorage es un sink analítico que guarda las fotos en un fichero JSON.
type JSONSnapshotStorage struct {
	filePath string
	mu       sync.Mutex // Mutex para evitar race conditions al leer/escribir el archivo.
}

// NewJSONSnapshotStorage es el constructor.
func NewJSONSnapshotStorage(filePath string) *JSONSnapshotStorage {
	return &JSONSnapshotStorage{
		filePath: filePath,
	}
}

// InitSchema crea el fichero vacío si no existe.
func (s *JSONSnapshotStorage) InitSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.filePath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(s.filePath, []byte("[]"), 0644)
}

// LogSnapshot añade una foto al fichero JSON.
func (s *JSONSnapshotStorage) LogSnapshot(ctx context.Context, snap taskDomain.MetricsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Leer todas las fotos existentes.
	snaps, err := s.readAll()
	// Si el error es que el fichero no existe, empezamos con una lista vacía.
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	// 2. Añadir la nueva foto a la lista.
	snaps = append(snaps, snap)

	// 3. Serializar la lista completa a JSON con formato indentado.
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return err
	}

	// 4. Escribir (sobrescribiendo) el fichero completo.
	return os.WriteFile(s.filePath, data, 0644)
}

// GetAll recupera todas las fotos del fichero JSON.
func (s *JSONSnapshotStorage) GetAll(ctx context.Context) ([]taskDomain.MetricsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readAll()
}

func (s *JSONSnapshotStorage) readAll() ([]taskDomain.MetricsSnapshot, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []taskDomain.MetricsSnapshot{}, nil
	}

	var snaps []taskDomain.MetricsSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

var _ taskDomain.TaskAnalyticsRepository = (*JSONSnapshotStorage)(nil)
