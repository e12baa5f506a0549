package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawRecord es un registro sin tipar tal y como llega de la ingesta.
type RawRecord map[string]interface{}

const (
	// Separación entre timestamps sintetizados para registros sin createdAt.
	backdateStep = 24 * time.Hour
	// Si llega Done sin completedAt se asume cerrada un día después de crearse.
	inferredCompletion = 24 * time.Hour
)

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// DecodeRecord convierte un registro suelto en Task aplicando los valores por
// defecto seguros. No rellena ID, CreatedAt ni infiere CompletedAt: eso depende
// de quién consuma el registro (carga inicial o alta vía store).
func DecodeRecord(raw RawRecord) Task {
	t := Task{
		ID:    asString(raw["id"]),
		Title: strings.TrimSpace(asString(raw["title"])),
		Notes: asString(raw["notes"]),
	}
	if t.Title == "" {
		t.Title = "Untitled"
	}

	revenue, _ := asFloat(raw["revenue"])
	t.Revenue = SanitizeRevenue(revenue)

	timeTaken, _ := asFloat(raw["timeTaken"])
	t.TimeTaken = ClampTimeTaken(timeTaken)

	t.Priority = Priority(asString(raw["priority"]))
	if !t.Priority.Valid() {
		t.Priority = PriorityMedium
	}
	t.Status = TaskStatus(asString(raw["status"]))
	if !t.Status.Valid() {
		t.Status = TaskTodo
	}

	if created, ok := asTime(raw["createdAt"]); ok {
		t.CreatedAt = created
	}
	if completed, ok := asTime(raw["completedAt"]); ok {
		t.CompletedAt = &completed
	}
	return t
}

// NormalizeRecords prepara la carga inicial: genera ids ausentes, sintetiza
// createdAt estrictamente decreciente por índice (los primeros son los más
// antiguos) e infiere completedAt = createdAt + 24h para tareas Done.
func NormalizeRecords(records []RawRecord, now time.Time, newID func() string) []Task {
	out := make([]Task, 0, len(records))
	n := len(records)
	for i, raw := range records {
		t := DecodeRecord(raw)
		if t.ID == "" {
			t.ID = newID()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now.UTC().Add(-time.Duration(n-i) * backdateStep)
		}
		if t.Status == TaskDone && t.CompletedAt == nil {
			completed := t.CreatedAt.Add(inferredCompletion)
			t.CompletedAt = &completed
		}
		out = append(out, t)
	}
	return out
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asTime(v interface{}) (time.Time, bool) {
	switch ts := v.(type) {
	case time.Time:
		return ts.UTC(), !ts.IsZero()
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, strings.TrimSpace(ts)); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
