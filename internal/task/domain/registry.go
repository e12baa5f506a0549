package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/salesboard/internal/shared/events"
)

// Las constantes de los tipos de evento se definen aquí, como valores string.
const (
	TaskCreated  = "task.created"
	TaskUpdated  = "task.updated"
	TaskDeleted  = "task.deleted"
	TaskRestored = "task.restored"
	TaskIngest   = "task.ingest"
)

const (
	TaskTopic       = "task"
	TaskIngestTopic = "task-ingest"
)

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		TaskCreated: {
			Type:  reflect.TypeOf(Task{}),
			Topic: TaskTopic,
		},
		TaskUpdated: {
			Type:  reflect.TypeOf(Task{}),
			Topic: TaskTopic,
		},
		TaskDeleted: {
			Type:  reflect.TypeOf(Task{}),
			Topic: TaskTopic,
		},
		TaskRestored: {
			Type:  reflect.TypeOf(Task{}),
			Topic: TaskTopic,
		},
	}
}
