package domain

import "time"

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Task has an independent lifecycle; it links to no other entity.
type Task struct {
	ID          string
	Title       string
	Description string
	Deadline    time.Time
	Priority    TaskPriority
	Status      TaskStatus
}
