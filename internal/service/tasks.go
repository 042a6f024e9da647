package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vjamst/meestercrm/internal/calendar"
	"github.com/vjamst/meestercrm/internal/domain"
)

type TasksStore interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	InsertTask(ctx context.Context, t domain.Task) error
	UpdateTask(ctx context.Context, t domain.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type Tasks interface {
	List(ctx context.Context) ([]TaskView, error)
	Create(ctx context.Context, params TaskParams) (domain.Task, error)
	Update(ctx context.Context, id string, params TaskParams) error
	Delete(ctx context.Context, id string) error
}

type tasks struct {
	store TasksStore
}

func NewTasks(store TasksStore) *tasks {
	return &tasks{store: store}
}

type TaskView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Deadline      string `json:"deadline,omitempty"`
	Priority      string `json:"priority"`
	PriorityLabel string `json:"priorityLabel"`
	Status        string `json:"status"`
	StatusLabel   string `json:"statusLabel"`
}

func (s *tasks) List(ctx context.Context) ([]TaskView, error) {
	list, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TaskView, 0, len(list))
	for _, task := range list {
		views = append(views, TaskView{
			ID:            task.ID,
			Title:         task.Title,
			Description:   task.Description,
			Deadline:      calendar.FormatDate(task.Deadline),
			Priority:      string(task.Priority),
			PriorityLabel: priorityLabel(task.Priority),
			Status:        string(task.Status),
			StatusLabel:   taskStatusLabel(task.Status),
		})
	}
	return views, nil
}

func priorityLabel(p domain.TaskPriority) string {
	switch p {
	case domain.PriorityHigh:
		return "Hoog"
	case domain.PriorityMedium:
		return "Middel"
	case domain.PriorityLow:
		return "Laag"
	default:
		return string(p)
	}
}

func taskStatusLabel(s domain.TaskStatus) string {
	switch s {
	case domain.TaskOpen:
		return "Open"
	case domain.TaskInProgress:
		return "In behandeling"
	case domain.TaskDone:
		return "Afgerond"
	default:
		return string(s)
	}
}

type TaskParams struct {
	Title       string
	Description string
	Deadline    time.Time
	Priority    string
	Status      string
}

func (p TaskParams) toDomain() (domain.Task, error) {
	if p.Title == "" {
		return domain.Task{}, domain.Invalid("title", "a task title is required")
	}

	priority := domain.TaskPriority(p.Priority)
	if p.Priority == "" {
		priority = domain.PriorityMedium
	}
	switch priority {
	case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
	default:
		return domain.Task{}, domain.Invalid("priority", fmt.Sprintf("unknown priority %q", p.Priority))
	}

	status := domain.TaskStatus(p.Status)
	if p.Status == "" {
		status = domain.TaskOpen
	}
	switch status {
	case domain.TaskOpen, domain.TaskInProgress, domain.TaskDone:
	default:
		return domain.Task{}, domain.Invalid("status", fmt.Sprintf("unknown task status %q", p.Status))
	}

	return domain.Task{
		Title:       p.Title,
		Description: p.Description,
		Deadline:    p.Deadline,
		Priority:    priority,
		Status:      status,
	}, nil
}

func (s *tasks) Create(ctx context.Context, params TaskParams) (domain.Task, error) {
	task, err := params.toDomain()
	if err != nil {
		return domain.Task{}, err
	}
	task.ID = uuid.NewString()

	if err := s.store.InsertTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *tasks) Update(ctx context.Context, id string, params TaskParams) error {
	if id == "" {
		return domain.Invalid("task", "a task id is required")
	}
	task, err := params.toDomain()
	if err != nil {
		return err
	}
	task.ID = id
	return s.store.UpdateTask(ctx, task)
}

func (s *tasks) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.Invalid("task", "a task id is required")
	}
	return s.store.DeleteTask(ctx, id)
}
