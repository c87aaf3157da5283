// Package mcp provides the Model Context Protocol server integration for the
// portal task list, agenda and sign-up requests.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/profile"
	"tableflip.dev/portal/pkg/runner/agenda"
	"tableflip.dev/portal/pkg/session"
	"tableflip.dev/portal/pkg/task"
	"tableflip.dev/portal/pkg/timeutil"
)

// Backend resolves users and opens their task slots.
type Backend interface {
	ResolveUser(ctx context.Context, who string) (string, error)
	TaskPersistence(uid string) task.Persistence
}

// Service coordinates the operations shared by the MCP tools and resources.
type Service struct {
	Backend  Backend
	Profiles profile.Repository
	Now      func() time.Time
	Logger   *log.Logger
}

// AddTaskOptions captures the parameters used to create a task.
type AddTaskOptions struct {
	User     string `json:"user"`
	Text     string `json:"text"`
	Priority string `json:"priority"`
	Deadline string `json:"deadline"`
}

// TaskDTO is a transport-friendly projection of a task.
type TaskDTO struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	CreatedISO  string `json:"created"`
	DeadlineISO string `json:"deadline,omitempty"`
	Overdue     bool   `json:"overdue"`
}

// AgendaDTO is a transport-friendly projection of an agenda.
type AgendaDTO struct {
	Since   string    `json:"since"`
	Until   string    `json:"until"`
	Window  string    `json:"window"`
	Due     []TaskDTO `json:"due"`
	Overdue []TaskDTO `json:"overdue"`
	Total   int       `json:"total"`
	Pending int       `json:"pending"`
}

// RequestDTO is a pending sign-up request.
type RequestDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	GapID     string   `json:"gapID,omitempty"`
	Clubs     []string `json:"clubs,omitempty"`
	CreatedAt string   `json:"created"`
}

// NewService builds a service over b and profiles.
func NewService(b Backend, profiles profile.Repository) *Service {
	return &Service{Backend: b, Profiles: profiles}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) open(ctx context.Context, user string) (*task.List, error) {
	if s.Backend == nil {
		return nil, errors.New("task backend is not configured")
	}
	uid, err := s.Backend.ResolveUser(ctx, strings.TrimSpace(user))
	if err != nil {
		return nil, err
	}
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return task.Open(ctx, s.Backend.TaskPersistence(uid), task.WithClock(s.now), task.WithLogger(logger)), nil
}

func (s *Service) toDTO(t task.Task) TaskDTO {
	dto := TaskDTO{
		ID:         t.ID,
		Text:       t.Text,
		Completed:  t.Completed,
		Priority:   string(t.Priority),
		CreatedISO: t.CreatedAt.Format(time.RFC3339),
		Overdue:    t.Overdue(s.now()),
	}
	if t.Deadline != nil {
		dto.DeadlineISO = t.Deadline.Format(time.RFC3339)
	}
	return dto
}

func (s *Service) toDTOs(list []task.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(list))
	for _, t := range list {
		out = append(out, s.toDTO(t))
	}
	return out
}

// ListTasks returns the task list of user, optionally only open tasks.
func (s *Service) ListTasks(ctx context.Context, user string, pending bool) ([]TaskDTO, error) {
	l, err := s.open(ctx, user)
	if err != nil {
		return nil, err
	}
	var list []task.Task
	for _, t := range l.Tasks() {
		if pending && t.Completed {
			continue
		}
		list = append(list, t)
	}
	return s.toDTOs(list), nil
}

// AddTask creates a task.
func (s *Service) AddTask(ctx context.Context, opts AddTaskOptions) (TaskDTO, error) {
	priority, err := task.ParsePriority(opts.Priority)
	if err != nil {
		return TaskDTO{}, err
	}
	deadline, err := timeutil.ParseDeadline(opts.Deadline, s.now())
	if err != nil {
		return TaskDTO{}, err
	}
	l, err := s.open(ctx, opts.User)
	if err != nil {
		return TaskDTO{}, err
	}
	t, ok := l.Add(ctx, opts.Text, priority, deadline)
	if !ok {
		return TaskDTO{}, task.ErrEmptyText
	}
	return s.toDTO(t), nil
}

// ToggleTask flips the completion of task id.
func (s *Service) ToggleTask(ctx context.Context, user, id string) (TaskDTO, error) {
	l, err := s.open(ctx, user)
	if err != nil {
		return TaskDTO{}, err
	}
	t, err := l.Toggle(ctx, id)
	if err != nil {
		return TaskDTO{}, fmt.Errorf("toggle %s: %w", id, err)
	}
	return s.toDTO(t), nil
}

// EditTask replaces the text of task id.
func (s *Service) EditTask(ctx context.Context, user, id, text string) (TaskDTO, error) {
	l, err := s.open(ctx, user)
	if err != nil {
		return TaskDTO{}, err
	}
	t, err := l.Edit(ctx, id, text)
	if err != nil {
		return TaskDTO{}, fmt.Errorf("edit %s: %w", id, err)
	}
	return s.toDTO(t), nil
}

// DeleteTask removes task id. A tool call is the confirmation.
func (s *Service) DeleteTask(ctx context.Context, user, id string) (TaskDTO, error) {
	l, err := s.open(ctx, user)
	if err != nil {
		return TaskDTO{}, err
	}
	if _, err := l.RequestDelete(id); err != nil {
		return TaskDTO{}, fmt.Errorf("delete %s: %w", id, err)
	}
	t, err := l.ConfirmDelete(ctx)
	if err != nil {
		return TaskDTO{}, fmt.Errorf("delete %s: %w", id, err)
	}
	return s.toDTO(t), nil
}

// Agenda lists due and overdue tasks of user within window of now. An empty
// window means one week.
func (s *Service) Agenda(ctx context.Context, user, window string) (AgendaDTO, error) {
	d, _, err := timeutil.ParseWindow(window)
	if err != nil {
		return AgendaDTO{}, err
	}
	if d == 0 {
		d = agenda.DefaultWindow
	}
	l, err := s.open(ctx, user)
	if err != nil {
		return AgendaDTO{}, err
	}
	a := app.BuildAgenda(session.Anonymous(), l.Tasks(), s.now(), d)
	return AgendaDTO{
		Since:   a.Since.Format(time.RFC3339),
		Until:   a.Until.Format(time.RFC3339),
		Window:  timeutil.FormatWindow(d),
		Due:     s.toDTOs(a.Due),
		Overdue: s.toDTOs(a.Overdue),
		Total:   a.Stats.Total,
		Pending: a.Stats.Pending,
	}, nil
}

// SignupRequests lists sign-up requests awaiting approval.
func (s *Service) SignupRequests(ctx context.Context) ([]RequestDTO, error) {
	if s.Profiles == nil {
		return nil, errors.New("profile repository is not configured")
	}
	users, err := s.Profiles.SignupRequests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RequestDTO, 0, len(users))
	for _, u := range users {
		out = append(out, RequestDTO{
			ID:        u.DocID,
			Name:      u.Name,
			Email:     u.Email,
			GapID:     u.GapID,
			Clubs:     u.Clubs,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}
