// Package mcptools exposes task CRUD as Model Context Protocol tools.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/metalagman/taskdeck/internal/task"
)

// Service is the task backend the tools call.
type Service interface {
	List(ctx context.Context, q task.Query) ([]task.Task, error)
	Get(ctx context.Context, id string) (task.Task, error)
	Create(ctx context.Context, d task.Draft) (task.Task, error)
	Update(ctx context.Context, id string, p task.Patch) (task.Task, error)
	Delete(ctx context.Context, id string) error
}

// Task is the tool-facing task record.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	DueDate     string   `json:"dueDate"`
	CreatedAt   string   `json:"createdAt"`
	Tags        []string `json:"tags"`
	AssignedTo  string   `json:"assignedTo"`
}

func fromTask(t task.Task) Task {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
		Tags:        tags,
		AssignedTo:  t.AssignedTo,
	}
}

type ListInput struct {
	Status   string `json:"status,omitempty"   jsonschema:"todo, in-progress, done or all"`
	Priority string `json:"priority,omitempty" jsonschema:"low, medium, high or all"`
	Search   string `json:"search,omitempty"   jsonschema:"case-insensitive text matched against title, description and tags"`
}

type ListOutput struct {
	Tasks []Task `json:"tasks"`
	Count int    `json:"count"`
}

type IDInput struct {
	ID string `json:"id" jsonschema:"task id"`
}

type TaskOutput struct {
	Task Task `json:"task"`
}

type CreateInput struct {
	Title       string   `json:"title"                jsonschema:"non-blank title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority"             jsonschema:"low, medium or high"`
	Status      string   `json:"status"               jsonschema:"todo, in-progress or done"`
	DueDate     string   `json:"dueDate"              jsonschema:"YYYY-MM-DD"`
	Tags        []string `json:"tags,omitempty"`
	AssignedTo  string   `json:"assignedTo,omitempty"`
}

type UpdateInput struct {
	ID          string    `json:"id"                    jsonschema:"task id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *string   `json:"priority,omitempty"    jsonschema:"low, medium or high"`
	Status      *string   `json:"status,omitempty"      jsonschema:"todo, in-progress or done"`
	DueDate     *string   `json:"dueDate,omitempty"     jsonschema:"YYYY-MM-DD"`
	Tags        *[]string `json:"tags,omitempty"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
}

func (in UpdateInput) patch() task.Patch {
	p := task.Patch{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		AssignedTo:  in.AssignedTo,
	}
	if in.Priority != nil {
		v := task.Priority(*in.Priority)
		p.Priority = &v
	}
	if in.Status != nil {
		v := task.Status(*in.Status)
		p.Status = &v
	}
	return p
}

type DeleteOutput struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// NewServer builds an MCP server with the task tools registered.
func NewServer(svc Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "taskdeck", Version: version}, nil)
	h := handlers{svc: svc}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by status, priority and search text.",
	}, h.list)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_task",
		Description: "Get one task by id.",
	}, h.get)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a task. The server assigns id and createdAt.",
	}, h.create)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_task",
		Description: "Update the given fields of a task.",
	}, h.update)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task by id.",
	}, h.delete)
	return server
}

// Serve runs the tools over stdio until ctx is done or the client hangs up.
func Serve(ctx context.Context, svc Service, version string) error {
	log.Info().Msg("mcp server starting on stdio")
	if err := NewServer(svc, version).Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run mcp server: %w", err)
	}
	return nil
}

type handlers struct {
	svc Service
}

func (h handlers) list(ctx context.Context, _ *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, ListOutput, error) {
	items, err := h.svc.List(ctx, task.Query{
		Status:    in.Status,
		Priority:  in.Priority,
		Search:    in.Search,
		MatchTags: true,
	})
	if err != nil {
		return nil, ListOutput{}, toolError(err)
	}
	out := ListOutput{Tasks: make([]Task, 0, len(items)), Count: len(items)}
	for _, t := range items {
		out.Tasks = append(out.Tasks, fromTask(t))
	}
	return nil, out, nil
}

func (h handlers) get(ctx context.Context, _ *mcp.CallToolRequest, in IDInput) (*mcp.CallToolResult, TaskOutput, error) {
	t, err := h.svc.Get(ctx, in.ID)
	if err != nil {
		return nil, TaskOutput{}, toolError(err)
	}
	return nil, TaskOutput{Task: fromTask(t)}, nil
}

func (h handlers) create(ctx context.Context, _ *mcp.CallToolRequest, in CreateInput) (*mcp.CallToolResult, TaskOutput, error) {
	t, err := h.svc.Create(ctx, task.Draft{
		Title:       in.Title,
		Description: in.Description,
		Priority:    task.Priority(in.Priority),
		Status:      task.Status(in.Status),
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		AssignedTo:  in.AssignedTo,
	})
	if err != nil {
		return nil, TaskOutput{}, toolError(err)
	}
	log.Info().Str("task_id", t.ID).Msg("task created via mcp")
	return nil, TaskOutput{Task: fromTask(t)}, nil
}

func (h handlers) update(ctx context.Context, _ *mcp.CallToolRequest, in UpdateInput) (*mcp.CallToolResult, TaskOutput, error) {
	t, err := h.svc.Update(ctx, in.ID, in.patch())
	if err != nil {
		return nil, TaskOutput{}, toolError(err)
	}
	return nil, TaskOutput{Task: fromTask(t)}, nil
}

func (h handlers) delete(ctx context.Context, _ *mcp.CallToolRequest, in IDInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := h.svc.Delete(ctx, in.ID); err != nil {
		return nil, DeleteOutput{}, toolError(err)
	}
	return nil, DeleteOutput{Message: "Task deleted", ID: in.ID}, nil
}

// toolError turns service errors into the messages the HTTP API uses.
func toolError(err error) error {
	if errors.Is(err, task.ErrNotFound) {
		return errors.New("task not found")
	}
	if verr, ok := task.AsValidationError(err); ok {
		return errors.New(verr.First())
	}
	return err
}
