package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/portal/pkg/task"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListTasksTool(srv, svc)
	registerAddTaskTool(srv, svc)
	registerToggleTaskTool(srv, svc)
	registerEditTaskTool(srv, svc)
	registerDeleteTaskTool(srv, svc)
	registerAgendaTool(srv, svc)
	registerSignupRequestsTool(srv, svc)
}

func userArg() mcp.ToolOption {
	return mcp.WithString("user",
		mcp.Description("Account email or uid owning the task list. Empty selects the shared list."),
	)
}

func registerListTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List the tasks of a task list."),
		userArg(),
		mcp.WithBoolean("pending",
			mcp.Description("Only return tasks not yet completed."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			User    string `json:"user"`
			Pending bool   `json:"pending"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		tasks, err := svc.ListTasks(ctx, args.User, args.Pending)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"tasks": tasks,
			"count": len(tasks),
		})
	})
}

func registerAddTaskTool(srv *server.MCPServer, svc *Service) {
	priorities := make([]string, 0, 3)
	for _, p := range task.AllPriorities() {
		priorities = append(priorities, string(p))
	}

	tool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Add a task to the top of a task list."),
		userArg(),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What needs doing."),
		),
		mcp.WithString("priority",
			mcp.Description("Task priority, medium when omitted."),
			mcp.Enum(priorities...),
		),
		mcp.WithString("deadline",
			mcp.Description("Optional deadline such as 2006-01-02, '2/28 17:00' or 'tomorrow 9:00'. A day alone means 23:59."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args AddTaskOptions
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.AddTask(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerToggleTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_task",
		mcp.WithDescription("Flip a task between open and completed."),
		userArg(),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to toggle."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.ToggleTask(ctx, request.GetString("user", ""), id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerEditTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"edit_task",
		mcp.WithDescription("Replace the text of a task."),
		userArg(),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to edit."),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("New task text."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.EditTask(ctx, request.GetString("user", ""), id, text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithDestructiveHintAnnotation(true),
		userArg(),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.DeleteTask(ctx, request.GetString("user", ""), id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"deleted": dto,
		})
	})
}

func registerAgendaTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"agenda",
		mcp.WithDescription("List open tasks due within a window and overdue tasks."),
		userArg(),
		mcp.WithString("window",
			mcp.Description("How far ahead to look, such as 3d or 2w. Defaults to one week."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Agenda(ctx, request.GetString("user", ""), request.GetString("window", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSignupRequestsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_signup_requests",
		mcp.WithDescription("List sign-up requests awaiting approval."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requests, err := svc.SignupRequests(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"requests": requests,
			"count":    len(requests),
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
