package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerSharedTasksResource(srv, svc)
	registerUserTasksTemplate(srv, svc)
	registerSignupRequestsResource(srv, svc)
}

func registerSharedTasksResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"portal://tasks",
		"Tasks",
		mcp.WithResourceDescription("The shared task list."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tasks, err := svc.ListTasks(ctx, "", false)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"tasks": tasks,
			"count": len(tasks),
		})
	})
}

func registerUserTasksTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"portal://users/{user}/tasks",
		"User Tasks",
		mcp.WithTemplateDescription("The task list of an account, by email or uid."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		user := templateArg(request.Params.Arguments["user"])
		if user == "" {
			return nil, fmt.Errorf("user is required")
		}

		tasks, err := svc.ListTasks(ctx, user, false)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"user":  user,
			"tasks": tasks,
			"count": len(tasks),
		})
	})
}

func registerSignupRequestsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"portal://signup-requests",
		"Sign-up Requests",
		mcp.WithResourceDescription("Sign-up requests awaiting approval."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		requests, err := svc.SignupRequests(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"requests": requests,
			"count":    len(requests),
		})
	})
}

// templateArg reads a URI template variable, which arrives as a string or a
// single-element list depending on the template expansion.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
