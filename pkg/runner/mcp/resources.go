package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerRootResource(srv, svc)
	registerFavoritesResource(srv, svc)
	registerFolderTemplate(srv, svc)
}

func registerRootResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"finder://folders",
		"Top-level folders",
		mcp.WithResourceDescription("Folders directly under the root."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		listing, err := svc.ListFolders(ctx, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, listing)
	})
}

func registerFavoritesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"finder://favorites",
		"Favorites",
		mcp.WithResourceDescription("The favorites sidebar in order."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		favs, err := svc.ListFavorites(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"favorites": favs,
			"count":     len(favs),
		})
	})
}

func registerFolderTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"finder://folders/{id}",
		"Folder Contents",
		mcp.WithTemplateDescription("A folder with its breadcrumb and children."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("folder id is required")
		}
		listing, err := svc.ListFolders(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, listing)
	})
}

// templateArg reads a URI template variable, which arrives either as a
// string or as a list of strings.
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
