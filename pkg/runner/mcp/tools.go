package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListFoldersTool(srv, svc)
	registerCreateFolderTool(srv, svc)
	registerRenameFolderTool(srv, svc)
	registerMoveFolderTool(srv, svc)
	registerDeleteFolderTool(srv, svc)
	registerFavoriteTools(srv, svc)
}

func registerListFoldersTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_folders",
		mcp.WithDescription("List the folders inside a folder, with its breadcrumb."),
		mcp.WithString("id",
			mcp.Description("Folder to list. Empty or 'root' lists the top level."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		listing, err := svc.ListFolders(ctx, request.GetString("id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(listing)
	})
}

func registerCreateFolderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_folder",
		mcp.WithDescription("Create a folder. A blank name creates an untitled folder."),
		mcp.WithString("parent",
			mcp.Description("Parent folder id. Empty or 'root' creates a top-level folder."),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new folder."),
		),
		mcp.WithNumber("x",
			mcp.Description("Horizontal position on the parent's canvas."),
		),
		mcp.WithNumber("y",
			mcp.Description("Vertical position on the parent's canvas."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Parent string  `json:"parent"`
			Name   string  `json:"name"`
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.CreateFolder(ctx, CreateFolderOptions{
			Parent: args.Parent,
			Name:   args.Name,
			X:      args.X,
			Y:      args.Y,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRenameFolderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"rename_folder",
		mcp.WithDescription("Rename a folder."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Folder identifier to rename."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("New name. May be empty."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.RenameFolder(ctx, id, request.GetString("name", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoveFolderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"move_folder",
		mcp.WithDescription("Reposition a folder on its parent's canvas and report the sibling it landed on, if any."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Folder identifier to move."),
		),
		mcp.WithNumber("x",
			mcp.Required(),
			mcp.Description("New horizontal position. Negative values are clamped to 0."),
		),
		mcp.WithNumber("y",
			mcp.Required(),
			mcp.Description("New vertical position. Negative values are clamped to 0."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
			Y  float64 `json:"y"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.MoveFolder(ctx, args.ID, args.X, args.Y)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerDeleteFolderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_folder",
		mcp.WithDescription("Delete a folder. Whether non-empty folders are deleted with their contents depends on the server's delete policy."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Folder identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		removed, err := svc.DeleteFolder(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"removed": removed,
			"count":   len(removed),
		})
	})
}

func registerFavoriteTools(srv *server.MCPServer, svc *Service) {
	add := mcp.NewTool(
		"add_favorite",
		mcp.WithDescription("Add a folder to the favorites sidebar."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Folder identifier to bookmark."),
		),
	)
	srv.AddTool(add, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		changed, err := svc.AddFavorite(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"id": id, "changed": changed})
	})

	remove := mcp.NewTool(
		"remove_favorite",
		mcp.WithDescription("Remove a folder from the favorites sidebar."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Folder identifier to drop."),
		),
	)
	srv.AddTool(remove, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		changed, err := svc.RemoveFavorite(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"id": id, "changed": changed})
	})

	list := mcp.NewTool(
		"list_favorites",
		mcp.WithDescription("List the favorites sidebar in order."),
	)
	srv.AddTool(list, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		favs, err := svc.ListFavorites(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"favorites": favs, "count": len(favs)})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
