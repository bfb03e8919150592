// Package mcp exposes the folder hierarchy over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folder"
)

// Service adapts a finder.Controller to the shapes the MCP tools return.
type Service struct {
	Controller *finder.Controller
}

var errNoController = errors.New("mcp: controller is not configured")

// FolderDTO is a transport-friendly projection of a folder.
type FolderDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ParentID    string  `json:"parentId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	CreatedISO  string  `json:"created,omitempty"`
	CreatedUnix int64   `json:"createdUnix,omitempty"`
	Favorite    bool    `json:"favorite"`
}

// Listing is a folder with its breadcrumb and children.
type Listing struct {
	Folder     FolderDTO      `json:"folder"`
	Breadcrumb []finder.Crumb `json:"breadcrumb"`
	Children   []FolderDTO    `json:"children"`
	Count      int            `json:"count"`
}

// CreateFolderOptions captures the parameters used to create a folder.
type CreateFolderOptions struct {
	Parent string
	Name   string
	X, Y   float64
}

// NewService builds a service over c.
func NewService(c *finder.Controller) *Service {
	return &Service{Controller: c}
}

func (s *Service) toDTO(n *folder.Node) FolderDTO {
	dto := FolderDTO{
		ID:       n.ID,
		Name:     n.DisplayName(),
		ParentID: n.ParentID,
		X:        n.Position.X,
		Y:        n.Position.Y,
	}
	if folder.IsRoot(n.ID) {
		dto.ParentID = ""
	}
	if !n.CreatedAt.IsZero() {
		dto.CreatedISO = n.CreatedAt.Format(time.RFC3339)
		dto.CreatedUnix = n.CreatedAt.Unix()
	}
	if s.Controller != nil {
		dto.Favorite = s.Controller.Favorites().Contains(n.ID)
	}
	return dto
}

func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return folder.RootID
	}
	return id
}

// ListFolders returns id, or the root when id is empty, with its children.
func (s *Service) ListFolders(ctx context.Context, id string) (*Listing, error) {
	if s.Controller == nil {
		return nil, errNoController
	}
	id = normalizeID(id)
	fs := s.Controller.Folders()

	n, err := fs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := fs.Path(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := fs.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &Listing{
		Folder:     s.toDTO(n),
		Breadcrumb: make([]finder.Crumb, 0, len(path)),
		Children:   make([]FolderDTO, 0, len(children)),
		Count:      len(children),
	}
	for _, p := range path {
		out.Breadcrumb = append(out.Breadcrumb, finder.Crumb{ID: p.ID, Name: p.DisplayName()})
	}
	for _, child := range children {
		out.Children = append(out.Children, s.toDTO(child))
	}
	return out, nil
}

// GetFolder returns a single folder.
func (s *Service) GetFolder(ctx context.Context, id string) (*FolderDTO, error) {
	if s.Controller == nil {
		return nil, errNoController
	}
	n, err := s.Controller.Folders().Get(ctx, normalizeID(id))
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(n)
	return &dto, nil
}

// CreateFolder stores a new folder.
func (s *Service) CreateFolder(ctx context.Context, opts CreateFolderOptions) (*FolderDTO, error) {
	if s.Controller == nil {
		return nil, errNoController
	}
	n, err := s.Controller.CreateFolder(ctx, normalizeID(opts.Parent), opts.Name, folder.Position{X: opts.X, Y: opts.Y})
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(n)
	return &dto, nil
}

// RenameFolder renames id.
func (s *Service) RenameFolder(ctx context.Context, id, name string) (*FolderDTO, error) {
	if s.Controller == nil {
		return nil, errNoController
	}
	n, err := s.Controller.RenameFolder(ctx, id, name)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(n)
	return &dto, nil
}

// MoveFolder places id at x,y on its parent's canvas.
func (s *Service) MoveFolder(ctx context.Context, id string, x, y float64) (*finder.DropResult, error) {
	if s.Controller == nil {
		return nil, errNoController
	}
	return s.Controller.MoveOrDrop(ctx, id, folder.Position{X: x, Y: y})
}

// DeleteFolder deletes id and reports every removed id.
func (s *Service) DeleteFolder(ctx context.Context, id string) ([]string, error) {
	if s.Controller == nil {
		return nil, errNoController
	}
	return s.Controller.DeleteFolder(ctx, id)
}

// AddFavorite bookmarks id.
func (s *Service) AddFavorite(ctx context.Context, id string) (bool, error) {
	if s.Controller == nil {
		return false, errNoController
	}
	return s.Controller.AddFavorite(ctx, id)
}

// RemoveFavorite drops id from favorites.
func (s *Service) RemoveFavorite(ctx context.Context, id string) (bool, error) {
	if s.Controller == nil {
		return false, errNoController
	}
	return s.Controller.RemoveFavorite(ctx, id)
}

// ListFavorites returns favorites that still point at a folder.
func (s *Service) ListFavorites(ctx context.Context) ([]folder.Favorite, error) {
	if s.Controller == nil {
		return nil, errNoController
	}
	v, err := s.Controller.View(ctx)
	if err != nil {
		return nil, err
	}
	return v.Favorites, nil
}
