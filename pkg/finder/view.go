package finder

import (
	"context"
	"errors"

	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/folders"
)

// Crumb is one step of the breadcrumb trail.
type Crumb struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// View is an immutable snapshot for renderers.
type View struct {
	CurrentFolderID   string            `json:"currentFolderId" yaml:"currentFolderId"`
	CurrentFolderName string            `json:"currentFolderName" yaml:"currentFolderName"`
	Breadcrumb        []Crumb           `json:"breadcrumb" yaml:"breadcrumb"`
	Children          []*folder.Node    `json:"children" yaml:"children"`
	Favorites         []folder.Favorite `json:"favorites" yaml:"favorites"`
	EditingFolderID   string            `json:"editingFolderId,omitempty" yaml:"editingFolderId,omitempty"`
	PendingNewFolder  *folder.Pending   `json:"pendingNewFolder,omitempty" yaml:"pendingNewFolder,omitempty"`
	DraggingFolderID  string            `json:"draggingFolderId,omitempty" yaml:"draggingFolderId,omitempty"`
	CanGoBack         bool              `json:"canGoBack" yaml:"canGoBack"`
	CanGoForward      bool              `json:"canGoForward" yaml:"canGoForward"`
	Mode              Mode              `json:"mode" yaml:"mode"`
}

// Child returns the child with id, or nil.
func (v *View) Child(id string) *folder.Node {
	for _, c := range v.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// View builds a snapshot of the current folder. Dangling history and
// favorites are dropped on the way.
func (c *Controller) View(ctx context.Context) (*View, error) {
	release, err := c.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.settle(ctx, false); err != nil {
		return nil, err
	}

	c.mu.Lock()
	v := &View{
		CurrentFolderID: c.hist.Current(),
		EditingFolderID: c.editing,
		CanGoBack:       c.hist.CanGoBack(),
		CanGoForward:    c.hist.CanGoForward(),
		Mode:            c.mode,
	}
	if c.pending != nil {
		p := *c.pending
		v.PendingNewFolder = &p
	}
	if c.drag != nil {
		v.DraggingFolderID = c.drag.id
	}
	c.mu.Unlock()

	path, err := c.folders.Path(ctx, v.CurrentFolderID)
	if err != nil {
		return nil, err
	}
	for _, n := range path {
		v.Breadcrumb = append(v.Breadcrumb, Crumb{ID: n.ID, Name: n.DisplayName()})
	}
	v.CurrentFolderName = path[len(path)-1].DisplayName()

	if v.Children, err = c.folders.ListChildren(ctx, v.CurrentFolderID); err != nil {
		return nil, err
	}

	if v.Favorites, err = c.liveFavorites(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// liveFavorites lists favorites whose folder still exists and drops the rest.
func (c *Controller) liveFavorites(ctx context.Context) ([]folder.Favorite, error) {
	all := c.favorites.List()
	live := make([]folder.Favorite, 0, len(all))
	var stale []string
	for _, f := range all {
		ok, err := c.folders.Exists(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		if !ok || folder.IsRoot(f.ID) {
			stale = append(stale, f.ID)
			continue
		}
		if f.Name == "" {
			f.Name = c.folders.Name(ctx, f.ID)
		}
		live = append(live, f)
	}
	if len(stale) > 0 {
		c.dropFavorites(ctx, stale...)
	}
	return live, nil
}

// IsNotFound reports whether err means a folder does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, folders.ErrNotFound)
}
