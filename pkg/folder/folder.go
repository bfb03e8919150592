// Package folder defines the persisted folder node and the small value types
// that travel with it between the store, the controller and the renderers.
package folder

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// RootID is the sentinel parent of every top-level folder. The root is
	// never persisted.
	RootID = "root"

	// RootLabel is the display name of the root folder.
	RootLabel = "Home"

	// DefaultName is used when a new folder is committed without a name.
	DefaultName = "untitled folder"

	// Placeholder is shown when a name cannot be resolved.
	Placeholder = "…"

	// TempPrefix marks identifiers of folders that exist only as a pending
	// creation and have not been persisted yet.
	TempPrefix = "temp-"
)

// Position is a point on a folder's canvas.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Node is a folder in the virtual hierarchy.
type Node struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	ParentID  string    `json:"parentId" yaml:"parentId"`
	Position  Position  `json:"position" yaml:"position"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// New returns an unsaved node with a fresh id.
func New(parentID, name string, pos Position, created time.Time) *Node {
	if parentID == "" {
		parentID = RootID
	}
	return &Node{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parentID,
		Position:  pos,
		CreatedAt: created,
	}
}

// Root returns the synthetic root node.
func Root() *Node {
	return &Node{ID: RootID, Name: RootLabel}
}

// IsRoot reports whether id refers to the root folder.
func IsRoot(id string) bool {
	return id == RootID || id == ""
}

// IsTemp reports whether id was allocated for a pending creation.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

// DisplayName is the name to render, falling back to DefaultName when the
// stored name is blank.
func (n *Node) DisplayName() string {
	if n == nil {
		return Placeholder
	}
	if IsRoot(n.ID) {
		return RootLabel
	}
	if strings.TrimSpace(n.Name) == "" {
		return DefaultName
	}
	return n.Name
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	return &cp
}

// Favorite returns the bookmark for n with the current display name.
func (n *Node) Favorite() Favorite {
	return Favorite{ID: n.ID, Name: n.DisplayName()}
}

// Sort orders nodes by creation time, falling back to id so that listings are
// stable within a session.
func Sort(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		left := nodes[i]
		right := nodes[j]
		if left == nil || right == nil {
			return left != nil
		}
		lt := left.CreatedAt
		rt := right.CreatedAt
		switch {
		case lt.IsZero() && rt.IsZero():
			return left.ID < right.ID
		case lt.IsZero():
			return false
		case rt.IsZero():
			return true
		default:
			if lt.Equal(rt) {
				return left.ID < right.ID
			}
			return lt.Before(rt)
		}
	})
}

// Pending is a folder creation awaiting a name. It is never stored.
type Pending struct {
	TempID    string    `json:"tempId" yaml:"tempId"`
	Position  Position  `json:"position" yaml:"position"`
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`
}

// NewPending allocates a pending creation at pos.
func NewPending(pos Position, now time.Time) *Pending {
	return &Pending{
		TempID:    fmt.Sprintf("%s%d", TempPrefix, now.UnixMilli()),
		Position:  pos,
		StartedAt: now,
	}
}
