package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/finder/pkg/folder"
)

const (
	folderPrefix = "folder"
	metaPrefix   = "meta"
	favoritesKey = metaPrefix + "-favorites"
)

// Diskv keeps one JSON record per folder under BasePath/folder/<id>. Other
// processes may write the same files, so records are always read from disk.
type Diskv struct {
	d        *diskv.Diskv
	basePath string
}

var _ Backend = (*Diskv)(nil)

// NewDiskv creates a diskv backed engine rooted at basePath.
func NewDiskv(basePath string) *Diskv {
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
	}), basePath: basePath}
}

// BasePath is the directory holding the records.
func (p *Diskv) BasePath() string {
	return p.basePath
}

// readRaw reads key directly from disk, bypassing and evicting any cached copy.
func (p *Diskv) readRaw(key string) ([]byte, error) {
	r, err := p.d.ReadStream(key, true)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (p *Diskv) read(key string) (*folder.Node, error) {
	val, err := p.readRaw(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, unavailable("read "+key, err)
	}
	n := &folder.Node{}
	if err := json.Unmarshal(val, n); err != nil {
		return nil, unavailable("decode "+key, err)
	}
	n.ParentID = normalizeParent(n.ParentID)
	return n, nil
}

func (p *Diskv) Get(_ context.Context, id string) (*folder.Node, error) {
	if !validID(id) {
		return nil, ErrNotExist
	}
	return p.read(folderKey(id))
}

func (p *Diskv) Put(_ context.Context, n *folder.Node) error {
	if n == nil || !validID(n.ID) {
		return errInvalidRecord
	}
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := p.d.Write(folderKey(n.ID), data); err != nil {
		return unavailable("write "+n.ID, err)
	}
	return nil
}

func (p *Diskv) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return ErrNotExist
	}
	key := folderKey(id)
	if !p.d.Has(key) {
		return ErrNotExist
	}
	if err := p.d.Erase(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotExist
		}
		return unavailable("erase "+id, err)
	}
	return nil
}

func (p *Diskv) ListChildren(ctx context.Context, parentID string) ([]*folder.Node, error) {
	parentID = normalizeParent(parentID)
	all := make([]*folder.Node, 0)
	for key := range p.d.KeysPrefix(folderPrefix+"-", ctx.Done()) {
		n, err := p.read(key)
		if errors.Is(err, ErrNotExist) {
			// Erased between listing and reading.
			continue
		}
		if err != nil {
			return nil, err
		}
		if n.ParentID == parentID {
			all = append(all, n)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	folder.Sort(all)
	return all, nil
}

func (p *Diskv) ClearAll(_ context.Context) error {
	if err := p.d.EraseAll(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return unavailable("erase all", err)
	}
	logger.WithField("path", p.basePath).Info("store wiped")
	return nil
}

func (p *Diskv) LoadFavorites(_ context.Context) ([]folder.Favorite, error) {
	val, err := p.readRaw(favoritesKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []folder.Favorite{}, nil
		}
		return nil, unavailable("read favorites", err)
	}
	favs, err := folder.UnmarshalFavorites(val)
	if err != nil {
		return nil, unavailable("decode favorites", err)
	}
	return favs, nil
}

func (p *Diskv) SaveFavorites(_ context.Context, favs []folder.Favorite) error {
	data, err := folder.MarshalFavorites(favs)
	if err != nil {
		return err
	}
	if err := p.d.Write(favoritesKey, data); err != nil {
		return unavailable("write favorites", err)
	}
	return nil
}

func (p *Diskv) Close() error {
	return nil
}

// keyToPathTransform maps `folder-<id>` to folder/<id>. Only the first dash
// separates the bucket, ids may contain dashes.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) < 2 {
		return &diskv.PathKey{Path: []string{}, FileName: s}
	}
	return &diskv.PathKey{
		Path:     parts[:1],
		FileName: parts[1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func folderKey(id string) string {
	return folderPrefix + "-" + id
}
