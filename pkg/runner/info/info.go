package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/finder/pkg/config"
	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/store"
)

// Info reports where folders are stored and how much is there.
type Info struct {
	Config  *config.Config
	Backend store.Backend
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("FINDER_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "FINDER_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "FINDER_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		if n.Config, err = config.Load(nil); err != nil {
			return err
		}
	}
	if n.Backend == nil {
		return fmt.Errorf("info: failed to open storage")
	}

	file := n.Config.File
	if file == "" {
		file = "(defaults)"
	}
	policy := "block"
	if n.Config.DeleteCascade {
		policy = "cascade"
	}

	top, err := n.Backend.ListChildren(ctx, folder.RootID)
	if err != nil {
		return err
	}
	favs, err := n.Backend.LoadFavorites(ctx)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Config file"), file)
	tbl.AddRow(bold.Sprint("Path"), n.Config.BasePath())
	tbl.AddRow(bold.Sprint("Backend"), n.Config.Engine())
	tbl.AddRow(bold.Sprint("Delete"), policy)
	tbl.AddRow(bold.Sprint("Top-level folders"), len(top))
	tbl.AddRow(bold.Sprint("Favorites"), len(favs))
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
