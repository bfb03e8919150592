package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folder"
)

// PrettyPrint renders folders and favorites for a terminal.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Breadcrumb prints the path to the current folder.
func (pp *PrettyPrint) Breadcrumb(crumbs []finder.Crumb) {
	names := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		names = append(names, c.Name)
	}
	f := color.New(color.Faint)
	_, _ = f.Fprintln(pp.out(), strings.Join(names, " › "))
}

// Folders prints one row per folder with its canvas position.
func (pp *PrettyPrint) Folders(nodes ...*folder.Node) {
	if len(nodes) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	p := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, n := range nodes {
		row := []interface{}{"▸ " + n.DisplayName(), p.Sprint("@" + n.Position.String())}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(n.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Favorites prints the sidebar list.
func (pp *PrettyPrint) Favorites(favs ...folder.Favorite) {
	if len(favs) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	star := color.New(color.FgYellow)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, f := range favs {
		name := f.Name
		if name == "" {
			name = folder.Placeholder
		}
		row := []interface{}{star.Sprint("★"), name}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(f.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// View prints the breadcrumb, the children and the favorites of v.
func (pp *PrettyPrint) View(v *finder.View) {
	pp.Breadcrumb(v.Breadcrumb)
	pp.TitleWithCount(v.CurrentFolderName, len(v.Children), "folder")
	pp.Folders(v.Children...)
	pp.TitleWithCount("Favorites", len(v.Favorites), "favorite")
	pp.Favorites(v.Favorites...)
}

// Drop describes the outcome of a move.
func (pp *PrettyPrint) Drop(name string, res *finder.DropResult) {
	if res == nil {
		return
	}
	_, _ = fmt.Fprintf(pp.out(), "moved %s to %s", name, res.Position)
	if res.Target != nil {
		_, _ = color.New(color.Faint).Fprintf(pp.out(), " (over %s)", res.Target.DisplayName())
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}
