package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/folder"
	"tableflip.dev/finder/pkg/folders"
	"tableflip.dev/finder/pkg/geometry"
	"tableflip.dev/finder/pkg/logging"
	"tableflip.dev/finder/pkg/runner/tea/internal/theme"
	"tableflip.dev/finder/pkg/store"
)

var logger = logging.For("tui")

type mode int

const (
	modeBrowse mode = iota
	modeInput
	modeMove
	modeConfirmWipe
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionCreate
	actionRename
)

type pane int

const (
	paneFolders pane = iota
	paneFavorites
)

const (
	// nudgeStep is how far one arrow press moves a dragged folder.
	nudgeStep = 10.0
	slotSize  = 100.0
	slotCols  = 4
)

const helpText = "j/k select · enter open · h back · l forward · u up · n new · r rename · d delete · f favorite · m move · tab favorites · W wipe · q quit"

// Model contains UI state. The folder hierarchy itself lives in the
// controller; the model only keeps the last View it rendered.
type Model struct {
	ctl   *finder.Controller
	ctx   context.Context
	watch <-chan store.Event

	mode   mode
	action action
	focus  pane

	view      *finder.View
	cursor    int
	favCursor int
	want      string

	renaming string
	dragID   string
	dragBy   folder.Position

	input  textinput.Model
	status string
	failed bool
	theme  theme.Theme

	termWidth  int
	termHeight int
}

// New creates a new UI model backed by the controller.
func New(ctl *finder.Controller) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""

	return Model{
		ctl:    ctl,
		ctx:    context.Background(),
		mode:   modeBrowse,
		focus:  paneFolders,
		input:  ti,
		status: "press ? for help",
		theme:  theme.Default(),
	}
}

// messages
type errMsg struct{ err error }
type viewLoadedMsg struct{ view *finder.View }
type storeEventMsg struct{ event store.Event }
type watchClosedMsg struct{}

// Init loads the first view and starts listening for store changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadView(), m.waitForEvent())
}

func (m *Model) loadView() tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		if ctl == nil {
			return nil
		}
		v, err := ctl.View(ctx)
		if err != nil {
			return errMsg{err}
		}
		return viewLoadedMsg{v}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	ch := m.watch
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return storeEventMsg{ev}
	}
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case errMsg:
		m.fail(msg.err)
	case viewLoadedMsg:
		m.setView(msg.view)
	case storeEventMsg:
		logger.WithField("event", msg.event.Type.String()).Debug("store changed")
		if err := m.ctl.Refresh(m.ctx, msg.event); err != nil {
			m.fail(err)
		}
		cmds = append(cmds, m.loadView(), m.waitForEvent())
	case watchClosedMsg:
		m.watch = nil
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeBrowse
			}
		case modeConfirmWipe:
			m.updateConfirm(msg, &cmds)
		case modeInput:
			m.updateInput(msg, &cmds)
		case modeMove:
			m.updateMove(msg, &cmds)
		default:
			m.updateBrowse(msg, &cmds)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateBrowse(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case "?":
		m.mode = modeHelp
	case "tab":
		if m.focus == paneFolders {
			m.focus = paneFavorites
		} else {
			m.focus = paneFolders
		}
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g":
		m.moveCursor(-len(m.items()))
	case "G":
		m.moveCursor(len(m.items()))

	case "enter":
		id := m.selectedID()
		if id == "" {
			return
		}
		if err := m.ctl.Navigate(m.ctx, id); err != nil {
			m.fail(err)
		} else {
			m.focus = paneFolders
			m.ok("")
		}
		*cmds = append(*cmds, m.loadView())
	case "h", "backspace":
		moved, err := m.ctl.GoBack(m.ctx)
		m.report(err, moved, "no previous folder")
		*cmds = append(*cmds, m.loadView())
	case "l":
		moved, err := m.ctl.GoForward(m.ctx)
		m.report(err, moved, "no next folder")
		*cmds = append(*cmds, m.loadView())
	case "u":
		if err := m.ctl.NavigateUp(m.ctx); err != nil {
			m.fail(err)
		}
		*cmds = append(*cmds, m.loadView())

	case "n":
		if _, err := m.ctl.StartCreate(m.nextSlot()); err != nil {
			m.fail(err)
			return
		}
		m.enterInput(actionCreate, "", folder.DefaultName, cmds)
	case "r":
		n := m.selectedFolder()
		if n == nil {
			return
		}
		if err := m.ctl.StartRename(m.ctx, n.ID); err != nil {
			m.fail(err)
			return
		}
		m.renaming = n.ID
		m.enterInput(actionRename, n.Name, "name", cmds)
	case "d":
		n := m.selectedFolder()
		if n == nil {
			return
		}
		removed, err := m.ctl.DeleteFolder(m.ctx, n.ID)
		switch {
		case errors.Is(err, folders.ErrNotEmpty):
			m.fail(fmt.Errorf("%s is not empty", n.DisplayName()))
		case err != nil:
			m.fail(err)
		case len(removed) > 1:
			m.ok(fmt.Sprintf("deleted %s and %d nested folder(s)", n.DisplayName(), len(removed)-1))
		default:
			m.ok("deleted " + n.DisplayName())
		}
		*cmds = append(*cmds, m.loadView())
	case "f":
		m.toggleFavorite()
		*cmds = append(*cmds, m.loadView())
	case "m":
		n := m.selectedFolder()
		if n == nil {
			return
		}
		if err := m.ctl.BeginDrag(m.ctx, n.ID); err != nil {
			m.fail(err)
			return
		}
		m.mode = modeMove
		m.dragID = n.ID
		m.dragBy = folder.Position{}
		m.ok("MOVE: arrows nudge, enter drop, esc cancel")
	case "W":
		m.mode = modeConfirmWipe
	}
}

func (m *Model) updateInput(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		var (
			n   *folder.Node
			err error
		)
		switch m.action {
		case actionCreate:
			n, err = m.ctl.CommitCreate(m.ctx, value)
		case actionRename:
			n, err = m.ctl.CommitRename(m.ctx, m.renaming, value)
		}
		if err != nil {
			// Stay in the editor so the name can be fixed or abandoned.
			m.fail(err)
			return
		}
		if m.action == actionCreate {
			m.ok("created " + n.DisplayName())
		} else {
			m.ok("renamed to " + n.DisplayName())
		}
		m.want = n.ID
		m.leaveInput()
		*cmds = append(*cmds, m.loadView())
	case "esc":
		switch m.action {
		case actionCreate:
			m.ctl.CancelCreate()
			m.ok("create cancelled")
		case actionRename:
			m.ctl.CancelRename()
			m.ok("rename cancelled")
		}
		m.leaveInput()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) updateMove(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.dragBy.X -= nudgeStep
	case "right", "l":
		m.dragBy.X += nudgeStep
	case "up", "k":
		m.dragBy.Y -= nudgeStep
	case "down", "j":
		m.dragBy.Y += nudgeStep
	case "enter":
		res, err := m.ctl.EndDrag(m.ctx, m.dragID, m.dragBy)
		switch {
		case err != nil:
			m.fail(err)
			m.ctl.CancelDrag()
		case res == nil:
			m.ok("drag expired")
		case res.Target != nil:
			m.ok(fmt.Sprintf("moved to %s (over %s)", res.Position, res.Target.DisplayName()))
		default:
			m.ok(fmt.Sprintf("moved to %s", res.Position))
		}
		m.want = m.dragID
		m.leaveMove()
		*cmds = append(*cmds, m.loadView())
	case "esc":
		m.ctl.CancelDrag()
		m.ok("move cancelled")
		m.leaveMove()
	}
}

func (m *Model) updateConfirm(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	m.mode = modeBrowse
	switch msg.String() {
	case "y", "Y":
		if err := m.ctl.WipeAll(m.ctx); err != nil {
			m.fail(err)
		} else {
			m.ok("wiped all folders and favorites")
		}
		*cmds = append(*cmds, m.loadView())
	default:
		m.ok("wipe cancelled")
	}
}

func (m *Model) enterInput(a action, value, placeholder string, cmds *[]tea.Cmd) {
	m.mode = modeInput
	m.action = a
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	if cmd := m.input.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) leaveInput() {
	m.mode = modeBrowse
	m.action = actionNone
	m.renaming = ""
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) leaveMove() {
	m.mode = modeBrowse
	m.dragID = ""
	m.dragBy = folder.Position{}
}

func (m *Model) toggleFavorite() {
	if m.focus == paneFavorites {
		id := m.selectedID()
		if id == "" {
			return
		}
		if _, err := m.ctl.RemoveFavorite(m.ctx, id); err != nil {
			m.fail(err)
			return
		}
		m.ok("removed favorite")
		return
	}

	n := m.selectedFolder()
	if n == nil {
		return
	}
	var err error
	if m.ctl.Favorites().Contains(n.ID) {
		_, err = m.ctl.RemoveFavorite(m.ctx, n.ID)
		m.ok("removed favorite " + n.DisplayName())
	} else {
		_, err = m.ctl.AddFavorite(m.ctx, n.ID)
		m.ok("added favorite " + n.DisplayName())
	}
	if err != nil {
		m.fail(err)
	}
}

func (m *Model) report(err error, moved bool, none string) {
	switch {
	case err != nil:
		m.fail(err)
	case !moved:
		m.ok(none)
	default:
		m.ok("")
	}
}

func (m *Model) ok(status string) {
	m.status = status
	m.failed = false
}

func (m *Model) fail(err error) {
	m.status = "ERR: " + err.Error()
	m.failed = true
}

// setView swaps in v and keeps the selection on the same folder when it is
// still listed.
func (m *Model) setView(v *finder.View) {
	if v == nil {
		return
	}
	prev := m.selectedFolderID()
	same := m.view != nil && m.view.CurrentFolderID == v.CurrentFolderID
	m.view = v

	want := m.want
	m.want = ""
	if want == "" && same {
		want = prev
	}
	m.cursor = 0
	for i, c := range v.Children {
		if c.ID == want {
			m.cursor = i
		}
	}
	if m.favCursor >= len(v.Favorites) {
		m.favCursor = len(v.Favorites) - 1
	}
	if m.favCursor < 0 {
		m.favCursor = 0
	}
}

func (m *Model) items() []string {
	if m.view == nil {
		return nil
	}
	var ids []string
	if m.focus == paneFavorites {
		for _, f := range m.view.Favorites {
			ids = append(ids, f.ID)
		}
		return ids
	}
	for _, c := range m.view.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

func (m *Model) moveCursor(delta int) {
	n := len(m.items())
	if n == 0 {
		return
	}
	cur := &m.cursor
	if m.focus == paneFavorites {
		cur = &m.favCursor
	}
	*cur += delta
	if *cur < 0 {
		*cur = 0
	}
	if *cur >= n {
		*cur = n - 1
	}
}

func (m *Model) selectedID() string {
	if m.focus == paneFavorites {
		if m.view == nil || m.favCursor >= len(m.view.Favorites) {
			return ""
		}
		return m.view.Favorites[m.favCursor].ID
	}
	return m.selectedFolderID()
}

func (m *Model) selectedFolderID() string {
	if n := m.selectedFolder(); n != nil {
		return n.ID
	}
	return ""
}

func (m *Model) selectedFolder() *folder.Node {
	if m.view == nil || m.focus != paneFolders || m.cursor >= len(m.view.Children) {
		return nil
	}
	return m.view.Children[m.cursor]
}

// nextSlot places new folders on a grid after the existing children.
func (m *Model) nextSlot() folder.Position {
	n := 0
	if m.view != nil {
		n = len(m.view.Children)
	}
	return folder.Position{
		X: float64(n%slotCols) * slotSize,
		Y: float64(n/slotCols) * slotSize,
	}
}

func (m Model) nameWidth() uint {
	if m.termWidth <= 0 {
		return 32
	}
	w := m.termWidth/2 - 16
	if w < 8 {
		w = 8
	}
	return uint(w)
}

// View renders the breadcrumb, the folder and favorites columns and the
// footer.
func (m Model) View() string {
	if m.view == nil {
		return "loading…"
	}
	t := m.theme
	v := m.view

	crumbs := make([]string, 0, len(v.Breadcrumb))
	for _, c := range v.Breadcrumb {
		crumbs = append(crumbs, c.Name)
	}
	header := t.Crumb.Render(strings.Join(crumbs, " › "))

	left := m.renderFolders()
	right := m.renderFavorites()
	gap := lipgloss.NewStyle().Padding(0, 2).Render
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, gap(" "), right)

	out := header + "\n" + t.Title.Render(v.CurrentFolderName) + "\n\n" + body

	switch m.mode {
	case modeInput:
		prompt := "New folder: "
		if m.action == actionRename {
			prompt = "Rename: "
		}
		out += "\n\n" + prompt + m.input.View()
	case modeConfirmWipe:
		out += "\n\n" + t.Confirm.Render("Delete every folder and favorite? (y/N)")
	case modeHelp:
		out += "\n\n" + lipgloss.NewStyle().Italic(true).Render(helpText)
	}

	status := t.Footer.Status
	if m.failed {
		status = t.Footer.Error
	}
	label := t.Footer.Mode.Render(fmt.Sprintf("[%s]", strings.ToUpper(m.modeLabel())))
	return out + "\n\n" + label + " " + status.Render(m.status)
}

func (m Model) modeLabel() string {
	switch m.mode {
	case modeInput:
		if m.action == actionRename {
			return finder.RenamingFolder.String()
		}
		return finder.CreatingFolder.String()
	case modeMove:
		return finder.Dragging.String()
	case modeConfirmWipe:
		return "wipe"
	case modeHelp:
		return "help"
	default:
		return finder.Browsing.String()
	}
}

func (m Model) renderFolders() string {
	t := m.theme.Pane
	head := t.Header
	if m.focus == paneFolders {
		head = t.HeaderFocused
	}
	lines := []string{head.Render(fmt.Sprintf("Folders (%d)", len(m.view.Children)))}
	if len(m.view.Children) == 0 {
		lines = append(lines, t.Empty.Render("  empty"))
	}
	for i, c := range m.view.Children {
		marker := "  "
		style := t.Item
		if m.focus == paneFolders && i == m.cursor {
			marker = "→ "
			style = t.Selected
		}
		name := truncate.StringWithTail(c.DisplayName(), m.nameWidth(), "…")
		pos := "@" + c.Position.String()
		if m.mode == modeMove && c.ID == m.dragID {
			style = m.theme.Dragging
			dest := geometry.ClampToCanvas(geometry.ApplyDrag(c.Position, m.dragBy), geometry.Size{})
			pos += " → @" + dest.String()
		}
		line := marker + style.Render("▸ "+name) + " " + t.Position.Render(pos)
		if m.ctl != nil && m.ctl.Favorites().Contains(c.ID) {
			line += " " + t.Star.Render("★")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFavorites() string {
	t := m.theme.Pane
	head := t.Header
	if m.focus == paneFavorites {
		head = t.HeaderFocused
	}
	lines := []string{head.Render("Favorites")}
	if len(m.view.Favorites) == 0 {
		lines = append(lines, t.Empty.Render("  none"))
	}
	for i, f := range m.view.Favorites {
		marker := "  "
		style := t.Item
		if m.focus == paneFavorites && i == m.favCursor {
			marker = "→ "
			style = t.Selected
		}
		name := f.Name
		if name == "" {
			name = folder.Placeholder
		}
		name = truncate.StringWithTail(name, m.nameWidth(), "…")
		lines = append(lines, marker+t.Star.Render("★")+" "+style.Render(name))
	}
	return strings.Join(lines, "\n")
}

// Run launches the UI and blocks until it exits. When w is not nil the view
// refreshes whenever another process changes the store.
func Run(ctx context.Context, ctl *finder.Controller, w store.Watcher) error {
	m := New(ctl)
	m.ctx = ctx
	if w != nil {
		ch, err := w.Watch(ctx)
		if err != nil {
			logger.WithError(err).Warn("watching store, live refresh disabled")
		} else {
			m.watch = ch
		}
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
