package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/benchray/benchray/pkg/config"
	"github.com/benchray/benchray/pkg/geom"
	"github.com/benchray/benchray/pkg/scene"
	"github.com/benchray/benchray/pkg/scene/aperture"
	"github.com/benchray/benchray/pkg/sceneio"
)

// editCommand creates the edit command for the interactive terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [scene.json]",
		Short: "Edit a scene in the interactive terminal editor",
		Long: `Open a scene in the terminal editor.

If the file does not exist, an empty scene is created and written there on
save. Every edit triggers an aperture propagation pass over the affected
trace hierarchy, so the canvas always shows consistent radii and cone
angles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runEdit(args[0], cfg.Editor)
		},
	}
	return cmd
}

// runEdit loads (or creates) the scene and runs the bubbletea program.
func (c *CLI) runEdit(path string, cfg config.EditorConfig) error {
	s, doc, err := sceneio.ReadSceneFile(path)
	if err != nil {
		s = scene.New()
		doc = sceneio.Document{}
	}

	model := newEditorModel(s, doc.Name, path, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if m, ok := final.(editorModel); ok && m.dirty {
		printInfo("Unsaved changes were discarded")
	}
	return nil
}

// editorModel is the bubbletea model for the schematic editor.
type editorModel struct {
	scene    *scene.Scene
	name     string
	path     string
	cfg      config.EditorConfig
	selected int // element ID, 0 when the scene is empty
	updated  int // elements changed by the last propagation pass
	status   string
	dirty    bool
}

func newEditorModel(s *scene.Scene, name, path string, cfg config.EditorConfig) editorModel {
	m := editorModel{
		scene: s,
		name:  name,
		path:  path,
		cfg:   cfg,
	}
	if ids := s.IDs(); len(ids) > 0 {
		m.selected = ids[0]
	}
	return m
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "tab":
		m.selectNext(1)
	case "shift+tab":
		m.selectNext(-1)

	case "left", "h":
		m.moveSelected(-m.cfg.MoveStep, 0)
	case "right", "l":
		m.moveSelected(m.cfg.MoveStep, 0)
	case "up", "k":
		m.moveSelected(0, -m.cfg.MoveStep)
	case "down", "j":
		m.moveSelected(0, m.cfg.MoveStep)

	case "r":
		m.rotateSelected(m.cfg.RotateStep)
	case "R":
		m.rotateSelected(-m.cfg.RotateStep)

	case "f":
		m.flipSelected()
	case "m":
		m.cycleModel()
	case "v":
		m.toggleVisible()

	case "+", "=":
		m.scaleSelected(1)
	case "-", "_":
		m.scaleSelected(-1)

	case "a":
		m.addElement(m.selected)
	case "A":
		m.addElement(0)
	case "x", "delete":
		m.deleteSelected()

	case "s":
		m.save()
	}

	return m, nil
}

func (m *editorModel) selectNext(dir int) {
	ids := m.scene.IDs()
	if len(ids) == 0 {
		m.selected = 0
		return
	}
	idx := 0
	for i, id := range ids {
		if id == m.selected {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(ids)) % len(ids)
	m.selected = ids[idx]
	m.status = ""
}

func (m *editorModel) moveSelected(dx, dy float64) {
	e, ok := m.scene.Element(m.selected)
	if !ok {
		return
	}
	e.X += dx
	e.Y += dy
	m.afterEdit(e.ID)
}

func (m *editorModel) rotateSelected(deg float64) {
	e, ok := m.scene.Element(m.selected)
	if !ok {
		return
	}
	e.Rotation = math.Mod(e.Rotation+deg, 360)

	// Rotation can mirror the aperture relative to the parent; pick the
	// orientation that avoids crossing rays.
	if parent, ok := m.scene.Element(e.ParentID); ok {
		e.Desc.Flipped = aperture.ResolveCrossing(e, parent)
	}
	m.afterEdit(e.ID)
}

func (m *editorModel) flipSelected() {
	e, ok := m.scene.Element(m.selected)
	if !ok {
		return
	}
	e.Desc.Flipped = !e.Desc.Flipped
	m.afterEdit(e.ID)
}

func (m *editorModel) cycleModel() {
	e, ok := m.scene.Element(m.selected)
	if !ok {
		return
	}
	switch e.Desc.Model {
	case scene.Collimated:
		e.Desc.Model = scene.Divergent
	case scene.Divergent:
		e.Desc.Model = scene.Convergent
	case scene.Convergent:
		e.Desc.Model = scene.Manual
	default:
		e.Desc.Model = scene.Collimated
	}
	// A model change invalidates any persisted divergent angle.
	e.Desc.ConeAngle = 0
	m.afterEdit(e.ID)
}

func (m *editorModel) toggleVisible() {
	e, ok := m.scene.Element(m.selected)
	if !ok {
		return
	}
	e.Visible = !e.Visible
	m.dirty = true
}

func (m *editorModel) scaleSelected(dir int) {
	e, ok := m.scene.Element(m.selected)
	if !ok {
		return
	}
	radius := e.Desc.Radius + float64(dir)
	if radius <= 0 || radius > scene.MaxRadius {
		m.status = fmt.Sprintf("radius must stay in (0, %v]", scene.MaxRadius)
		return
	}
	e.Desc.Radius = radius
	// Manual radii stick; for the other models propagation re-derives the
	// subtree from the new baseline.
	m.afterEdit(e.ID)
}

func (m *editorModel) addElement(parentID int) {
	model, _ := scene.ParseRayModel(m.cfg.DefaultModel)
	e := scene.Element{
		Type:    "element",
		Visible: true,
		Desc: scene.Descriptor{
			Up:      geom.V(0, -1),
			Forward: geom.V(1, 0),
			Radius:  m.cfg.DefaultRadius,
			Model:   model,
		},
	}
	if parent, ok := m.scene.Element(parentID); ok {
		e.X = parent.X + 4*m.cfg.MoveStep
		e.Y = parent.Y
	}

	id, err := m.scene.Insert(e, parentID)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.selected = id

	if elem, ok := m.scene.Element(id); ok {
		if parent, ok := m.scene.Element(elem.ParentID); ok {
			elem.Desc.Flipped = aperture.ResolveCrossing(elem, parent)
		}
	}
	m.afterEdit(id)
}

func (m *editorModel) deleteSelected() {
	if err := m.scene.Remove(m.selected); err != nil {
		return
	}
	m.dirty = true
	m.selected = 0
	if ids := m.scene.IDs(); len(ids) > 0 {
		m.selected = ids[0]
	}
	m.status = ""
}

// afterEdit runs one propagation pass over the edited element's subtree.
func (m *editorModel) afterEdit(id int) {
	m.updated = aperture.Propagate(m.scene, id)
	m.dirty = true
	m.status = ""
}

func (m *editorModel) save() {
	if err := sceneio.WriteSceneFile(m.scene, m.name, m.path); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.dirty = false
	m.status = "saved " + m.path
}

// Canvas styles.
var (
	canvasBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	canvasSelected = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	canvasElement  = lipgloss.NewStyle().Foreground(colorWhite)
	canvasRay      = lipgloss.NewStyle().Foreground(colorYellow)
	canvasHidden   = lipgloss.NewStyle().Foreground(colorDim)
)

func (m editorModel) View() string {
	var b strings.Builder

	title := m.name
	if title == "" {
		title = m.path
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render("benchray — " + title))
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab select  arrows move  r/R rotate  f flip  m model  +/- radius  a/A add  x delete  v hide  s save  q quit"))

	return b.String()
}

// renderStatus describes the selected element, or the last error.
func (m editorModel) renderStatus() string {
	if m.status != "" {
		return StyleWarning.Render(m.status)
	}
	e, ok := m.scene.Element(m.selected)
	if !ok {
		return StyleDim.Render("empty scene — press A to add a root element")
	}
	parent := "root"
	if e.ParentID != 0 {
		parent = fmt.Sprintf("child of #%d", e.ParentID)
	}
	info := fmt.Sprintf("#%d %s  %s  r=%.1f θ=%.2f°  (%.0f, %.0f) rot %.0f°  %s",
		e.ID, e.Type, e.Desc.Model, e.Desc.Radius, e.Desc.ConeAngle,
		e.X, e.Y, e.Rotation, parent)
	if m.updated > 0 {
		info += StyleDim.Render(fmt.Sprintf("  · %d apertures updated", m.updated))
	}
	return info
}

// cell is one canvas character with its style.
type cell struct {
	ch    rune
	style lipgloss.Style
}

// renderCanvas projects the scene onto a character grid: rays first, then
// aperture bars, then pivots, so the foreground layers win.
func (m editorModel) renderCanvas() string {
	w, h := m.cfg.CanvasWidth, m.cfg.CanvasHeight
	if w <= 0 {
		w = 120
	}
	if h <= 0 {
		h = 36
	}

	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' '}
		}
	}

	project := m.projector(w, h)

	for _, id := range m.scene.IDs() {
		e, _ := m.scene.Element(id)
		parent, ok := m.scene.Element(e.ParentID)
		if !ok {
			continue
		}
		s1, s2 := aperture.ConnectionSegments(e, parent)
		drawLine(grid, project(s1.A), project(s1.B), '·', canvasRay)
		drawLine(grid, project(s2.A), project(s2.B), '·', canvasRay)
	}

	for _, id := range m.scene.IDs() {
		e, _ := m.scene.Element(id)
		style := canvasElement
		if !e.Visible {
			style = canvasHidden
		}
		if id == m.selected {
			style = canvasSelected
		}

		upper, lower := e.ApertureEndpoints()
		drawLine(grid, project(upper), project(lower), '█', style)

		pivot := project(e.WorldPivot())
		mark := 'o'
		if id == m.selected {
			mark = '@'
		}
		setCell(grid, pivot, mark, style)
	}

	rows := make([]string, h)
	for y, row := range grid {
		var line strings.Builder
		for _, c := range row {
			if c.ch == ' ' {
				line.WriteByte(' ')
				continue
			}
			line.WriteString(c.style.Render(string(c.ch)))
		}
		rows[y] = line.String()
	}
	return canvasBorder.Render(strings.Join(rows, "\n"))
}

// projector maps world coordinates onto the character grid with a uniform
// scale, compensating for the roughly 2:1 cell aspect ratio of terminals.
func (m editorModel) projector(w, h int) func(geom.Vec) [2]int {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, id := range m.scene.IDs() {
		e, _ := m.scene.Element(id)
		upper, lower := e.ApertureEndpoints()
		for _, p := range []geom.Vec{e.WorldPivot(), upper, lower} {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return func(geom.Vec) [2]int { return [2]int{w / 2, h / 2} }
	}

	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)
	// Characters are about twice as tall as wide.
	scale := math.Min(float64(w-4)/spanX, 2*float64(h-2)/spanY)

	return func(p geom.Vec) [2]int {
		x := (p.X-minX)*scale + (float64(w)-spanX*scale)/2
		y := ((p.Y-minY)*scale + (2*float64(h)-spanY*scale)/2) / 2
		return [2]int{int(math.Round(x)), int(math.Round(y))}
	}
}

func setCell(grid [][]cell, p [2]int, ch rune, style lipgloss.Style) {
	if p[1] < 0 || p[1] >= len(grid) || p[0] < 0 || p[0] >= len(grid[p[1]]) {
		return
	}
	grid[p[1]][p[0]] = cell{ch: ch, style: style}
}

// drawLine rasterizes a segment onto the grid by uniform stepping.
func drawLine(grid [][]cell, a, b [2]int, ch rune, style lipgloss.Style) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		setCell(grid, a, ch, style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := [2]int{
			a[0] + int(math.Round(t*float64(dx))),
			a[1] + int(math.Round(t*float64(dy))),
		}
		setCell(grid, p, ch, style)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
