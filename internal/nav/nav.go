package nav

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Translator looks up display strings
type Translator interface {
	T(key string) string
}

// Route is one entry of the navigation table
type Route struct {
	Path     string
	Icon     string
	LabelKey string
}

// Link is a Route with its label resolved for the current language
type Link struct {
	Route
	Label string
}

// Paths the viewer refers to directly
const (
	RouteDashboard   = "/dashboard"
	RouteViewSummary = "/view-summary"
)

// Routes is the fixed navigation table, in display order
var Routes = []Route{
	{Path: RouteDashboard, Icon: "▦", LabelKey: "dashboard"},
	{Path: "/uploadfile", Icon: "⇪", LabelKey: "documents"},
	{Path: "/uploadurl", Icon: "⛓", LabelKey: "uploadLink"},
	{Path: "/history", Icon: "◷", LabelKey: "history"},
	{Path: "/help", Icon: "?", LabelKey: "help"},
	{Path: "/compliance", Icon: "≡", LabelKey: "compliance"},
	{Path: RouteViewSummary, Icon: "◉", LabelKey: "viewsummary"},
	{Path: "/analytics", Icon: "↗", LabelKey: "analytics"},
	{Path: "/about", Icon: "</>", LabelKey: "about"},
	{Path: "/admin-options", Icon: "♛", LabelKey: "adminOptions"},
}

// Router tracks the active route
type Router struct {
	active string
}

// NewRouter starts at initial, which must be a known route
func NewRouter(initial string) (*Router, error) {
	r := &Router{}
	if err := r.Navigate(initial); err != nil {
		return nil, err
	}
	return r, nil
}

// Active returns the active route path
func (r *Router) Active() string { return r.active }

// IsActive reports whether path is the active route
func (r *Router) IsActive(path string) bool { return r.active == path }

// Navigate makes path the active route
func (r *Router) Navigate(path string) error {
	for _, route := range Routes {
		if route.Path == path {
			r.active = path
			return nil
		}
	}
	return fmt.Errorf("unknown route %q", path)
}

// Sidebar is the collapsible navigation shell
type Sidebar struct {
	expanded bool
	cursor   int
	focused  bool
}

// NewSidebar returns an expanded sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{expanded: true}
}

// Expanded reports whether labels are shown
func (s *Sidebar) Expanded() bool { return s.expanded }

// Toggle flips between expanded and collapsed
func (s *Sidebar) Toggle() { s.expanded = !s.expanded }

// Focused reports whether keys go to the sidebar
func (s *Sidebar) Focused() bool { return s.focused }

// SetFocus moves key focus to or from the sidebar
func (s *Sidebar) SetFocus(f bool) { s.focused = f }

// Cursor returns the index of the highlighted route
func (s *Sidebar) Cursor() int { return s.cursor }

// Selected returns the route under the cursor
func (s *Sidebar) Selected() Route { return Routes[s.cursor] }

// MoveUp moves the cursor up one route
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor down one route
func (s *Sidebar) MoveDown() {
	if s.cursor < len(Routes)-1 {
		s.cursor++
	}
}

// MoveTo puts the cursor on path, if it exists
func (s *Sidebar) MoveTo(path string) {
	for i, route := range Routes {
		if route.Path == path {
			s.cursor = i
			return
		}
	}
}

// ToggleHint is the accessible label of the collapse control
func (s *Sidebar) ToggleHint(t Translator) string {
	if s.expanded {
		return t.T("collapseSidebar")
	}
	return t.T("expandSidebar")
}

// Links resolves labels for the current language
func (s *Sidebar) Links(t Translator) []Link {
	links := make([]Link, 0, len(Routes))
	for _, route := range Routes {
		links = append(links, Link{Route: route, Label: t.T(route.LabelKey)})
	}
	return links
}

// Width is the rendered width in cells
func (s *Sidebar) Width() int {
	if s.expanded {
		return 28
	}
	return 7
}

var (
	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("35"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("28")).
			Background(lipgloss.Color("194"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// View renders the sidebar at the given height
func (s *Sidebar) View(t Translator, router *Router, height int) string {
	width := s.Width()
	var b strings.Builder

	brand := "▦"
	if s.expanded {
		brand = t.T("brand")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width-1, lipgloss.Center, brandStyle.Render(brand)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", width-1))
	b.WriteString("\n")

	for i, link := range s.Links(t) {
		cursor := "  "
		if s.focused && i == s.cursor {
			cursor = cursorStyle.Render("> ")
		}

		text := link.Icon
		if s.expanded {
			text = fmt.Sprintf("%s  %s", link.Icon, link.Label)
		}

		style := linkStyle
		if router != nil && router.IsActive(link.Path) {
			style = activeStyle
		}
		b.WriteString(cursor + style.Render(text) + "\n")
	}

	chevron := "»"
	if s.expanded {
		chevron = "«"
	}
	hint := chevron
	if s.expanded {
		hint = fmt.Sprintf("%s %s", chevron, s.ToggleHint(t))
	}
	b.WriteString("\n" + hintStyle.Render(hint))

	return lipgloss.NewStyle().
		Width(width - 1).
		Height(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(lipgloss.Color("238")).
		Render(b.String())
}
