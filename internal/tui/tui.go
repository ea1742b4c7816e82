package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/strrl/docuflow/internal/api"
	"github.com/strrl/docuflow/internal/i18n"
	"github.com/strrl/docuflow/internal/nav"
	"github.com/strrl/docuflow/internal/viewer"
)

const (
	headerHeight = 2
	footerHeight = 1
)

// Options configures the terminal UI
type Options struct {
	Source          api.Source
	UserID          string
	Language        i18n.Language
	QualifyLanguage bool
	Logger          logrus.FieldLogger
}

type model struct {
	ctx     context.Context
	source  api.Source
	tr      *i18n.Translator
	viewer  *viewer.Viewer
	sidebar *nav.Sidebar
	router  *nav.Router

	viewport  viewport.Model
	indicator *LoadingIndicator
	cursor    int
	ticking   bool
	ready     bool
	width     int
	height    int
}

func initialModel(ctx context.Context, opts Options) model {
	lang := opts.Language
	if lang == "" {
		lang = i18n.English
	}
	tr := i18n.MustNew(lang)
	router, _ := nav.NewRouter(nav.RouteViewSummary)
	sidebar := nav.NewSidebar()
	sidebar.MoveTo(nav.RouteViewSummary)

	return model{
		ctx:    ctx,
		source: opts.Source,
		tr:     tr,
		viewer: viewer.New(viewer.Options{
			UserID:          opts.UserID,
			Language:        lang,
			QualifyLanguage: opts.QualifyLanguage,
			Logger:          opts.Logger,
		}),
		sidebar:   sidebar,
		router:    router,
		indicator: NewLoadingIndicator(tr.T("loading") + "..."),
		// Init starts the first tick
		ticking: true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadDocumentsCmd(m.ctx, m.source, m.viewer.UserID()),
		tickCmd(),
	)
}

// startTicking returns a tick command unless one is already pending
func (m *model) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tickCmd()
}

func (m model) busy() bool {
	return !m.viewer.DocumentsLoaded() || m.viewer.Loading()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.pageWidth(), m.pageHeight())
			m.ready = true
		} else {
			m.resizeViewport()
		}
		m.updateViewport()

	case DocumentsLoadedMsg:
		m.viewer.SetDocuments(msg.Documents, msg.Error)
		m.clampCursor()
		m.updateViewport()

	case SummaryLoadedMsg:
		m.viewer.Resolve(msg.Result)
		m.updateViewport()

	case TickMsg:
		m.ticking = false
		if m.busy() {
			m.indicator.Tick()
			m.updateViewport()
			cmds = append(cmds, m.startTicking())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.sidebar.SetFocus(!m.sidebar.Focused())
			m.updateViewport()

		case "[":
			m.sidebar.Toggle()
			m.resizeViewport()
			m.updateViewport()

		case "l":
			cmds = append(cmds, m.toggleLanguage())

		case "up", "k":
			if m.sidebar.Focused() {
				m.sidebar.MoveUp()
			} else if m.cursor > 0 {
				m.cursor--
			}
			m.updateViewport()

		case "down", "j":
			if m.sidebar.Focused() {
				m.sidebar.MoveDown()
			} else if m.cursor < len(m.viewer.Documents())-1 {
				m.cursor++
			}
			m.updateViewport()

		case "enter", " ":
			if m.sidebar.Focused() {
				if err := m.router.Navigate(m.sidebar.Selected().Path); err == nil {
					m.sidebar.SetFocus(false)
				}
			} else {
				cmds = append(cmds, m.toggleSelected())
			}
			m.updateViewport()

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// toggleSelected opens or closes the accordion row under the cursor
func (m *model) toggleSelected() tea.Cmd {
	if !m.router.IsActive(nav.RouteViewSummary) {
		return nil
	}
	docs := m.viewer.Documents()
	if m.cursor >= len(docs) {
		return nil
	}
	return m.fetch(m.viewer.Toggle(docs[m.cursor].ID))
}

func (m *model) toggleLanguage() tea.Cmd {
	lang, req := m.viewer.ToggleLanguage()
	// lang always comes from the supported set
	_ = m.tr.ChangeLanguage(string(lang))
	m.indicator.SetMessage(m.tr.T("loading") + "...")
	cmd := m.fetch(req)
	m.updateViewport()
	return cmd
}

func (m *model) fetch(req *viewer.FetchRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	return tea.Batch(fetchSummaryCmd(m.ctx, m.source, *req), m.startTicking())
}

func (m *model) clampCursor() {
	if n := len(m.viewer.Documents()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) pageWidth() int {
	w := m.width - m.sidebar.Width()
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) pageHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m *model) resizeViewport() {
	m.viewport.Width = m.pageWidth()
	m.viewport.Height = m.pageHeight()
}

func (m *model) updateViewport() {
	if !m.ready {
		return
	}
	content, cursorLine := m.renderPage()
	m.viewport.SetContent(content)
	m.ensureCursorVisible(cursorLine)
}

func (m *model) ensureCursorVisible(line int) {
	if line < 0 {
		return
	}
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

var (
	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	panelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			PaddingLeft(4)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// renderPage renders the active route and reports the line of the cursor
// row, or -1 when there is none
func (m model) renderPage() (string, int) {
	if !m.router.IsActive(nav.RouteViewSummary) {
		return placeholderStyle.Render(m.tr.T("pageUnavailable")), -1
	}

	if !m.viewer.DocumentsLoaded() {
		return m.indicator.View(), -1
	}
	if m.viewer.Empty() {
		return placeholderStyle.Render(m.tr.T("noDocuments")), -1
	}

	var s strings.Builder
	line, cursorLine := 0, -1
	wrapWidth := m.viewport.Width - 6
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	for i, row := range m.viewer.Rows() {
		chevron := "▸"
		if row.Expanded {
			chevron = "▾"
		}
		cursor := "  "
		style := rowStyle
		if i == m.cursor && !m.sidebar.Focused() {
			cursor = "> "
			style = selectedRowStyle
		}
		if i == m.cursor {
			cursorLine = line
		}

		s.WriteString(style.Render(fmt.Sprintf("%s%s %s", cursor, chevron, row.Doc.Title)) + "\n")
		line++

		if row.Expanded {
			var body []string
			if m.viewer.Loading() {
				subject := fmt.Sprintf("%s (%s)", row.Doc.Title, m.viewer.Language().Name())
				body = []string{m.indicator.ViewFor(subject)}
			} else {
				body = WrapText(m.viewer.PanelText(m.tr), wrapWidth)
			}
			for _, l := range body {
				s.WriteString(panelStyle.Render(l) + "\n")
				line++
			}
			s.WriteString("\n")
			line++
		}
	}

	return s.String(), cursorLine
}

// WrapText wraps text to fit within width cells, keeping explicit line breaks
func WrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if lipgloss.Width(currentLine)+1+lipgloss.Width(word) > width {
				lines = append(lines, currentLine)
				currentLine = word
			} else {
				currentLine += " " + word
			}
		}
		lines = append(lines, currentLine)
	}

	return lines
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	page := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.sidebar.View(m.tr, m.router, m.height),
		page,
	)
}

func (m model) renderHeader() string {
	title := m.tr.T("documentSummaries")
	if active := m.router.Active(); active != nav.RouteViewSummary {
		for _, route := range nav.Routes {
			if route.Path == active {
				title = m.tr.T(route.LabelKey)
			}
		}
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("63")).
		Padding(0, 1)

	buttonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("35")).
		Padding(0, 1)

	left := titleStyle.Render(title)
	right := buttonStyle.Render(m.tr.ToggleLabel())
	gap := m.pageWidth() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + right + "\n"
}

func (m model) renderFooter() string {
	hints := []string{
		m.tr.T("hintNavigate"),
		m.tr.T("hintToggle"),
		m.tr.T("hintLanguage"),
		m.tr.T("hintFocus"),
		m.tr.T("hintSidebar"),
		m.tr.T("hintQuit"),
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MaxWidth(m.pageWidth())

	return style.Render(strings.Join(hints, " • "))
}

// ShowTUI runs the viewer until the user quits
func ShowTUI(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		initialModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
