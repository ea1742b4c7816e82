package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/docuflow/internal/i18n"
	"github.com/strrl/docuflow/internal/nav"
	"github.com/strrl/docuflow/pkg/models"
)

type fakeSource struct {
	mu        sync.Mutex
	docs      []models.Document
	listErr   error
	summaries map[string]string // key: docID + "/" + lang
	sumErr    error
	calls     map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		docs: []models.Document{
			{ID: "d1", Title: "Lease agreement"},
			{ID: "d2", Title: "Board minutes"},
		},
		summaries: map[string]string{
			"d1/en": "A twelve month lease for the ground floor.",
			"d1/ml": "പന്ത്രണ്ട് മാസത്തെ പാട്ടം.",
			"d2/en": "The board approved the budget.",
		},
		calls: make(map[string]int),
	}
}

func (f *fakeSource) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

func (f *fakeSource) GetSummary(ctx context.Context, docID models.DocID, lang string) (models.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := string(docID) + "/" + lang
	f.calls[key]++
	if f.sumErr != nil {
		return models.Summary{}, f.sumErr
	}
	return models.Summary{DocID: docID, Language: lang, Summary: f.summaries[key]}, nil
}

func (f *fakeSource) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func newTestModel(t *testing.T, src *fakeSource) (model, *logtest.Hook) {
	t.Helper()
	tickInterval = time.Millisecond

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	m := initialModel(context.Background(), Options{
		Source:   src,
		UserID:   "u1",
		Language: i18n.English,
		Logger:   logger,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(model), hook
}

// drain runs cmd and feeds every data message it produces back into the
// model. Ticks are not fed back so the animation loop terminates.
func drain(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		return m
	}

	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case DocumentsLoadedMsg, SummaryLoadedMsg:
		updated, next := m.Update(msg)
		m = drain(t, updated.(model), next)
	}
	return m
}

func press(t *testing.T, m model, key tea.KeyMsg) model {
	t.Helper()
	updated, cmd := m.Update(key)
	return drain(t, updated.(model), cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

// TestModelInitialization tests the initial model setup
func TestModelInitialization(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource())

	if !m.router.IsActive(nav.RouteViewSummary) {
		t.Error("Summary page should be active")
	}
	if !m.sidebar.Expanded() {
		t.Error("Sidebar should start expanded")
	}
	if m.viewer.DocumentsLoaded() {
		t.Error("Documents should not be loaded before Init runs")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Error("Loading indicator should be shown before documents arrive")
	}
}

func TestInitLoadsDocuments(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource())
	m = drain(t, m, m.Init())

	require.True(t, m.viewer.DocumentsLoaded())
	view := m.View()
	assert.Contains(t, view, "Lease agreement")
	assert.Contains(t, view, "Board minutes")
	assert.Contains(t, view, "Document Summaries")
	assert.Contains(t, view, "മലയാളം")
}

func TestEmptyListShowsPlaceholder(t *testing.T) {
	src := newFakeSource()
	src.docs = nil
	m, _ := newTestModel(t, src)
	m = drain(t, m, m.Init())

	assert.Contains(t, m.View(), "No documents found.")
}

func TestListFailureIsLoggedAndShowsPlaceholder(t *testing.T) {
	src := newFakeSource()
	src.listErr = errors.New("connection refused")
	m, hook := newTestModel(t, src)
	m = drain(t, m, m.Init())

	assert.Contains(t, m.View(), "No documents found.")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Error fetching docs", hook.LastEntry().Message)
}

func TestExpandAndCollapse(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(t, src)
	m = drain(t, m, m.Init())

	m = press(t, m, enterKey)
	assert.Equal(t, models.DocID("d1"), m.viewer.Expanded())
	assert.Contains(t, m.View(), "A twelve month lease")
	assert.Contains(t, m.View(), "▾ Lease agreement")

	m = press(t, m, enterKey)
	assert.True(t, m.viewer.Expanded().IsZero())
	assert.NotContains(t, m.View(), "A twelve month lease")
}

func TestOpeningAnotherDocumentClosesTheFirst(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource())
	m = drain(t, m, m.Init())

	m = press(t, m, enterKey)
	m = press(t, m, downKey)
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.Equal(t, models.DocID("d2"), m.viewer.Expanded())
	view := m.View()
	assert.Contains(t, view, "The board approved the budget.")
	assert.NotContains(t, view, "A twelve month lease")
}

func TestReopeningUsesCache(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(t, src)
	m = drain(t, m, m.Init())

	m = press(t, m, enterKey)
	m = press(t, m, enterKey)
	m = press(t, m, enterKey)

	assert.Equal(t, 1, src.callCount("d1/en"))
	assert.Contains(t, m.View(), "A twelve month lease")
}

func TestLanguageToggleRefetchesOpenDocument(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(t, src)
	m = drain(t, m, m.Init())
	m = press(t, m, enterKey)

	m = press(t, m, runes("l"))

	assert.Equal(t, i18n.Malayalam, m.viewer.Language())
	assert.Equal(t, models.DocID("d1"), m.viewer.Expanded(), "document stays open")
	assert.Equal(t, 1, src.callCount("d1/ml"))

	view := m.View()
	assert.Contains(t, view, "പന്ത്രണ്ട് മാസത്തെ പാട്ടം.")
	assert.Contains(t, view, "പ്രമാണ സംഗ്രഹങ്ങൾ")
	assert.Contains(t, view, "English")
}

func TestLanguageToggleWithNothingOpenDoesNotFetch(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(t, src)
	m = drain(t, m, m.Init())

	m = press(t, m, runes("l"))

	assert.Equal(t, i18n.Malayalam, m.viewer.Language())
	assert.Equal(t, 0, src.callCount("d1/ml"))
}

func TestSummaryFailureShowsPlaceholder(t *testing.T) {
	src := newFakeSource()
	src.sumErr = errors.New("timeout")
	m, hook := newTestModel(t, src)
	m = drain(t, m, m.Init())

	m = press(t, m, enterKey)

	assert.Contains(t, m.View(), "No summary available.")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Error fetching summary", hook.LastEntry().Message)
}

func TestEmptySummaryShowsPlaceholder(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(t, src)
	m = drain(t, m, m.Init())

	// d2 has no Malayalam summary
	m = press(t, m, runes("l"))
	m = press(t, m, downKey)
	m = press(t, m, enterKey)

	assert.Contains(t, m.View(), "സംഗ്രഹം ലഭ്യമല്ല.")
}

func TestPendingSummaryShowsLoading(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource())
	m = drain(t, m, m.Init())

	// Do not drain: the fetch stays in flight.
	updated, cmd := m.Update(enterKey)
	m = updated.(model)

	if cmd == nil {
		t.Fatal("Opening an uncached document should return a fetch command")
	}
	if !m.viewer.Loading() {
		t.Error("Viewer should be loading")
	}
	assert.Contains(t, m.View(), "Loading... Lease agreement (English)")
}

func TestSidebarToggleAndFocus(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource())
	m = drain(t, m, m.Init())

	wide := m.viewport.Width
	m = press(t, m, runes("["))
	assert.False(t, m.sidebar.Expanded())
	assert.Greater(t, m.viewport.Width, wide)
	assert.NotContains(t, m.View(), "DocuFlow")

	m = press(t, m, runes("["))
	assert.True(t, m.sidebar.Expanded())
	assert.Contains(t, m.View(), "DocuFlow")

	m = press(t, m, tabKey)
	assert.True(t, m.sidebar.Focused())
}

func TestSidebarNavigation(t *testing.T) {
	src := newFakeSource()
	m, _ := newTestModel(t, src)
	m = drain(t, m, m.Init())

	m = press(t, m, tabKey)
	m = press(t, m, downKey)
	m = press(t, m, enterKey)

	assert.True(t, m.router.IsActive("/analytics"))
	assert.False(t, m.sidebar.Focused())
	assert.Contains(t, m.View(), "This page is not available")
	assert.Contains(t, m.renderHeader(), "Analytics")
	assert.NotContains(t, m.renderHeader(), "Document Summaries")

	// Accordion keys do nothing away from the summary page.
	m = press(t, m, enterKey)
	assert.True(t, m.viewer.Expanded().IsZero())
	assert.Equal(t, 0, src.callCount("d1/en"))
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource())

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestTickStopsWhenIdle(t *testing.T) {
	m, _ := newTestModel(t, newFakeSource())
	m = drain(t, m, m.Init())

	updated, _ := m.Update(TickMsg(time.Now()))
	m = updated.(model)
	assert.False(t, m.ticking, "no tick is scheduled while idle")
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"wraps", "one two three four", 9, []string{"one two", "three", "four"}},
		{"paragraphs", "first\n\nsecond", 20, []string{"first", "", "second"}},
		{"long word", "abcdefghij", 4, []string{"abcdefghij"}},
		{"no width", "as is", 0, []string{"as is"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.text, tt.width))
		})
	}
}

func TestSpinnerCycles(t *testing.T) {
	s := NewSpinner()
	first := s.View()
	for i := 0; i < len(s.frames); i++ {
		s.Next()
	}
	if s.View() != first {
		t.Error("Spinner should return to the first frame after a full cycle")
	}
}

func TestLoadingIndicatorMessage(t *testing.T) {
	l := NewLoadingIndicator("Loading...")
	assert.Contains(t, l.View(), "Loading...")

	l.SetMessage("ലോഡ് ചെയ്യുന്നു...")
	l.Tick()
	assert.Contains(t, l.View(), "ലോഡ് ചെയ്യുന്നു...")

	assert.Equal(t, l.View(), l.ViewFor(""))
	assert.Contains(t, l.ViewFor("Board minutes (മലയാളം)"), "ലോഡ് ചെയ്യുന്നു... Board minutes (മലയാളം)")
}
