package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-jelly/internal/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly"
	"github.com/vovakirdan/tui-jelly/internal/storage"
)

// LevelSelection holds the user's choice from the level picker.
type LevelSelection struct {
	LevelID string // empty = start from the first level
}

// levelEntry is one row of the level picker, annotated with the player's
// best solve if there is one.
type levelEntry struct {
	id   string
	name string
	best int // 0 = not solved yet
}

// LevelMenuModel is the level picker.
type LevelMenuModel struct {
	cursor       int
	width        int
	height       int
	keyMapper    *KeyMapper
	entries      []levelEntry
	loadErr      string
	selection    LevelSelection
	choosing     bool
	quitting     bool
	back         bool
	scrollOffset int
	theme        JellyTheme
}

// NewLevelMenuModel creates a level picker over the configured level set.
// The store annotates levels the player has already solved; it may be nil.
func NewLevelMenuModel(store *storage.Store, cfg core.RuntimeConfig) LevelMenuModel {
	m := LevelMenuModel{
		cursor:    0,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		keyMapper: NewKeyMapper(),
		choosing:  true,
		theme:     GetJellyTheme(),
	}

	lvls, err := jelly.LoadLevels(cfg.LevelDir)
	if err != nil {
		m.loadErr = err.Error()
		return m
	}
	for _, lvl := range lvls {
		entry := levelEntry{id: lvl.ID, name: lvl.Name}
		if store != nil {
			//nolint:errcheck // unsolved levels simply show no best
			entry.best, _ = store.BestMoves(lvl.ID)
		}
		m.entries = append(m.entries, entry)
	}
	return m
}

// Init initializes the model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}
	case MenuActionDown:
		if m.cursor < len(m.entries) {
			m.cursor++
			m.updateScroll()
		}
	case MenuActionSelect:
		if m.loadErr != "" {
			return m, nil
		}
		m.choosing = false
		if m.cursor == 0 {
			m.selection = LevelSelection{}
		} else {
			m.selection = LevelSelection{LevelID: m.entries[m.cursor-1].id}
		}
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *LevelMenuModel) updateScroll() {
	visibleItems := m.height - 10 // Account for header and footer
	if visibleItems < 3 {
		visibleItems = 3
	}

	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visibleItems {
		m.scrollOffset = m.cursor - visibleItems + 1
	}
}

// View renders the level selection.
func (m LevelMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Title
	b.WriteString("\n")
	title := m.theme.MenuTitle.Render("J E L L Y   F U S I O N")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	if m.loadErr != "" {
		b.WriteString(centerText(m.theme.MenuDescription.Render("Cannot load levels:"), m.width))
		b.WriteString("\n")
		b.WriteString(centerText(m.loadErr, m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(m.theme.HUDControls.Render("Esc: Back  |  Q: Quit"), m.width))
		return b.String()
	}

	subtitle := m.theme.MenuDescription.Render("Select a level:")
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	visibleItems := m.height - 10
	if visibleItems < 3 {
		visibleItems = 3
	}

	// "Start from Beginning" option
	if m.scrollOffset == 0 {
		cursor := "  "
		style := m.theme.MenuItemNormal
		if m.cursor == 0 {
			cursor = "> "
			style = m.theme.MenuItemActive
		}
		line := style.Render(cursor + "Start from Beginning")
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	// Level list
	startIdx := m.scrollOffset
	endIdx := startIdx + visibleItems
	if endIdx > len(m.entries) {
		endIdx = len(m.entries)
	}

	for i := startIdx; i < endIdx; i++ {
		actualIdx := i + 1 // Account for "Start from Beginning" option
		cursor := "  "
		style := m.theme.MenuItemNormal
		if actualIdx == m.cursor {
			cursor = "> "
			style = m.theme.MenuItemActive
		}

		entry := m.entries[i]
		label := fmt.Sprintf("%2d. %s", i+1, entry.name)
		if entry.best > 0 {
			label += m.theme.MenuItemSolved.Render(fmt.Sprintf("  (best: %d)", entry.best))
		}
		b.WriteString(centerText(style.Render(cursor+label), m.width))
		b.WriteString("\n")
	}

	// Scroll indicators
	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	if endIdx < len(m.entries) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := m.theme.HUDControls.Render("Up/Down: Navigate  |  Enter: Select  |  Esc: Back  |  Q: Quit")
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m LevelMenuModel) Selected() *LevelSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m LevelMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelMenuModel) WantsBack() bool {
	return m.back
}

// RunLevelSelector runs the level picker and returns the selection.
// A nil selection means the user backed out.
func RunLevelSelector(store *storage.Store, cfg core.RuntimeConfig) (*LevelSelection, core.RuntimeConfig, error) {
	model := NewLevelMenuModel(store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(LevelMenuModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
