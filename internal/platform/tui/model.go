package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilegrid/internal/colony"
	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/ledger"
	"github.com/vovakirdan/tilegrid/internal/tiles"
)

// Model is the Bubble Tea model for playing one colony.
type Model struct {
	colony   *colony.Colony
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	cursor   core.Coord
	message  string
	quitting bool
}

// NewModel creates a new Bubble Tea model for the given colony.
func NewModel(c *colony.Colony, cfg core.RuntimeConfig) Model {
	m := c.Terrain()
	return Model{
		colony: c,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		cursor: core.C(m.W/2, m.H/2),
	}
}

// Cursor returns the tile under the keyboard cursor.
func (m Model) Cursor() core.Coord { return m.cursor }

// Message returns the last status message.
func (m Model) Message() string { return m.message }

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.colony.Step(m.config.TickInterval().Seconds())
		return m, tickCmd(m.config.TickInterval())
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buyer := m.colony.Buyer()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(core.Up)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(core.Down)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(core.Left)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(core.Right)

	case key.Matches(msg, m.keys.Pick):
		m.pick(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)

	case key.Matches(msg, m.keys.Cancel):
		buyer.Cancel()
		m.message = ""

	case key.Matches(msg, m.keys.Place):
		if buyer.Mode() != colony.Placing {
			m.message = "pick a blueprint first (1-9 or tab)"
			break
		}
		_, err := buyer.PlaceAt(m.cursor)
		m.report("built", err)

	case key.Matches(msg, m.keys.Demolish):
		m.report("demolished", buyer.Demolish(m.cursor))
	}

	return m, nil
}

// handleMouse moves the cursor with the pointer; a left click builds and a
// right click cancels.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := tiles.Point{X: float64(msg.X), Y: float64(msg.Y)}
	if t, ok := m.colony.Terrain().WorldToTile(p); ok {
		m.cursor = t
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		if m.colony.Buyer().Mode() == colony.Placing {
			_, err := m.colony.Buyer().PlaceAtPoint(p)
			m.report("built", err)
		}
	case tea.MouseButtonRight:
		m.colony.Buyer().Cancel()
		m.message = ""
	}
	return m, nil
}

func (m *Model) moveCursor(d core.Coord) {
	next := m.cursor.AddCoord(d)
	if m.colony.Terrain().InBounds(next) {
		m.cursor = next
	}
}

func (m *Model) pick(i int) {
	list := m.colony.Catalog().List()
	if i < 0 || i >= len(list) {
		return
	}
	m.report("", m.colony.Buyer().Select(list[i].ID))
}

// cycle selects the blueprint step positions away from the current one.
func (m *Model) cycle(step int) {
	list := m.colony.Catalog().List()
	if len(list) == 0 {
		return
	}
	i := -1
	if bp, ok := m.colony.Buyer().Selected(); ok {
		for j, b := range list {
			if b.ID == bp.ID {
				i = j
				break
			}
		}
	}
	if i < 0 && step < 0 {
		i = 0
	}
	i = ((i+step)%len(list) + len(list)) % len(list)
	m.pick(i)
}

// report turns an operation result into the status message.
func (m *Model) report(done string, err error) {
	switch {
	case err == nil:
		m.message = done
	case errors.Is(err, ledger.ErrInsufficient):
		m.message = "not enough funds"
	case errors.Is(err, colony.ErrNotPlaceable):
		m.message = "can't build there"
	case errors.Is(err, colony.ErrNothingHere):
		m.message = "nothing to demolish"
	default:
		m.message = err.Error()
	}
}

var (
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	helpView := helpStyle.Render(m.help.View(m.keys))
	helpLines := strings.Count(helpView, "\n") + 1

	m.screen.Resize(m.config.ScreenW, max(m.config.ScreenH-helpLines-1, 1))
	m.screen.Clear()
	drawColony(m.screen, m.colony, m.cursor)
	m.screen.DrawTextColored(2, 0, fmt.Sprintf(" tilegrid · %s ", m.colony.Session()), core.ColorBrightYellow)

	terrain := m.colony.Terrain()
	bottom := int(terrain.TileToWorld(core.C(0, terrain.H)).Y) + 1
	m.screen.DrawText(0, bottom, blueprintBar(m.colony))
	for i, line := range statusLines(m.colony, m.cursor) {
		m.screen.DrawText(0, bottom+1+i, line)
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(messageStyle.Render(m.message))
		b.WriteString("  ")
	}
	b.WriteString(helpView)
	return b.String()
}

// Run starts the Bubble Tea program with the given colony.
func Run(c *colony.Colony, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(c, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
