package tui

import (
	"fmt"
	"slices"
	"strings"

	"audiodev/internal/audio"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Padding(0, 1)

	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("#25A065")).
			Underline(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)
)

var (
	keyQuit   = key.NewBinding(key.WithKeys("q", "ctrl+c"))
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyTab    = key.NewBinding(key.WithKeys("tab", "left", "right", "h", "l"))
	keyEnter  = key.NewBinding(key.WithKeys("enter"))
	keyBack   = key.NewBinding(key.WithKeys("esc", "backspace"))
	keyReload = key.NewBinding(key.WithKeys("r"))
)

// ScreenType defines which screen is currently active
type ScreenType int

const (
	ListScreen ScreenType = iota
	DetailScreen
)

// Direction selects the listing shown on the list screen.
type Direction int

const (
	Inputs Direction = iota
	Outputs
)

func (d Direction) String() string {
	if d == Outputs {
		return "output"
	}
	return "input"
}

// Lister produces one device listing.
type Lister func() ([]audio.DeviceDescriptor, error)

type devicesMsg struct {
	inputs, outputs []audio.DeviceDescriptor
}

type errMsg struct {
	err error
}

// DeviceListModel is the Bubble Tea model browsing the input and output
// listings.
type DeviceListModel struct {
	listInputs, listOutputs Lister

	inputs, outputs []audio.DeviceDescriptor
	loaded          bool
	direction       Direction
	selectedIndex   int
	activeScreen    ScreenType

	viewport viewport.Model
	ready    bool
	err      error
}

// NewDeviceListModel creates a model over the given listers.
func NewDeviceListModel(inputs, outputs Lister) DeviceListModel {
	return DeviceListModel{
		listInputs:   inputs,
		listOutputs:  outputs,
		direction:    Inputs,
		activeScreen: ListScreen,
	}
}

// Init initializes the Bubble Tea model
func (m DeviceListModel) Init() tea.Cmd {
	return m.fetchDevices
}

// fetchDevices runs both listings. Each call re-enumerates the host.
func (m DeviceListModel) fetchDevices() tea.Msg {
	inputs, err := m.listInputs()
	if err != nil {
		return errMsg{err}
	}
	outputs, err := m.listOutputs()
	if err != nil {
		return errMsg{err}
	}
	return devicesMsg{inputs: inputs, outputs: outputs}
}

func (m DeviceListModel) current() []audio.DeviceDescriptor {
	if m.direction == Outputs {
		return m.outputs
	}
	return m.inputs
}

func (m DeviceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.refresh()

	case devicesMsg:
		m.inputs = msg.inputs
		m.outputs = msg.outputs
		m.err = nil
		m.activeScreen = ListScreen
		// The first listing starts on the default device; reloads keep
		// the cursor where it was.
		if !m.loaded {
			m.selectedIndex = defaultPosition(m.current())
			m.loaded = true
		} else if m.selectedIndex >= len(m.current()) {
			m.selectedIndex = max(len(m.current())-1, 0)
		}
		m.refresh()

	case errMsg:
		m.err = msg.err

	case tea.KeyMsg:
		if key.Matches(msg, keyQuit) {
			return m, tea.Quit
		}

		switch m.activeScreen {
		case ListScreen:
			switch {
			case key.Matches(msg, keyUp):
				if m.selectedIndex > 0 {
					m.selectedIndex--
				}
			case key.Matches(msg, keyDown):
				if m.selectedIndex < len(m.current())-1 {
					m.selectedIndex++
				}
			case key.Matches(msg, keyTab):
				if m.direction == Inputs {
					m.direction = Outputs
				} else {
					m.direction = Inputs
				}
				m.selectedIndex = defaultPosition(m.current())
			case key.Matches(msg, keyEnter):
				if len(m.current()) > 0 {
					m.activeScreen = DetailScreen
				}
			case key.Matches(msg, keyReload):
				cmds = append(cmds, m.fetchDevices)
			}
		case DetailScreen:
			if key.Matches(msg, keyBack) {
				m.activeScreen = ListScreen
			}
		}
		m.refresh()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// defaultPosition returns the row of the default device, or 0 when the
// listing has none.
func defaultPosition(devices []audio.DeviceDescriptor) int {
	d, ok := audio.DefaultDevice(devices)
	if !ok {
		return 0
	}
	return max(slices.IndexFunc(devices, func(other audio.DeviceDescriptor) bool {
		return other.Index == d.Index
	}), 0)
}

// refresh re-renders the viewport content for the active screen.
func (m *DeviceListModel) refresh() {
	if !m.ready {
		return
	}
	if m.activeScreen == DetailScreen {
		m.viewport.SetContent(m.renderDetail())
		return
	}
	m.viewport.SetContent(m.renderDevices())
}

// View renders the UI
func (m DeviceListModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to exit.", m.err)
	}

	var title, help string
	if m.activeScreen == ListScreen {
		title = titleStyle.Render("Audio Devices") + "  " + m.renderTabs()
		help = infoStyle.Render("↑/↓: Navigate • Tab: Inputs/Outputs • Enter: Details • r: Reload • q: Quit")
	} else {
		title = titleStyle.Render("Device Details")
		help = infoStyle.Render("Esc: Back • q: Quit")
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

func (m DeviceListModel) renderTabs() string {
	tabs := make([]string, 0, 2)
	for _, d := range []Direction{Inputs, Outputs} {
		style := tabStyle
		if d == m.direction {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%ss", d)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderDevices formats the active listing
func (m DeviceListModel) renderDevices() string {
	devices := m.current()
	if len(devices) == 0 {
		return fmt.Sprintf("No %s devices found.", m.direction)
	}

	var sb strings.Builder
	for i, device := range devices {
		line := fmt.Sprintf("[%s] %s", device.Index, device.Name)
		if device.IsDefault {
			line += " (default)"
		}
		if i == m.selectedIndex {
			line = highlightStyle.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderDetail formats the selected device. Input devices also show the
// configurations that made them pass the validity check.
func (m DeviceListModel) renderDetail() string {
	devices := m.current()
	if m.selectedIndex >= len(devices) {
		return ""
	}
	device := devices[m.selectedIndex]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Device:    %s\n", device.Name)
	fmt.Fprintf(&sb, "Direction: %s\n", m.direction)
	fmt.Fprintf(&sb, "Index:     %s\n", device.Index)
	fmt.Fprintf(&sb, "Default:   %v\n", device.IsDefault)

	if m.direction != Inputs || device.Device == nil {
		return sb.String()
	}

	if cfg, err := device.Device.DefaultInputConfig(); err == nil {
		fmt.Fprintf(&sb, "\nDefault input config: %s\n", cfg)
	}
	configs, err := device.Device.SupportedInputConfigs()
	if err != nil {
		fmt.Fprintf(&sb, "\nSupported input configs unavailable: %v\n", err)
		return sb.String()
	}
	sb.WriteString("\nSupported input configs:\n")
	for _, cfg := range configs {
		fmt.Fprintf(&sb, "  %s\n", cfg)
	}
	return sb.String()
}

// StartDeviceListUI launches the Bubble Tea TUI over the default host.
func StartDeviceListUI() error {
	p := tea.NewProgram(
		NewDeviceListModel(audio.ListInputDevices, audio.ListOutputDevices),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
