// Package tui provides a terminal user interface for volcaseq
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/freqport/volcaseq/pkg/export"
	"github.com/freqport/volcaseq/pkg/midiconv"
	"github.com/freqport/volcaseq/pkg/songfile"
	"github.com/freqport/volcaseq/pkg/syro"
	"github.com/freqport/volcaseq/pkg/volca"
)

// Volca-inspired color scheme (sample-series red on dark gray)
var (
	volcaRed   = lipgloss.Color("#FF3B30")
	volcaAmber = lipgloss.Color("#FFB000")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(volcaRed).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(volcaRed).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(volcaAmber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(volcaAmber).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(volcaRed).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateWorking
	StateResult
)

// Action is an operation selectable from the menu
type Action int

const (
	ActionNone Action = iota
	ActionExport
	ActionEncode
	ActionMIDIImport
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      Action
	Extensions  []string
}

var menuItems = []MenuItem{
	{Title: "Project → SYRO stream", Description: "Encode modified patterns and build the transfer WAV", Action: ActionExport, Extensions: []string{".yaml", ".yml"}},
	{Title: "Project → pattern binaries", Description: "Write one .bin per modified pattern", Action: ActionEncode, Extensions: []string{".yaml", ".yml"}},
	{Title: "MIDI → project", Description: "Import a MIDI drum track into a project YAML", Action: ActionMIDIImport, Extensions: []string{".mid", ".midi"}},
	{Title: "Exit", Description: "Exit the application", Action: ActionNone},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputs      []string
	item         MenuItem
	err          error
	width        int
	height       int
}

// workDoneMsg signals completion of the selected action
type workDoneMsg struct {
	outputs []string
	err     error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".yaml", ".yml", ".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(volcaRed)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages while active
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateWorking
			return m, tea.Batch(m.spinner.Tick, m.performAction())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case workDoneMsg:
		m.state = StateResult
		m.outputs = msg.outputs
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if menuItems[m.menuIndex].Action == ActionNone {
			return m, tea.Quit
		}
		m.item = menuItems[m.menuIndex]
		m.state = StateFilePicker
		m.filePicker.AllowedTypes = m.item.Extensions
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputs = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performAction() tea.Cmd {
	item := m.item
	input := m.selectedFile
	return func() tea.Msg {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		switch item.Action {
		case ActionExport:
			f, err := songfile.Load(input)
			if err != nil {
				return workDoneMsg{err: err}
			}
			project, err := f.Build()
			if err != nil {
				return workDoneMsg{err: err}
			}
			res, err := export.Export(project, base, base+".wav", &syro.ExecEncoder{})
			if err != nil {
				return workDoneMsg{err: err}
			}
			outputs := make([]string, 0, len(res.Entries)+1)
			for _, e := range res.Entries {
				outputs = append(outputs, e.Path)
			}
			if res.Audio != "" {
				outputs = append(outputs, res.Audio)
			}
			return workDoneMsg{outputs: outputs}

		case ActionEncode:
			f, err := songfile.Load(input)
			if err != nil {
				return workDoneMsg{err: err}
			}
			project, err := f.Build()
			if err != nil {
				return workDoneMsg{err: err}
			}
			entries, err := export.Patterns(project, base)
			if err != nil {
				return workDoneMsg{err: err}
			}
			outputs := make([]string, len(entries))
			for i, e := range entries {
				outputs[i] = e.Path
			}
			return workDoneMsg{outputs: outputs}

		case ActionMIDIImport:
			project := volca.NewProject()
			if err := midiconv.NewImporter().ImportFile(input, project, 1); err != nil {
				return workDoneMsg{err: err}
			}
			f, err := songfile.FromProject(project)
			if err != nil {
				return workDoneMsg{err: err}
			}
			out := base + ".yaml"
			if err := f.Save(out); err != nil {
				return workDoneMsg{err: err}
			}
			return workDoneMsg{outputs: []string{out}}
		}
		return workDoneMsg{err: fmt.Errorf("unknown action")}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateWorking:
		s.WriteString(m.viewWorking())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT OPERATION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(volcaAmber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT INPUT FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewWorking() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" WORKING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Processing %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s", m.item.Title)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Done!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		for _, out := range m.outputs {
			s.WriteString(fmt.Sprintf("Output: %s\n", filepath.Base(out)))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
  __     _____  _     ____    _    ____  _____ ___
  \ \   / / _ \| |   / ___|  / \  / ___|| ____/ _ \
   \ \ / / | | | |  | |     / _ \ \___ \|  _|| | | |
    \ V /| |_| | |__| |___ / ___ \ ___) | |__| |_| |
     \_/  \___/|_____\____/_/   \_\____/|_____\__\_\
`
	return lipgloss.NewStyle().Foreground(volcaRed).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
