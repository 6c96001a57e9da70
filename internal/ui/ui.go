package ui

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thornwyck/focusfm/internal/models"
	"github.com/thornwyck/focusfm/internal/shared"
	"github.com/thornwyck/focusfm/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MoodListView ViewState = iota
	NameInputView
	ConfirmView
	GenerateView
	ResultView
)

// builtinMoods are the labels with curated search queries, offered even
// before any playlist has been generated.
var builtinMoods = []string{"focused", "energetic", "calm", "creative", "productive", "motivated"}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.Engine
	userID       string
	trackCount   int
	public       bool
	width        int
	height       int
	moodList     list.Model
	selectedMood string
	nameInput    textinput.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.GenerateResult
	err          error
	help         help.Model
	keys         keyMap
}

type moodsFetchedMsg struct {
	moods []*models.Mood
	err   error
}

type progressUpdateMsg tasks.ProgressUpdate

type generateCompleteMsg struct {
	result *tasks.GenerateResult
	err    error
}

// NewModel creates a new TUI model generating playlists for the given user.
func NewModel(ctx context.Context, engine tasks.Engine, userID string, trackCount int, public bool) *Model {
	input := textinput.New()
	input.Placeholder = "Playlist name"
	input.CharLimit = 100

	return &Model{
		ctx:        ctx,
		view:       MoodListView,
		engine:     engine,
		userID:     userID,
		trackCount: trackCount,
		public:     public,
		nameInput:  input,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init initializes the TUI by fetching stored moods.
func (m *Model) Init() tea.Cmd {
	return m.fetchMoods()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.moodList.Width() == 0 {
			m.moodList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MoodListView:
			return m.handleMoodListKeys(msg)
		case NameInputView:
			return m.handleNameInputKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case moodsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.moodList = list.New(moodItems(msg.moods), list.NewDefaultDelegate(), 0, 0)
		m.moodList.Title = "Pick a mood"
		m.moodList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case generateCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateChildren(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case MoodListView:
		return m.renderMoodList()
	case NameInputView:
		return m.renderNameInput()
	case ConfirmView:
		return m.renderConfirm()
	case GenerateView:
		return m.renderGenerate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// moodItems merges the built-in labels with stored custom moods.
func moodItems(stored []*models.Mood) []list.Item {
	items := make([]list.Item, 0, len(builtinMoods)+len(stored))
	seen := make(map[string]bool)

	for _, name := range builtinMoods {
		items = append(items, moodItem{name: name, description: tasks.SearchQuery(name)})
		seen[name] = true
	}
	for _, mood := range stored {
		if seen[mood.Name()] {
			continue
		}
		items = append(items, moodItem{name: mood.Name(), description: mood.Description()})
	}
	return items
}

func (m *Model) handleMoodListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.moodList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(moodItem); ok {
				m.selectedMood = item.name
				m.nameInput.SetValue(fmt.Sprintf("%s Mix", titleCase(item.name)))
				m.nameInput.Focus()
				m.view = NameInputView
				return m, textinput.Blink
			}
		}
	}

	var cmd tea.Cmd
	m.moodList, cmd = m.moodList.Update(msg)
	return m, cmd
}

func (m *Model) handleNameInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MoodListView
		return m, nil
	case "enter":
		if strings.TrimSpace(m.nameInput.Value()) != "" {
			m.view = ConfirmView
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = NameInputView
		return m, nil
	case "y":
		m.view = GenerateView
		return m, m.startGenerate()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = MoodListView
		m.selectedMood = ""
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, m.fetchMoods()
	}
	return m, nil
}

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MoodListView:
		m.moodList, cmd = m.moodList.Update(msg)
	case NameInputView:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchMoods() tea.Cmd {
	return func() tea.Msg {
		moods, err := m.engine.ListMoods()
		return moodsFetchedMsg{moods: moods, err: err}
	}
}

func (m *Model) startGenerate() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	req := tasks.GenerateRequest{
		UserID:       m.userID,
		Mood:         m.selectedMood,
		PlaylistName: strings.TrimSpace(m.nameInput.Value()),
		TrackCount:   m.trackCount,
		Public:       m.public,
	}

	go func() {
		result, err := m.engine.Generate(m.ctx, progressChan, req)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return generateCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return generateCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderMoodList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.moodList.View(), helpView)
}

func (m *Model) renderNameInput() string {
	title := styles.title.Render(fmt.Sprintf("Name your %s playlist", m.selectedMood))

	confirmKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm"))
	helpKeys := []key.Binding{confirmKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.nameInput.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Generate '%s'?", strings.TrimSpace(m.nameInput.Value())))
	info := fmt.Sprintf("\nMood: %s\nTracks: %d\nVisibility: %s\n",
		m.selectedMood, m.trackCount, shared.VisibilityString(m.public))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderGenerate() string {
	title := styles.title.Render("Generating Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveUser:
		phase = "Resolving user credentials..."
	case tasks.SearchTracks:
		phase = "Searching Spotify..."
	case tasks.CreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case tasks.AddTracks:
		phase = "Adding tracks..."
	case tasks.RecordResults:
		phase = "Saving results..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Generation failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nMood: %s\nTracks: %d\nURL: %s",
		m.result.Playlist.Name(),
		m.result.Mood.Name(),
		m.result.TrackCount,
		m.result.PlaylistURL,
	)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
