package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotsync/internal/models"
	"github.com/desertthunder/spotsync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ManageView ViewState = iota
	SyncView
	ResultView
)

// Store is the slice of the playlist store the TUI mutates directly.
// Implemented by repositories.PlaylistStore.
type Store interface {
	GetAll() (*models.Collection, error)
	SetEnabled(id string, enabled bool) error
	SetEnabledAll(enabled bool) error
	SetPriority(id string, priority int) error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	store        Store
	engine       *tasks.SyncEngine
	slot         *tasks.Slot
	width        int
	height       int
	playlistList list.Model
	collection   *models.Collection
	listReady    bool
	task         *tasks.Task
	progress     tasks.ProgressUpdate
	outcome      tasks.Outcome
	taskErr      error
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store Store, engine *tasks.SyncEngine, slot *tasks.Slot) *Model {
	return &Model{
		ctx:    ctx,
		view:   ManageView,
		store:  store,
		engine: engine,
		slot:   slot,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading the stored collection.
func (m *Model) Init() tea.Cmd {
	return m.loadCollection()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ManageView:
			return m.handleManageKeys(msg)
		case SyncView:
			return m.handleSyncKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case collectionLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.collection = msg.collection
		index := 0
		if m.listReady {
			index = m.playlistList.Index()
		}
		items := make([]list.Item, len(msg.collection.Playlists))
		for i, pl := range msg.collection.Playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = fmt.Sprintf("Playlists of %s", msg.collection.Username)
		m.playlistList.SetSize(m.width-4, m.height-8)
		if index < len(items) {
			m.playlistList.Select(index)
		}
		m.listReady = true
		return m, nil

	case storeUpdatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		return m, m.loadCollection()

	case progressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case taskDoneMsg:
		m.outcome = msg.outcome
		m.taskErr = msg.err
		m.task = nil
		m.view = ResultView
		return m, m.loadCollection()
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ManageView:
		return m.renderManage()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleManageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		if pl := m.selected(); pl != nil {
			return m, m.setEnabled(pl.ID, !pl.Enabled)
		}
	case key.Matches(msg, m.keys.enableAll):
		return m, m.setEnabledAll(true)
	case key.Matches(msg, m.keys.disableAll):
		return m, m.setEnabledAll(false)
	case key.Matches(msg, m.keys.raise):
		return m, m.swapPriority(-1)
	case key.Matches(msg, m.keys.lower):
		return m, m.swapPriority(1)
	case key.Matches(msg, m.keys.remove):
		if pl := m.selected(); pl != nil {
			return m, m.removePlaylist(pl.ID)
		}
	case key.Matches(msg, m.keys.sync):
		if pl := m.selected(); pl != nil {
			return m, m.startSync(tasks.KindSyncOne, pl.ID)
		}
	case key.Matches(msg, m.keys.syncAll):
		return m, m.startSync(tasks.KindSyncAll, "")
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		if m.task != nil {
			m.task.Cancel()
		}
		return m, nil
	case key.Matches(msg, m.keys.quit):
		if m.task != nil {
			m.task.Cancel()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = ManageView
		m.taskErr = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ManageView || !m.listReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

// selected returns the playlist under the cursor, or nil.
func (m *Model) selected() *models.Playlist {
	if !m.listReady {
		return nil
	}
	item, ok := m.playlistList.SelectedItem().(playlistItem)
	if !ok {
		return nil
	}
	return &item.playlist
}

func (m *Model) loadCollection() tea.Cmd {
	return func() tea.Msg {
		collection, err := m.store.GetAll()
		return collectionLoadedMsg{collection: collection, err: err}
	}
}

func (m *Model) setEnabled(id string, enabled bool) tea.Cmd {
	return func() tea.Msg {
		return storeUpdatedMsg{err: m.store.SetEnabled(id, enabled)}
	}
}

func (m *Model) setEnabledAll(enabled bool) tea.Cmd {
	return func() tea.Msg {
		return storeUpdatedMsg{err: m.store.SetEnabledAll(enabled)}
	}
}

func (m *Model) removePlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		return storeUpdatedMsg{err: m.engine.Remove(id)}
	}
}

// swapPriority exchanges the selected playlist's priority with its neighbor.
func (m *Model) swapPriority(delta int) tea.Cmd {
	if m.collection == nil || !m.listReady {
		return nil
	}
	index := m.playlistList.Index()
	target := index + delta
	if index < 0 || target < 0 || target >= len(m.collection.Playlists) {
		return nil
	}
	a := m.collection.Playlists[index]
	b := m.collection.Playlists[target]
	return func() tea.Msg {
		if err := m.store.SetPriority(a.ID, b.Priority); err != nil {
			return storeUpdatedMsg{err: err}
		}
		return storeUpdatedMsg{err: m.store.SetPriority(b.ID, a.Priority)}
	}
}

func (m *Model) startSync(kind tasks.Kind, id string) tea.Cmd {
	task, err := m.slot.Start(kind, func(token *tasks.CancelToken, progress chan<- tasks.ProgressUpdate) (tasks.Outcome, error) {
		if kind == tasks.KindSyncOne {
			return m.engine.SyncOne(m.ctx, id, token, progress)
		}
		return m.engine.SyncAll(m.ctx, token, progress)
	})
	if err != nil {
		m.err = err
		return nil
	}
	m.task = task
	m.progress = tasks.ProgressUpdate{}
	m.view = SyncView
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	task := m.task
	if task == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-task.Progress()
		if !ok {
			outcome, err := task.Wait()
			return taskDoneMsg{outcome: outcome, err: err}
		}
		return progressMsg(update)
	}
}

func (m *Model) renderManage() string {
	if !m.listReady {
		return "Loading playlists..."
	}

	var status string
	if m.err != nil {
		status = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.sync, m.keys.syncAll, m.keys.remove, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.playlistList.View(), status, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Synchronizing")

	var phase string
	switch m.progress.Phase {
	case tasks.SyncPlaylist:
		phase = fmt.Sprintf("Playlist %d/%d", m.progress.Step, m.progress.Total)
	case tasks.DownloadTrack:
		phase = fmt.Sprintf("Downloading (playlist %d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Working..."
	}

	helpKeys := []key.Binding{m.keys.cancel, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, phase, m.progress.Message, helpView)
}

func (m *Model) renderResult() string {
	var title string
	switch m.outcome {
	case tasks.Succeeded:
		title = styles.ok.Render("✓ Sync complete")
	case tasks.Partial:
		title = styles.warn.Render("Sync finished with failures")
	case tasks.Cancelled:
		title = styles.warn.Render("Sync cancelled")
	default:
		title = styles.err.Render("✗ Sync failed")
	}

	var detail string
	if m.taskErr != nil {
		detail = fmt.Sprintf("\n%v", m.taskErr)
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", title, detail, helpView)
}
