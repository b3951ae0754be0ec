package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/waxlog/internal/collection"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	CollectionView
	ConfirmView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	userID       string
	orchestrator *tasks.Orchestrator
	store        *collection.Store
	debouncer    *tasks.Debouncer
	width        int
	height       int
	searchInput  textinput.Model
	resultList   list.Model
	results      []models.Album
	savedList    list.Model
	pendingRef   *models.AlbumRef
	statusLine   string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, userID string, orchestrator *tasks.Orchestrator, store *collection.Store, debouncer *tasks.Debouncer) *Model {
	input := textinput.New()
	input.Placeholder = "Search albums..."
	input.Focus()

	resultList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	resultList.Title = "Results"
	resultList.SetShowHelp(false)

	savedList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	savedList.Title = "Your Albums"
	savedList.SetShowHelp(false)

	return &Model{
		ctx:          ctx,
		view:         SearchView,
		userID:       userID,
		orchestrator: orchestrator,
		store:        store,
		debouncer:    debouncer,
		searchInput:  input,
		resultList:   resultList,
		savedList:    savedList,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init starts listening for debounced search results and loads the collection pane.
func (m *Model) Init() tea.Cmd {
	m.refreshSavedList()
	return m.waitForSearch()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resultList.SetSize(msg.Width-4, msg.Height-10)
		m.savedList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case CollectionView:
			return m.handleCollectionKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleAppMsg(msg)
	}

	return m, nil
}

func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchResults:
		result := msg.data.(tasks.SearchResult)
		if result.Err != nil {
			m.statusLine = styles.err.Render(fmt.Sprintf("search failed: %v", result.Err))
			return m, m.waitForSearch()
		}
		m.results = result.Albums
		m.refreshResultList()
		return m, m.waitForSearch()

	case MsgSearchClosed:
		return m, nil

	case MsgStatusChanged:
		result := msg.data.(tasks.Result)
		m.statusLine = styles.ok.Render(result.Message)
		m.refreshResultList()
		m.refreshSavedList()
		return m, nil

	case MsgError:
		m.statusLine = styles.err.Render(fmt.Sprintf("%v", msg.data.(error)))
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit", m.err))
	}

	switch m.view {
	case SearchView:
		return m.renderSearch()
	case CollectionView:
		return m.renderCollection()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.debouncer.Stop()
		return m, tea.Quit
	case "tab":
		m.view = CollectionView
		return m, nil
	case "up", "down":
		var cmd tea.Cmd
		m.resultList, cmd = m.resultList.Update(msg)
		return m, cmd
	case "a":
		if ref := m.selectedResult(); ref != nil {
			return m, m.transition(func(ctx context.Context) (tasks.Result, error) {
				return m.orchestrator.MarkAdded(ctx, m.userID, *ref)
			})
		}
	case "l":
		if ref := m.selectedResult(); ref != nil {
			return m, m.transition(func(ctx context.Context) (tasks.Result, error) {
				return m.orchestrator.MarkListened(ctx, m.userID, *ref)
			})
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.debouncer.Input(m.ctx, m.searchInput.Value())
	return m, cmd
}

func (m *Model) handleCollectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.debouncer.Stop()
		return m, tea.Quit
	case "tab", "esc":
		m.view = SearchView
		return m, nil
	case "l":
		if ref := m.selectedSaved(); ref != nil {
			return m, m.transition(func(ctx context.Context) (tasks.Result, error) {
				return m.orchestrator.MarkListened(ctx, m.userID, *ref)
			})
		}
	case "u":
		if ref := m.selectedSaved(); ref != nil {
			return m, m.transition(func(ctx context.Context) (tasks.Result, error) {
				return m.orchestrator.MarkUnlistened(ctx, *ref)
			})
		}
	case "d":
		if ref := m.selectedSaved(); ref != nil {
			m.pendingRef = ref
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.savedList, cmd = m.savedList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.pendingRef = nil
		m.view = CollectionView
		return m, nil
	case "y":
		ref := m.pendingRef
		m.pendingRef = nil
		m.view = CollectionView
		if ref != nil {
			return m, m.transition(func(ctx context.Context) (tasks.Result, error) {
				return m.orchestrator.Remove(ctx, *ref)
			})
		}
	}
	return m, nil
}

func (m *Model) selectedResult() *models.AlbumRef {
	selected := m.resultList.SelectedItem()
	if selected == nil {
		return nil
	}
	if item, ok := selected.(albumItem); ok {
		ref := item.album.Ref()
		return &ref
	}
	return nil
}

func (m *Model) selectedSaved() *models.AlbumRef {
	selected := m.savedList.SelectedItem()
	if selected == nil {
		return nil
	}
	if item, ok := selected.(savedAlbumItem); ok {
		ref := models.AlbumRef{
			RawID:      item.record.AlbumID,
			Name:       item.record.AlbumName,
			ArtistName: item.record.ArtistName,
			ImageURL:   item.record.ImageURL,
		}
		return &ref
	}
	return nil
}

// transition runs a status transition off the update loop and reports back.
func (m *Model) transition(fn func(context.Context) (tasks.Result, error)) tea.Cmd {
	return func() tea.Msg {
		result, err := fn(m.ctx)
		if err != nil {
			return errorMsg(err)
		}
		return statusChangedMsg(result)
	}
}

// waitForSearch blocks on the debouncer's results channel as a tea.Cmd,
// re-arming itself after each delivery.
func (m *Model) waitForSearch() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-m.debouncer.Results()
		if !ok {
			return searchClosedMsg()
		}
		return searchResultsMsg(result)
	}
}

func (m *Model) refreshResultList() {
	items := make([]list.Item, len(m.results))
	for i, album := range m.results {
		state, _ := m.orchestrator.State(album.Ref())
		items[i] = albumItem{album: album, state: state}
	}
	m.resultList.SetItems(items)
}

func (m *Model) refreshSavedList() {
	records := m.store.Cache().Records()
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = savedAlbumItem{record: rec}
	}
	m.savedList.SetItems(items)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Album Search")
	helpKeys := []key.Binding{m.keys.add, m.keys.listen, m.keys.tab, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n\n%s", title, m.searchInput.View(), m.resultList.View(), m.statusLine, helpView)
}

func (m *Model) renderCollection() string {
	helpKeys := []key.Binding{m.keys.listen, m.keys.unlisten, m.keys.remove, m.keys.tab, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", m.savedList.View(), m.statusLine, helpView)
}

func (m *Model) renderConfirm() string {
	name := ""
	if m.pendingRef != nil {
		name = m.pendingRef.Name
	}
	title := styles.title.Render(fmt.Sprintf("Remove '%s' from your list?", name))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}
