package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/pokedex-cli/internal/app"
	"github.com/glabrego/pokedex-cli/internal/catalog"
	"github.com/glabrego/pokedex-cli/internal/derive"
	"github.com/glabrego/pokedex-cli/internal/navigation"
	"github.com/glabrego/pokedex-cli/internal/pokeapi"
	"github.com/glabrego/pokedex-cli/internal/tui/actions"
	"github.com/glabrego/pokedex-cli/internal/tui/platform"
	tuistate "github.com/glabrego/pokedex-cli/internal/tui/state"
	tuitheme "github.com/glabrego/pokedex-cli/internal/tui/theme"
	tuiview "github.com/glabrego/pokedex-cli/internal/tui/view"
)

type Mode string

const (
	ModeList    Mode = "list"
	ModeGallery Mode = "gallery"
	ModeDetail  Mode = "detail"
)

const (
	galleryChunkSize    = 16
	defaultListLimit    = 2000
	defaultGalleryLimit = 120
)

type clearStatusMsg struct {
	id int
}

type Options struct {
	StartMode          Mode
	StartKey           string
	ListLimit          int
	GalleryLimit       int
	InlineImagePreview bool
	// Query seeds the list view; Selected preselects gallery types.
	Query    derive.Query
	Selected []string
}

type Model struct {
	service actions.Service
	th      tuitheme.Theme
	spinner spinner.Model
	search  textinput.Model

	mode     Mode
	backMode Mode
	// mount increases on every view switch; results tagged with an older
	// value belong to a view that is gone.
	mount   int
	initCmd tea.Cmd

	width    int
	height   int
	showHelp bool
	status   string
	statusID int
	err      error

	listLimit   int
	listLoading bool
	searching   bool
	items       []derive.Item
	query       derive.Query
	visible     []derive.Item
	cursor      int

	galleryLimit    int
	galleryLoading  bool
	galleryItems    []derive.Item
	galleryQueue    []string
	categories      []string
	categoryCursor  int
	selected        []string
	resolved        map[string][]string
	cards           []derive.Card
	galleryCursor   int
	galleryInFlight bool

	detailKey      string
	detail         *catalog.Detail
	detailLoading  bool
	detailErr      error
	detailTop      int
	sequence       []string
	sequenceSource app.SequenceSource
	sequenceErr    error

	imagePreviewEnabled bool
	imagePreview        map[string]string
	imagePreviewErr     map[string]string
	imagePreviewLoading map[string]bool
	kittyPlaced         bool

	renderImageFn func(string, int) (string, error)
	openURLFn     func(string) error
	copyURLFn     func(string) error
}

func NewModel(service actions.Service, opts Options) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search by name"
	search.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	listLimit := opts.ListLimit
	if listLimit < 1 {
		listLimit = defaultListLimit
	}
	galleryLimit := opts.GalleryLimit
	if galleryLimit < 1 {
		galleryLimit = defaultGalleryLimit
	}

	m := Model{
		service:             service,
		th:                  tuitheme.Default(),
		spinner:             spin,
		search:              search,
		backMode:            ModeList,
		listLimit:           listLimit,
		galleryLimit:        galleryLimit,
		query:               opts.Query,
		resolved:            make(map[string][]string),
		imagePreviewEnabled: opts.InlineImagePreview,
		imagePreview:        make(map[string]string),
		imagePreviewErr:     make(map[string]string),
		imagePreviewLoading: make(map[string]bool),
		renderImageFn:       tuiview.NewSpriteRenderer().Render,
		openURLFn:           platform.OpenURLInBrowser,
		copyURLFn:           platform.CopyURLToClipboard,
	}

	if m.query.Key == "" {
		m.query.Key = derive.SortByID
	}
	m.search.SetValue(m.query.Text)

	switch opts.StartMode {
	case ModeGallery:
		m.initCmd = m.mountGallery()
		m.selected = derive.NormalizeLabels(opts.Selected)
	case ModeDetail:
		if key := strings.TrimSpace(opts.StartKey); key != "" {
			m.initCmd = m.mountDetail(key)
			break
		}
		m.initCmd = m.mountList()
	default:
		m.initCmd = m.mountList()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.initCmd)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(10, m.contentWidth()-4)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)

	case actions.ListLoadSuccessMsg:
		if msg.Mount != m.mount {
			return m, nil
		}
		items := app.ItemsFromReferences(msg.Refs)
		switch m.mode {
		case ModeList:
			m.listLoading = false
			m.err = nil
			m.items = items
			return m, m.recomputeList()
		case ModeGallery:
			m.galleryItems = items
			m.galleryQueue = nil
			for _, it := range items {
				if _, ok := m.resolved[it.Name]; !ok {
					m.galleryQueue = append(m.galleryQueue, it.Name)
				}
			}
			m.galleryLoading = false
			m.err = nil
			return m, tea.Batch(m.recomputeGallery(), m.nextGalleryBatch(0))
		}
		return m, nil
	case actions.ListLoadErrorMsg:
		if msg.Mount != m.mount {
			return m, nil
		}
		m.listLoading = false
		m.galleryLoading = false
		m.err = loadFailure("the catalog", msg.Err)
		return m, nil
	case actions.CategoriesLoadSuccessMsg:
		if msg.Mount != m.mount {
			return m, nil
		}
		m.categories = msg.Labels
		m.categoryCursor = tuistate.ClampCursor(m.categoryCursor, len(m.categories))
		return m, nil
	case actions.CategoriesLoadErrorMsg:
		if msg.Mount != m.mount {
			return m, nil
		}
		m.err = loadFailure("types", msg.Err)
		return m, nil
	case actions.GalleryBatchMsg:
		if msg.Mount != m.mount || m.mode != ModeGallery {
			return m, nil
		}
		m.galleryInFlight = false
		for _, d := range msg.Details {
			m.resolved[d.Name] = d.Categories
		}
		for _, key := range msg.Failed {
			m.resolved[key] = []string{}
		}
		return m, tea.Batch(m.recomputeGallery(), m.nextGalleryBatch(msg.Next))

	case actions.DetailLoadSuccessMsg:
		if msg.Mount != m.mount {
			return m, nil
		}
		d := msg.Detail
		m.detail = &d
		m.detailLoading = false
		m.detailErr = nil
		return m, m.ensureImagePreviewCmd()
	case actions.DetailLoadErrorMsg:
		if msg.Mount != m.mount {
			return m, nil
		}
		m.detailLoading = false
		m.detailErr = msg.Err
		return m, nil
	case actions.SequenceResolvedMsg:
		if msg.Mount != m.mount {
			return m, nil
		}
		m.sequence = msg.Sequence
		m.sequenceSource = msg.Source
		m.sequenceErr = nil
		return m, nil
	case actions.SequenceErrorMsg:
		if msg.Mount != m.mount {
			return m, nil
		}
		m.sequenceErr = msg.Err
		return m, nil
	case actions.PublishErrorMsg:
		m.err = msg.Err
		return m.setStatus("Could not save the current list", 4*time.Second)

	case actions.ImagePreviewSuccessMsg:
		delete(m.imagePreviewLoading, msg.Key)
		delete(m.imagePreviewErr, msg.Key)
		m.imagePreview[msg.Key] = msg.Preview
		if tuiview.ContainsKittyGraphicsEscape(msg.Preview) {
			m.kittyPlaced = true
		}
		return m, nil
	case actions.ImagePreviewErrorMsg:
		delete(m.imagePreviewLoading, msg.Key)
		m.imagePreviewErr[msg.Key] = msg.Err.Error()
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		return m.setStatus(msg.Status, 3*time.Second)
	case actions.OpenURLErrorMsg:
		m.err = nil
		return m.setStatus(msg.Err.Error(), 4*time.Second)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch m.mode {
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeGallery:
		return m.handleGalleryKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "ctrl+l":
		m.search.SetValue("")
		m.query.Text = ""
		return m, m.recomputeList()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != m.query.Text {
		m.query.Text = value
		return m, tea.Batch(cmd, m.recomputeList())
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m, m.mountGallery()
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "ctrl+l":
		m.search.SetValue("")
		m.query.Text = ""
		return m, m.recomputeList()
	case "s":
		if m.query.Key == derive.SortByID {
			m.query.Key = derive.SortByName
		} else {
			m.query.Key = derive.SortByID
		}
		return m, m.recomputeList()
	case "d":
		m.query.Descending = !m.query.Descending
		return m, m.recomputeList()
	case "i":
		m.query.MatchID = !m.query.MatchID
		return m, m.recomputeList()
	case "up", "k":
		m.cursor = tuistate.ClampCursor(m.cursor-1, len(m.visible))
		return m, nil
	case "down", "j":
		m.cursor = tuistate.ClampCursor(m.cursor+1, len(m.visible))
		return m, nil
	case "pgup", "ctrl+b":
		m.cursor = tuistate.ClampCursor(m.cursor-m.pageStep(), len(m.visible))
		return m, nil
	case "pgdown", "ctrl+f":
		m.cursor = tuistate.ClampCursor(m.cursor+m.pageStep(), len(m.visible))
		return m, nil
	case "g":
		m.cursor = 0
		return m, nil
	case "G":
		m.cursor = tuistate.ClampCursor(len(m.visible)-1, len(m.visible))
		return m, nil
	case "enter":
		if len(m.visible) == 0 {
			return m, nil
		}
		m.backMode = ModeList
		return m, m.mountDetail(m.visible[m.cursor].Name)
	}
	return m, nil
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m, m.mountList()
	case "left", "h":
		m.categoryCursor = tuistate.ClampCursor(m.categoryCursor-1, len(m.categories))
		return m, nil
	case "right", "l":
		m.categoryCursor = tuistate.ClampCursor(m.categoryCursor+1, len(m.categories))
		return m, nil
	case " ", "x":
		if len(m.categories) == 0 {
			return m, nil
		}
		m.selected = tuistate.ToggleLabel(m.selected, m.categories[m.categoryCursor])
		return m, m.recomputeGallery()
	case "c":
		if len(m.selected) == 0 {
			return m, nil
		}
		m.selected = nil
		return m, m.recomputeGallery()
	case "up", "k":
		m.galleryCursor = tuistate.ClampCursor(m.galleryCursor-1, len(m.cards))
		return m, nil
	case "down", "j":
		m.galleryCursor = tuistate.ClampCursor(m.galleryCursor+1, len(m.cards))
		return m, nil
	case "pgup", "ctrl+b":
		m.galleryCursor = tuistate.ClampCursor(m.galleryCursor-m.pageStep(), len(m.cards))
		return m, nil
	case "pgdown", "ctrl+f":
		m.galleryCursor = tuistate.ClampCursor(m.galleryCursor+m.pageStep(), len(m.cards))
		return m, nil
	case "g":
		m.galleryCursor = 0
		return m, nil
	case "G":
		m.galleryCursor = tuistate.ClampCursor(len(m.cards)-1, len(m.cards))
		return m, nil
	case "enter":
		if len(m.cards) == 0 {
			return m, nil
		}
		m.backMode = ModeGallery
		return m, m.mountDetail(m.cards[m.galleryCursor].Name)
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		if m.backMode == ModeGallery {
			return m, m.mountGallery()
		}
		return m, m.mountList()
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		maxTop := tuiview.DetailMaxTop(len(m.detailLines()), m.detailBodyHeight())
		if m.detailTop < maxTop {
			m.detailTop++
		}
		return m, nil
	case "[", "left", "h":
		return m.stepDetail(-1)
	case "]", "right", "l":
		return m.stepDetail(1)
	case "o":
		return m.openArtwork()
	case "y":
		return m.copyArtwork()
	}
	return m, nil
}

// stepDetail moves delta places through the resolved sequence, wrapping at
// both ends.
func (m Model) stepDetail(delta int) (tea.Model, tea.Cmd) {
	if m.sequenceErr != nil {
		return m.setStatus("Could not load the list to navigate", 4*time.Second)
	}
	if len(m.sequence) == 0 {
		return m.setStatus("List not loaded yet", 3*time.Second)
	}
	current := m.detailKey
	if m.detail != nil {
		current = m.detail.Name
	}
	i, ok := navigation.Locate(current, m.sequence)
	if !ok {
		i, ok = navigation.Locate(m.detailKey, m.sequence)
	}
	if !ok {
		return m.setStatus("Not in the current list", 3*time.Second)
	}
	next := navigation.Offset(m.sequence, i, delta)
	return m, m.mountDetail(next)
}

func (m Model) openArtwork() (tea.Model, tea.Cmd) {
	url, err := m.artworkURL()
	if err != nil {
		m.err = nil
		return m.setStatus(err.Error(), 4*time.Second)
	}
	return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
}

func (m Model) copyArtwork() (tea.Model, tea.Cmd) {
	url, err := m.artworkURL()
	if err != nil {
		m.err = nil
		return m.setStatus(err.Error(), 4*time.Second)
	}
	return m, actions.CopyURLCmd(url, m.copyURLFn)
}

func (m Model) artworkURL() (string, error) {
	if m.detail == nil {
		return "", fmt.Errorf("nothing loaded yet")
	}
	return platform.ValidateImageURL(m.detail.ImageRef)
}

func (m *Model) mountList() tea.Cmd {
	m.mode = ModeList
	m.mount++
	m.listLoading = true
	m.err = nil
	m.showHelp = false
	return actions.LoadListCmd(m.service, m.listLimit, m.mount)
}

func (m *Model) mountGallery() tea.Cmd {
	m.mode = ModeGallery
	m.mount++
	m.galleryLoading = true
	m.galleryInFlight = false
	m.galleryItems = nil
	m.galleryQueue = nil
	m.cards = nil
	m.galleryCursor = 0
	m.selected = nil
	m.err = nil
	m.showHelp = false
	m.searching = false
	m.search.Blur()
	return tea.Batch(
		actions.LoadListCmd(m.service, m.galleryLimit, m.mount),
		actions.LoadCategoriesCmd(m.service, m.mount),
	)
}

func (m *Model) mountDetail(key string) tea.Cmd {
	m.mode = ModeDetail
	m.mount++
	m.detailKey = key
	m.detail = nil
	m.detailErr = nil
	m.detailLoading = true
	m.detailTop = 0
	m.sequence = nil
	m.sequenceSource = ""
	m.sequenceErr = nil
	m.showHelp = false
	m.searching = false
	m.search.Blur()
	return tea.Batch(
		actions.LoadDetailCmd(m.service, key, m.mount),
		actions.ResolveSequenceCmd(m.service, m.mount),
	)
}

// recomputeList derives the visible list and publishes it. The cursor stays
// on the same entry when it survives the new query.
func (m *Model) recomputeList() tea.Cmd {
	anchor := ""
	if m.cursor < len(m.visible) {
		anchor = m.visible[m.cursor].Name
	}
	m.visible = derive.Apply(m.items, m.query)
	m.cursor = m.restoreCursor(derive.Names(m.visible), anchor, m.cursor)
	if m.listLoading || m.service == nil {
		return nil
	}
	return actions.PublishSequenceCmd(m.service, derive.Names(m.visible))
}

func (m *Model) recomputeGallery() tea.Cmd {
	anchor := ""
	if m.galleryCursor < len(m.cards) {
		anchor = m.cards[m.galleryCursor].Name
	}
	m.cards = derive.Gallery(m.galleryItems, m.resolved, m.selected)
	m.galleryCursor = m.restoreCursor(derive.CardNames(m.cards), anchor, m.galleryCursor)
	if m.galleryLoading || m.service == nil {
		return nil
	}
	return actions.PublishSequenceCmd(m.service, derive.CardNames(m.cards))
}

func (m Model) restoreCursor(names []string, anchor string, fallback int) int {
	if anchor != "" {
		if i, ok := navigation.Locate(anchor, names); ok {
			return i
		}
	}
	return tuistate.ClampCursor(fallback, len(names))
}

// nextGalleryBatch requests the chunk of unresolved gallery details starting at from.
func (m *Model) nextGalleryBatch(from int) tea.Cmd {
	if from >= len(m.galleryQueue) || m.service == nil {
		return nil
	}
	end := min(from+galleryChunkSize, len(m.galleryQueue))
	m.galleryInFlight = true
	return actions.LoadGalleryBatchCmd(m.service, m.galleryQueue[from:end], end, m.mount)
}

func (m *Model) ensureImagePreviewCmd() tea.Cmd {
	if !m.imagePreviewEnabled || m.detail == nil || m.renderImageFn == nil {
		return nil
	}
	url, err := platform.ValidateImageURL(m.detail.ImageRef)
	if err != nil {
		return nil
	}
	key := m.detail.Name
	if _, ok := m.imagePreview[key]; ok {
		return nil
	}
	if m.imagePreviewLoading[key] {
		return nil
	}
	m.imagePreviewLoading[key] = true
	return actions.ImagePreviewCmd(key, url, m.contentWidth(), m.renderImageFn)
}

func (m Model) setStatus(status string, after time.Duration) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, clearStatusCmd(m.statusID, after)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func loadFailure(what string, err error) error {
	if errors.Is(err, pokeapi.ErrNotFound) {
		return fmt.Errorf("%s not found", what)
	}
	return fmt.Errorf("failed to load %s", what)
}

func (m Model) pageStep() int {
	return tuistate.PageStep(m.height, m.status != "" || m.err != nil)
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) listBodyHeight() int {
	if m.height > 0 {
		used := 6
		if m.mode == ModeGallery {
			used += len(tuiview.RenderCategoryBar(m.categories, m.selected, m.categoryCursor, m.contentWidth(), m.th)) + 1
		}
		if m.searching || m.query.Text != "" {
			used++
		}
		if h := m.height - used; h > 3 {
			return h
		}
		return 3
	}
	return 20
}

func (m Model) detailBodyHeight() int {
	if m.height > 0 {
		if h := m.height - 6; h > 3 {
			return h
		}
	}
	return 16
}
