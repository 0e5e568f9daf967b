// Package tui provides the terminal user interface for cancha.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidalperez/cancha/internal/config"
	"github.com/nvidalperez/cancha/internal/gesture"
	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/summary"
	"github.com/nvidalperez/cancha/internal/tui/commands"
	"github.com/nvidalperez/cancha/internal/tui/theme"
)

// Terminal grid scale: two lines per hour, so one line covers 30 minutes.
const (
	linesPerHour    = 2.0
	timeGutterWidth = 7
	gridTopLines    = 2 // title bar + day header
	chromeLines     = 4 // title, header, status, help
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalLessonForm
	ModalLessonDetail
	ModalConfirmDelete
	ModalWeekSummary
)

// Duration options for the lesson form, in minutes.
var durationOptions = []int{30, 45, 60, 90}

// Position represents the keyboard cursor in the grid.
type Position struct {
	Day int // column index within the visible range
	Row int // grid body line (one line per 30 minutes)
}

// intentSink collects gesture intents emitted during one Update pass. It is
// shared by pointer between model copies so callbacks survive bubbletea's
// value semantics.
type intentSink struct {
	slots   []gesture.SlotSelection
	selects []gesture.EventSelection
	moves   []gesture.EventMove
}

// lessonForm holds the new-lesson modal state.
type lessonForm struct {
	title       textinput.Model
	clientIdx   int
	durationIdx int
	focus       int // 0=title, 1=client, 2=duration
	slotStart   time.Time
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   lesson.Repository
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// View composition
	composer *grid.Composer
	geo      grid.Geometry

	// Pointer interaction
	gest *gesture.Controller
	sink *intentSink

	// Loaded data
	lessons  []*lesson.Lesson
	clients  map[string]*lesson.Client
	rendered [][]grid.Rendered // one slice per visible day column
	loading  bool

	// Cursor and scrolling
	cursor       Position
	scrollOffset int

	// Modal state
	mode           Mode
	modalType      ModalType
	selected       *lesson.Lesson
	confirmMessage string
	form           lessonForm
	weekSummary    *summary.WeekSummary

	// Terminal dimensions and layout
	width    int
	height   int
	colWidth int

	// Messages
	statusMsg  string
	statusTime time.Time

	// Injectable clock for tests
	now func() time.Time

	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNowFunc overrides the model's clock.
func WithNowFunc(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
		m.composer.SetNowFunc(now)
	}
}

// New creates a new TUI model.
func New(repo lesson.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	title := textinput.New()
	title.Placeholder = "Lesson title"
	title.CharLimit = 128
	title.Width = 32
	title.PlaceholderStyle = styles.ModalPlaceholderStyle
	title.TextStyle = styles.ModalInputTextStyle
	title.Cursor.Style = styles.ModalInputCursorStyle

	composer := grid.NewComposer(time.Now(), grid.ParseViewMode(cfg.UI.DefaultView))

	geo := grid.Geometry{
		PxPerHour:        linesPerHour,
		MinEventHeightPx: 1,
	}

	sink := &intentSink{}
	gest := gesture.NewController(
		gesture.Config{
			MoveThresholdPx: 1, // one terminal cell
			LongPressDelay:  500 * time.Millisecond,
			SnapMinutes:     cfg.Schedule.SnapMinutes,
			DefaultDuration: time.Duration(cfg.Schedule.DefaultLessonMinutes) * time.Minute,
			ClickCooldown:   300 * time.Millisecond,
		},
		gesture.Callbacks{
			OnSelectSlot:  func(s gesture.SlotSelection) { sink.slots = append(sink.slots, s) },
			OnSelectEvent: func(s gesture.EventSelection) { sink.selects = append(sink.selects, s) },
			OnMoveEvent:   func(mv gesture.EventMove) { sink.moves = append(sink.moves, mv) },
		},
	)

	m := &Model{
		repo:     repo,
		config:   cfg,
		theme:    t,
		styles:   styles,
		composer: composer,
		geo:      geo,
		gest:     gest,
		sink:     sink,
		clients:  map[string]*lesson.Client{},
		mode:     ModeNormal,
		form: lessonForm{
			title:       title,
			durationIdx: defaultDurationIdx(cfg.Schedule.DefaultLessonMinutes),
		},
		colWidth: defaultColWidth,
		loading:  true,
		now:      time.Now,
	}
	m.cursor = Position{Day: m.todayColumn(), Row: m.rowForHour(9)}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadVisibleRange(), tickNow())
}

// loadVisibleRange loads the lessons for the composer's current range.
func (m Model) loadVisibleRange() tea.Cmd {
	from, to := m.composer.RangeBounds()
	return commands.LoadRange(m.repo, from, to)
}

// dayWindows returns the visible windows of the current view's day columns.
func (m Model) dayWindows() []grid.VisibleWindow {
	switch m.composer.Mode() {
	case grid.ViewDay:
		return []grid.VisibleWindow{m.composer.DayWindow()}
	default:
		week := m.composer.WeekWindows()
		return week[:]
	}
}

// frame captures the current grid geometry for a gesture.
func (m Model) frame() gesture.Frame {
	return gesture.Frame{
		Windows:    m.dayWindows(),
		Geometry:   m.geo,
		ColWidthPx: float64(m.colWidth),
	}
}

// gridBodyLines is the full height of the scrollable grid body.
func (m Model) gridBodyLines() int {
	return int(m.geo.WindowHeightPx())
}

// visibleRows is how many grid body lines fit on screen.
func (m Model) visibleRows() int {
	rows := m.height - chromeLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m Model) todayColumn() int {
	if m.composer.Mode() == grid.ViewDay {
		return 0
	}
	return weekdayIndex(time.Now())
}

// rowForHour maps a clock hour to its grid body line. Hours before the
// window start wrap to the bottom, matching the window's 24-hour span.
func (m Model) rowForHour(hour int) int {
	minutes := (hour-grid.LeadInHour)*60 - grid.LeadInMinute
	if minutes < 0 {
		minutes += grid.WindowMinutes
	}
	return int(m.geo.MinutesToPx(float64(minutes)))
}

func weekdayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

func defaultDurationIdx(minutes int) int {
	for i, d := range durationOptions {
		if d == minutes {
			return i
		}
	}
	return 0
}

// Run starts the TUI.
func Run(repo lesson.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(repo lesson.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(repo, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
