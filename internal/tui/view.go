package tui

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/smart-trainer/workout-builder/internal/editor"
)

const (
	logViewLines = 200
	zoneBarWidth = 20
)

// View draws the editor with tview: the power profile on top, the block
// list below it, and metrics, zones and logs on the right
type View struct {
	logger     *log.Logger
	app        *tview.Application
	engine     *editor.Engine
	controller *Controller
	logs       *LogBuffer

	root          *tview.Flex
	profilePanel  *tview.Box
	structurePane *tview.TextView
	metricsPanel  *tview.TextView
	zonesPanel    *tview.TextView
	logView       *tview.TextView
	statusBar     *tview.TextView

	latest      editor.Snapshot
	logDirty    atomic.Bool
	unsubscribe []func()
}

// NewView wires a view to the engine and controller. logs may be nil when
// the log panel should stay empty
func NewView(logger *log.Logger, app *tview.Application, engine *editor.Engine, controller *Controller, logs *LogBuffer) *View {
	if logger == nil {
		panic("View: logger cannot be nil")
	}
	if app == nil || engine == nil || controller == nil {
		panic("View: app, engine and controller are required")
	}

	v := &View{
		logger:     logger,
		app:        app,
		engine:     engine,
		controller: controller,
		logs:       logs,
		latest:     engine.Snapshot(),
	}
	v.initialize()
	v.setupKeyboardHandlers()
	v.setupEventListeners()
	v.render()
	return v
}

func (v *View) initialize() {
	v.profilePanel = tview.NewBox()
	v.profilePanel.SetBorder(true).SetTitle(" Profile ")
	v.profilePanel.SetDrawFunc(v.drawProfile)

	v.structurePane = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	v.structurePane.SetBorder(true).SetTitle(" Blocks ")

	v.metricsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	v.metricsPanel.SetBorder(true).SetTitle(" Metrics ")

	v.zonesPanel = tview.NewTextView().
		SetDynamicColors(true)
	v.zonesPanel.SetBorder(true).SetTitle(" Zones ")

	// Filled by refreshLogs before each draw. Queueing onto the event loop
	// from another goroutine could block once the loop has exited
	v.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetMaxLines(logViewLines)
	v.logView.SetBorder(true).SetTitle(" Logs ")

	v.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)

	leftColumn := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.profilePanel, 0, 2, false).
		AddItem(v.structurePane, 0, 3, true)

	rightColumn := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.metricsPanel, 13, 0, false).
		AddItem(v.zonesPanel, 8, 0, false).
		AddItem(v.logView, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(leftColumn, 0, 3, true).
		AddItem(rightColumn, 0, 2, false)

	v.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(v.statusBar, 3, 0, false)
}

func (v *View) setupKeyboardHandlers() {
	v.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if !v.controller.HandleKey(event) {
			return event
		}
		// cursor moves do not change the engine
		v.latest = v.engine.Snapshot()
		v.render()
		return nil
	})
}

func (v *View) setupEventListeners() {
	v.unsubscribe = append(v.unsubscribe, v.engine.OnChange(func(s editor.Snapshot) {
		v.latest = s
	}))

	if v.logs == nil {
		return
	}
	v.unsubscribe = append(v.unsubscribe, v.logs.Lines.Subscribe(func(string) {
		v.logDirty.Store(true)
	}))
	v.logDirty.Store(true)
	v.app.SetBeforeDrawFunc(func(tcell.Screen) bool {
		v.refreshLogs()
		return false
	})
}

// render refreshes every text panel from the latest snapshot. The profile
// is drawn on demand by drawProfile
func (v *View) render() {
	s := v.latest
	cursor := v.controller.Cursor()

	v.structurePane.SetText(strings.Join(structureLines(s, cursor), "\n"))
	v.metricsPanel.SetText(metricsText(s))
	v.zonesPanel.SetText(strings.Join(zoneBars(s.Zones, zoneBarWidth), "\n"))

	status := v.controller.Status()
	if status != "" {
		status = "[green]" + tview.Escape(status) + "[white]\n"
	}
	v.statusBar.SetText(status + helpText)
}

// refreshLogs copies new log lines into the log panel. It runs inside the
// event loop, right before a draw
func (v *View) refreshLogs() {
	if !v.logDirty.Swap(false) {
		return
	}
	lines := v.logs.Tail(logViewLines)
	for i, line := range lines {
		lines[i] = tview.Escape(line)
	}
	v.logView.SetText(strings.Join(lines, "\n"))
	v.logView.ScrollToEnd()
}

func (v *View) drawProfile(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	ix, iy, iw, ih := v.profilePanel.GetInnerRect()
	cols := profileColumns(v.latest.Workout.Items, iw)
	if len(cols) == 0 || ih <= 0 {
		tview.Print(screen, "[gray]No blocks yet", ix, iy, iw, tview.AlignCenter, tcell.ColorGray)
		return ix, iy, iw, ih
	}

	highlight := map[string]bool{v.controller.Cursor(): true}
	for _, id := range v.latest.Selection {
		highlight[id] = true
	}

	for i, bar := range profileBars(cols, ih) {
		style := tcell.StyleDefault.Foreground(tcell.GetColor(cols[i].color()))
		ch := '█'
		if highlight[cols[i].ID] {
			ch = '▓'
		}
		for level := range bar {
			screen.SetContent(ix+i, iy+ih-1-level, ch, nil, style)
		}
	}
	return ix, iy, iw, ih
}

// Run starts the UI and blocks until it exits
func (v *View) Run() error {
	v.app.SetRoot(v.root, true)
	return v.app.Run()
}

// Stop stops the UI framework
func (v *View) Stop() {
	v.app.Stop()
}

// Shutdown detaches the view from the engine and the log buffer. Call it
// after Run has returned
func (v *View) Shutdown() {
	v.logger.Println("View: Shutting down")
	v.app.SetBeforeDrawFunc(nil)
	for _, unsubscribe := range v.unsubscribe {
		unsubscribe()
	}
	v.logger.Println("View: Shutdown complete")
}
