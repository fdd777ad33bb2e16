// Command planedit is a TUI editor for project plans.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/clip"
	"github.com/ha1tch/plangrid/pkg/grid"
	"github.com/ha1tch/plangrid/pkg/planfile"
	"github.com/ha1tch/plangrid/pkg/rollup"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// Editor holds all editor state
type Editor struct {
	screen      tcell.Screen
	grid        *grid.Grid
	plan        *planfile.Plan
	filename    string
	modified    bool
	mode        Mode
	message     string
	messageType MessageType
	config      Config
	configPath  string
	log         *slog.Logger
	clipboard   clip.Clipboard
	quitting    bool

	// Scroll offsets: first visible row and first column shown
	top  int
	left int

	// Left-button state
	mouseDown bool

	// Double-click detection
	lastClickTime int64 // Unix milliseconds of last click
	lastClickX    int
	lastClickY    int

	// Menu state
	menuItems    []string
	menuSelected int

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	// File picker state
	fileList        []string
	fileSelected    int
	dirList         []string
	dirSelected     int
	currentDir      string
	filePickerFocus int // 0 = directories, 1 = files

	// Help scroll state
	helpScrollOffset int

	// Message flash state
	messageFlashStart int64 // Unix milliseconds when message was shown
}

// Mode represents editor mode
type Mode int

const (
	ModeMenu Mode = iota
	ModeGrid
	ModeInput
	ModeFilePicker
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

const doubleClickMs = 400

// Supported plan file extensions, in file picker order.
var planExts = []string{".yaml", ".yml", ".json", ".jsonc"}

func main() {
	fs := pflag.NewFlagSet("planedit", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: planedit [options] [file]\n\nEdit a project plan (.yaml, .json or .jsonc).\n\nFlags:\n")
		fs.PrintDefaults()
	}
	logOutput := fs.String("log-output", "", "write JSON logs to this file")
	configPath := fs.String("config", ConfigPath(), "config file")
	norway := fs.Bool("norway", false, "treat Norwegian public holidays as non-working")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	log, closeLog, err := openLog(*logOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Warn("using default config", "err", err)
	}
	if fs.Changed("norway") {
		cfg.Norway = *norway
	}

	ed := newEditor(cfg, log, systemClipboard(log))
	ed.configPath = *configPath

	// Check command line
	if fs.NArg() > 0 {
		if err := ed.loadFile(fs.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", fs.Arg(0), err)
			os.Exit(1)
		}
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen

	// If a file was loaded from the command line, go straight to the grid
	if ed.filename != "" {
		ed.mode = ModeGrid
	}

	ed.run()

	screen.Fini()
	ed.grid.Close()
}

// openLog returns a JSON logger writing to path. Without a path logs are
// discarded: the terminal belongs to the editor.
func openLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	log := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return log, func() { f.Close() }, nil
}

func systemClipboard(log *slog.Logger) clip.Clipboard {
	if clip.Unsupported() {
		log.Warn("no system clipboard, copy and paste stay inside the editor")
		return &clip.Memory{}
	}
	return clip.System()
}

func newEditor(cfg Config, log *slog.Logger, cb clip.Clipboard) *Editor {
	ed := &Editor{
		config:     cfg,
		configPath: ConfigPath(),
		log:        log,
		clipboard:  cb,
		mode:       ModeMenu,
	}
	ed.setPlan(planfile.New(""), "")
	ed.updateMenuItems()
	return ed
}

// setPlan replaces the plan being edited and rebuilds the grid over it.
func (ed *Editor) setPlan(p *planfile.Plan, filename string) {
	if ed.grid != nil {
		ed.grid.Close()
	}
	ed.plan = p
	ed.filename = filename
	ed.modified = false
	ed.top, ed.left = 0, 0
	ed.grid = grid.New(p.Columns, p.Rows,
		grid.WithCalendar(ed.calendar()),
		grid.WithClipboard(ed.clipboard),
		grid.WithLogger(ed.log),
		grid.WithHistoryLimit(ed.config.HistoryLimit),
		grid.WithOnChange(ed.onChange),
	)
	if ed.grid.Len() > 0 {
		ed.grid.Select(0, 0)
	}
}

func (ed *Editor) onChange(rows []sheet.Row, ch grid.Change) {
	ed.modified = true
	ed.log.Debug("plan changed", "kind", ch.Kind, "rows", len(rows))
}

// calendar builds the working-day calendar of the current plan. With the
// Norway setting on, public holidays of every year the plan touches are
// added, plus a year on either side.
func (ed *Editor) calendar() *calendar.Set {
	days := ed.plan.NonWorkingDays()
	if ed.config.Norway {
		from, to := planYears(ed.plan)
		for y := from - 1; y <= to+1; y++ {
			days = append(days, calendar.ExpandPeriods(calendar.Norwegian(y))...)
		}
	}
	cal, rejected := calendar.NewSet(days)
	for _, d := range rejected {
		ed.log.Warn("ignoring non-working day", "plan", ed.filename, "date", d)
	}
	return cal
}

// planYears returns the first and last year of the plan's timeline,
// widened to include the current year.
func planYears(p *planfile.Plan) (from, to int) {
	now := time.Now().Year()
	from, to = now, now
	s := rollup.Summarize(p.Columns, p.Rows)
	if t, ok := calendar.ParseISO(s.First); ok {
		from = min(from, t.Year())
	}
	if t, ok := calendar.ParseISO(s.Last); ok {
		to = max(to, t.Year())
	}
	return from, to
}

func (ed *Editor) updateMenuItems() {
	holidayLabel := "Norwegian Holidays: Off"
	if ed.config.Norway {
		holidayLabel = "Norwegian Holidays: On"
	}

	ed.menuItems = []string{
		"New Plan",
		"Open File",
		"Save",
		"Save As",
		"Edit Grid",
		holidayLabel,
		"Help",
		"Quit",
	}
}

func (ed *Editor) run() {
	// Use a goroutine to send periodic refresh events during the message flash
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if ed.message != "" && ed.messageFlashStart > 0 {
				elapsed := time.Now().UnixMilli() - ed.messageFlashStart
				if elapsed >= 0 && elapsed < 700 {
					ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Refresh event for flash animation - just redraw
		case nil:
			return
		}
		if ed.quitting {
			return
		}
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	// Global shortcuts (Ctrl or Cmd on macOS). Cmd is reported as Meta+rune
	// or Alt+rune depending on the terminal.
	mod := ev.Modifiers()
	isCtrlOrCmd := func(key tcell.Key, r rune) bool {
		if ev.Key() == key {
			return true
		}
		if mod&(tcell.ModMeta|tcell.ModAlt) != 0 && ev.Key() == tcell.KeyRune && ev.Rune() == r {
			return true
		}
		return false
	}

	if isCtrlOrCmd(tcell.KeyCtrlS, 's') {
		ed.save()
		return false
	}
	if isCtrlOrCmd(tcell.KeyCtrlO, 'o') {
		ed.openFilePicker()
		return false
	}
	if isCtrlOrCmd(tcell.KeyCtrlQ, 'q') {
		return ed.quit()
	}

	switch ed.mode {
	case ModeMenu:
		return ed.handleMenuKey(ev)
	case ModeGrid:
		return ed.handleGridKey(ev)
	case ModeInput:
		return ed.handleInputKey(ev)
	case ModeFilePicker:
		return ed.handleFilePickerKey(ev)
	case ModeHelp:
		return ed.handleHelpKey(ev)
	}
	return false
}

func (ed *Editor) handleMenuKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.menuSelected > 0 {
			ed.menuSelected--
		}
	case tcell.KeyDown:
		if ed.menuSelected < len(ed.menuItems)-1 {
			ed.menuSelected++
		}
	case tcell.KeyEnter:
		return ed.executeMenuItem()
	case tcell.KeyEscape:
		ed.mode = ModeGrid
	}
	return false
}

func (ed *Editor) executeMenuItem() bool {
	item := ed.menuItems[ed.menuSelected]

	switch {
	case item == "New Plan":
		ed.newPlan()
	case item == "Open File":
		ed.openFilePicker()
	case item == "Save":
		ed.save()
	case item == "Save As":
		ed.saveAs()
	case item == "Edit Grid":
		ed.mode = ModeGrid
	case strings.HasPrefix(item, "Norwegian Holidays:"):
		ed.toggleNorway()
	case item == "Help":
		ed.helpScrollOffset = 0
		ed.mode = ModeHelp
	case item == "Quit":
		return ed.quit()
	}
	return false
}

// quit leaves the editor, asking first when there are unsaved changes.
func (ed *Editor) quit() bool {
	if !ed.modified {
		return true
	}
	ed.inputPrompt = "Unsaved changes. Quit anyway? (y/n): "
	ed.inputBuffer = ""
	ed.inputAction = func(s string) {
		if strings.ToLower(s) == "y" {
			ed.quitting = true
			return
		}
		ed.mode = ModeMenu
	}
	ed.mode = ModeInput
	return false
}

func (ed *Editor) toggleNorway() {
	ed.config.Norway = !ed.config.Norway
	ed.grid.SetCalendar(ed.calendar())
	if ed.config.Norway {
		ed.showMessage("Norwegian public holidays are non-working days", MsgInfo)
	} else {
		ed.showMessage("Norwegian public holidays are working days", MsgInfo)
	}
	ed.updateMenuItems()
	if err := SaveConfig(ed.configPath, ed.config); err != nil {
		ed.showMessage("Failed to save config: "+err.Error(), MsgError)
	}
}

// handleGridKey runs the editor's row commands and hands everything else
// to the grid.
func (ed *Editor) handleGridKey(ev *tcell.EventKey) bool {
	defer ed.follow()

	if !ed.grid.Editing() && ed.handleRowKey(ev) {
		return false
	}

	kev, ok := translateKey(ev)
	if !ok {
		return false
	}
	if kev.Mod&grid.ModCtrl != 0 && kev.Key == grid.KeyRune && !ed.grid.Editing() {
		switch kev.Rune {
		case 'c':
			ed.reportClipboard("Copied", ed.grid.Copy())
			return false
		case 'x':
			ed.reportClipboard("Cut", ed.grid.Cut())
			return false
		case 'v':
			_, err := ed.grid.Paste()
			ed.reportClipboard("Pasted", err)
			return false
		}
	}
	// Esc collapses a range selection first, then opens the menu.
	if kev.Key == grid.KeyEscape && !ed.grid.Editing() {
		if rect, ok := ed.grid.SelectionRect(); !ok || rect.Single() {
			ed.mode = ModeMenu
			return false
		}
	}
	ed.grid.HandleKey(kev)
	return false
}

func (ed *Editor) reportClipboard(done string, err error) {
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	if _, ok := ed.grid.SelectionRect(); ok {
		ed.showMessage(done, MsgInfo)
	}
}

// handleRowKey applies the row and column commands that have no meaning
// inside a cell edit.
func (ed *Editor) handleRowKey(ev *tcell.EventKey) bool {
	g := ed.grid
	r := -1
	c := 0
	if p, ok := g.Active(); ok {
		r, c = p.Row, p.Col
	}
	moved := ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0

	switch {
	case ev.Key() == tcell.KeyInsert || (g.Len() == 0 && ev.Key() == tcell.KeyEnter):
		g.InsertRow(r)
	case ev.Key() == tcell.KeyCtrlD:
		if g.DeleteSelectedRows() {
			ed.showMessage("Rows deleted", MsgSuccess)
		}
	case ev.Key() == tcell.KeyF1:
		ed.helpScrollOffset = 0
		ed.mode = ModeHelp
	case ev.Key() == tcell.KeyF4:
		if r >= 0 && !g.ToggleCollapse(r) {
			ed.showMessage("Row has no children", MsgWarning)
		}
	case ev.Key() == tcell.KeyF6:
		g.AutoFitColumn(c)
	case moved && ev.Key() == tcell.KeyRight:
		if r >= 0 && !g.Indent(r) {
			ed.showMessage("Cannot indent this row", MsgWarning)
		}
	case moved && ev.Key() == tcell.KeyLeft:
		if r >= 0 && !g.Outdent(r) {
			ed.showMessage("Cannot outdent this row", MsgWarning)
		}
	case moved && (ev.Key() == tcell.KeyUp || ev.Key() == tcell.KeyDown):
		to := r - 1
		if ev.Key() == tcell.KeyDown {
			to = r + 1
		}
		if r >= 0 && !g.ReorderRows(r, to) {
			ed.showMessage("Cannot move the row there", MsgWarning)
		}
	default:
		return false
	}
	return true
}

// follow scrolls the active cell into view.
func (ed *Editor) follow() {
	if ed.screen == nil {
		return
	}
	w, h := ed.screen.Size()
	ed.top = min(ed.top, max(ed.grid.Len()-1, 0))
	p, ok := ed.grid.Active()
	if !ok {
		return
	}
	ed.top, ed.left = scrollTo(ed.grid.Columns(), w, h, ed.top, ed.left, p.Row, p.Col)
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeMenu
	case tcell.KeyEnter:
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
		ed.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

func (ed *Editor) handleFilePickerKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeMenu
	case tcell.KeyTab:
		ed.filePickerFocus = 1 - ed.filePickerFocus
	case tcell.KeyLeft:
		ed.filePickerFocus = 0
	case tcell.KeyRight:
		ed.filePickerFocus = 1
	case tcell.KeyUp:
		if ed.filePickerFocus == 0 {
			if ed.dirSelected > 0 {
				ed.dirSelected--
			}
		} else if ed.fileSelected > 0 {
			ed.fileSelected--
		}
	case tcell.KeyDown:
		if ed.filePickerFocus == 0 {
			if ed.dirSelected < len(ed.dirList)-1 {
				ed.dirSelected++
			}
		} else if ed.fileSelected < len(ed.fileList)-1 {
			ed.fileSelected++
		}
	case tcell.KeyEnter:
		if ed.filePickerFocus == 0 {
			selectedDir := ed.dirList[ed.dirSelected]
			if selectedDir == ".." {
				ed.currentDir = filepath.Dir(ed.currentDir)
			} else {
				ed.currentDir = filepath.Join(ed.currentDir, selectedDir)
			}
			ed.refreshFilePicker()
		} else if len(ed.fileList) > 0 {
			fullPath := filepath.Join(ed.currentDir, ed.fileList[ed.fileSelected])
			if err := ed.loadFile(fullPath); err != nil {
				ed.showMessage("Error: "+err.Error(), MsgError)
				return false
			}
			ed.config.LastDir = ed.currentDir
			if err := SaveConfig(ed.configPath, ed.config); err != nil {
				ed.log.Warn("saving config", "err", err)
			}
			ed.showMessage("Loaded: "+ed.filename, MsgSuccess)
			ed.mode = ModeGrid
		}
	}
	return false
}

func (ed *Editor) handleHelpKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.helpScrollOffset > 0 {
			ed.helpScrollOffset--
		}
	case tcell.KeyDown:
		if ed.helpScrollOffset < len(helpLines)-1 {
			ed.helpScrollOffset++
		}
	case tcell.KeyEscape, tcell.KeyEnter, tcell.KeyF1:
		ed.mode = ModeGrid
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			ed.mode = ModeGrid
		}
	}
	return false
}

// Actions

func (ed *Editor) newPlan() {
	ed.inputPrompt = "Plan name (optional): "
	ed.inputBuffer = ""
	ed.inputAction = func(name string) {
		ed.setPlan(planfile.New(name), "")
		ed.grid.InsertRow(-1)
		ed.modified = false
		ed.showMessage("New plan created", MsgSuccess)
		ed.mode = ModeGrid
	}
	ed.mode = ModeInput
}

func (ed *Editor) openFilePicker() {
	// Start in last used directory
	ed.currentDir = ed.config.LastDir
	if ed.currentDir == "" {
		ed.currentDir, _ = os.Getwd()
	}

	ed.refreshFilePicker()
	ed.filePickerFocus = 1
	ed.mode = ModeFilePicker
}

func (ed *Editor) refreshFilePicker() {
	ed.dirList = []string{".."}
	entries, err := os.ReadDir(ed.currentDir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				ed.dirList = append(ed.dirList, e.Name())
			}
		}
	}
	ed.dirSelected = 0

	ed.fileList = nil
	for _, ext := range planExts {
		matches, _ := filepath.Glob(filepath.Join(ed.currentDir, "*"+ext))
		for _, f := range matches {
			ed.fileList = append(ed.fileList, filepath.Base(f))
		}
	}
	sort.Strings(ed.fileList)
	ed.fileSelected = 0
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.saveAs()
		return
	}
	if err := ed.saveFile(ed.filename); err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
	} else {
		ed.modified = false
		ed.showMessage("Saved: "+ed.filename, MsgSuccess)
	}
}

func (ed *Editor) saveAs() {
	ed.inputPrompt = "Save as: "
	ed.inputBuffer = ed.filename
	ed.inputAction = func(name string) {
		ed.mode = ModeGrid
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if filepath.Ext(name) == "" {
			name += "." + ed.config.Format
		}
		if err := ed.saveFile(name); err != nil {
			ed.showMessage("Error: "+err.Error(), MsgError)
			return
		}
		ed.filename = name
		ed.modified = false
		ed.showMessage("Saved: "+name, MsgSuccess)
	}
	ed.mode = ModeInput
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
	// Trigger immediate refresh for flash animation
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// File operations

func (ed *Editor) loadFile(path string) error {
	p, err := planfile.ReadFile(path)
	if err != nil {
		return err
	}
	ed.setPlan(p, path)
	ed.log.Info("loaded plan", "path", path, "rows", len(p.Rows))
	return nil
}

func (ed *Editor) saveFile(path string) error {
	ed.grid.CommitEdit()
	ed.plan.Columns = ed.grid.Columns()
	ed.plan.Rows = ed.grid.Data()
	if ed.plan.Name == "" {
		ed.plan.Name = planfile.NameFromPath(path)
	}
	if err := planfile.WriteFile(path, ed.plan); err != nil {
		return err
	}
	ed.log.Info("saved plan", "path", path, "rows", len(ed.plan.Rows))
	return nil
}
