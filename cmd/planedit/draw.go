package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/plangrid/pkg/grid"
	"github.com/ha1tch/plangrid/pkg/rollup"
	"github.com/ha1tch/plangrid/pkg/selection"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleHeading    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHeader     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray).Bold(true)
	styleDrop       = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleCell       = tcell.StyleDefault
	styleAggregated = tcell.StyleDefault.Foreground(tcell.ColorTeal).Italic(true)
	styleSelected   = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleFocus      = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite).Bold(true)
	styleEdit       = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	styleEditAll    = tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorNavy)
	styleGutter     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSummary    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray) // Help bar on default background
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Flash pattern: normal(0-125) -> inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
const (
	flashPhaseMs = 125
	flashMs      = 500
)

// flashInverted reports whether a message shown elapsed milliseconds ago
// is drawn inverted.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashMs {
		return false
	}
	phase := elapsed / flashPhaseMs
	return phase == 1 || phase == 3
}

// flashes reports whether messages of type t flash when shown.
func flashes(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	ed.screen.HideCursor()
	w, h := ed.screen.Size()

	ed.drawGrid()
	ed.drawSummary(w, h)

	switch ed.mode {
	case ModeMenu:
		ed.drawMenuOverlay(w, h)
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeFilePicker:
		ed.drawFilePicker(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawGrid() {
	g := ed.grid
	l := ed.layout()
	cols := g.Columns()

	// Drag feedback
	dropRow, dropCol := -1, -1
	if p, ok := g.DropTarget(); ok {
		switch g.Dragging() {
		case grid.DragRow:
			dropRow = p.Row
		case grid.DragColumnReorder:
			dropCol = p.Col
		}
	}

	// Header
	for x := 0; x < l.w; x++ {
		ed.screen.SetContent(x, 0, ' ', nil, styleHeader)
	}
	for c := l.left; c < len(cols); c++ {
		x, cw, ok := l.colX(c)
		if !ok {
			break
		}
		style := styleHeader
		if c == dropCol {
			style = styleDrop
		}
		ed.drawString(x, 0, fit(cols[c].Title, cw), style)
		ed.screen.SetContent(x+cw, 0, '│', nil, styleBorder)
	}

	// Rows
	rect, hasRect := g.SelectionRect()
	focus, hasFocus := g.Active()
	edit := g.Edit()
	for r := l.top; r < l.rows; r++ {
		y, ok := l.rowY(r)
		if !ok {
			break
		}
		row, _ := g.Row(r)

		handle := '⋮'
		if r == dropRow {
			handle = '▶'
		}
		ed.screen.SetContent(0, y, handle, nil, styleGutter)
		if g.IsParent(r) {
			marker := '▾'
			if g.IsCollapsed(r) {
				marker = '▸'
			}
			ed.screen.SetContent(1, y, marker, nil, styleGutter)
		}

		for c := l.left; c < len(cols); c++ {
			x, cw, ok := l.colX(c)
			if !ok {
				break
			}
			if edit != nil && edit.Row == r && edit.Col == c {
				ed.drawEditCell(x, y, cw, edit)
			} else {
				text := g.DisplayValue(r, c)
				if cols[c].IsTitle {
					text = strings.Repeat("  ", row.Indent) + text
				}
				ed.drawString(x, y, fit(text, cw), ed.cellStyle(r, c, rect, hasRect, focus, hasFocus))
			}
			ed.screen.SetContent(x+cw, y, '│', nil, styleBorder)
		}
	}
}

func (ed *Editor) cellStyle(r, c int, rect selection.Rect, hasRect bool, focus selection.Point, hasFocus bool) tcell.Style {
	switch {
	case hasFocus && focus.Row == r && focus.Col == c:
		return styleFocus
	case hasRect && rect.Contains(r, c):
		return styleSelected
	case ed.grid.IsAggregated(r, c):
		return styleAggregated
	}
	return styleCell
}

// drawEditCell draws the text being edited and places the terminal cursor
// on the caret, scrolling the text when the caret runs past the cell.
func (ed *Editor) drawEditCell(x, y, w int, e *grid.EditState) {
	style := styleEdit
	if e.Mode == grid.EditSelectAll {
		style = styleEditAll
	}
	runes := []rune(e.Text)
	caretX := runewidth.StringWidth(string(runes[:min(e.Caret, len(runes))]))
	shift := 0
	if caretX >= w {
		shift = caretX - w + 1
	}
	ed.drawString(x, y, fit(dropColumns(e.Text, shift), w), style)
	ed.screen.ShowCursor(x+caretX-shift, y)
}

// dropColumns removes the first n display columns of s.
func dropColumns(s string, n int) string {
	for i, r := range s {
		if n <= 0 {
			return s[i:]
		}
		n -= runewidth.RuneWidth(r)
	}
	return ""
}

// fit truncates or pads s to exactly w display columns.
func fit(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

func (ed *Editor) drawSummary(w, h int) {
	y := h - footerRows
	rect, ok := ed.grid.SelectionRect()
	line := summaryString(ed.grid.Summary(), rect, ok)
	if cal := ed.grid.Calendar(); cal.Len() > 0 {
		line += fmt.Sprintf(" · %d holidays", cal.Len())
	}
	ed.drawString(1, y, fit(line, max(w-2, 0)), styleSummary)
}

// summaryString describes the plan's timeline and the selection.
func summaryString(s rollup.Summary, rect selection.Rect, hasRect bool) string {
	var b strings.Builder
	if s.Count == 1 {
		b.WriteString("1 row")
	} else {
		fmt.Fprintf(&b, "%d rows", s.Count)
	}
	if s.WithDates > 0 {
		fmt.Fprintf(&b, " · %s to %s, %d days", s.First, s.Last, s.SpanDays)
	}
	if s.MissingDates > 0 {
		fmt.Fprintf(&b, " · %d without dates", s.MissingDates)
	}
	if hasRect && !rect.Single() {
		fmt.Fprintf(&b, " · %d×%d selected", rect.Rows(), rect.Cols())
	}
	return b.String()
}

func (ed *Editor) drawMenuOverlay(w, h int) {
	menuWidth := 40
	menuHeight := len(ed.menuItems) + 4

	// Centre on screen
	startX := max((w-menuWidth)/2, 0)
	startY := max((h-menuHeight)/2, 0)

	ed.drawTitledBox(startX, startY, menuWidth, menuHeight, "planedit")

	for i, item := range ed.menuItems {
		style := styleMenu
		if i == ed.menuSelected {
			style = styleMenuSel
		}
		ed.drawString(startX+1, startY+2+i, " "+fit(item, menuWidth-3), style)
	}
}

// drawTitledBox draws a bordered box with optional title
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.drawBox(x, y, w, h, styleDefault)
	if title != "" {
		titleX := x + (w-runewidth.StringWidth(title)-2)/2
		ed.drawString(titleX, y, " "+title+" ", styleHeading)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = ed.filename
		if runewidth.StringWidth(fileInfo) > 30 {
			fileInfo = filepath.Base(fileInfo)
		}
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if flashes(ed.messageType) && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		ed.drawString(w-runewidth.StringWidth(ed.message)-2, y, ed.message, style)
	}

	// Help bar
	ed.drawString(1, h-2, fit(ed.helpString(), max(w-2, 0)), styleHelp)
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := min(60, w)
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	x := ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(x, boxY+1, ed.inputBuffer+"_", styleInput)
}

func (ed *Editor) drawFilePicker(w, h int) {
	// Two-column file picker: directories on left, files on right
	totalW := min(80, w-4)
	dirW := totalW / 3
	fileW := totalW - dirW - 1

	maxItems := max(len(ed.dirList), len(ed.fileList))
	boxH := max(min(maxItems+6, h-4), 10)
	boxX := (w - totalW) / 2
	boxY := 2

	ed.drawBox(boxX, boxY, totalW, boxH, styleDefault)

	pathDisplay := ed.currentDir
	if len(pathDisplay) > totalW-4 {
		pathDisplay = "..." + pathDisplay[len(pathDisplay)-(totalW-7):]
	}
	ed.drawString(boxX+2, boxY+1, pathDisplay, styleHeading)

	dirStyle, fileStyle := styleHeading, styleMenuSel
	if ed.filePickerFocus == 0 {
		dirStyle, fileStyle = styleMenuSel, styleHeading
	}
	ed.drawString(boxX+2, boxY+3, "Directories", dirStyle)
	ed.drawString(boxX+dirW+2, boxY+3, "Plans", fileStyle)

	for y := boxY + 3; y < boxY+boxH-1; y++ {
		ed.screen.SetContent(boxX+dirW, y, '│', nil, styleBorder)
	}

	visibleItems := boxH - 6
	for i, d := range ed.dirList {
		if i >= visibleItems {
			break
		}
		style := styleMenu
		if ed.filePickerFocus == 0 && i == ed.dirSelected {
			style = styleMenuSel
		}
		display := "[/] " + d
		if d == ".." {
			display = "[^] .."
		}
		ed.drawString(boxX+1, boxY+5+i, " "+fit(display, dirW-3), style)
	}

	if len(ed.fileList) == 0 {
		ed.drawString(boxX+dirW+2, boxY+5, "(no plans)", styleDefault)
	}
	for i, f := range ed.fileList {
		if i >= visibleItems {
			break
		}
		style := styleMenu
		if ed.filePickerFocus == 1 && i == ed.fileSelected {
			style = styleMenuSel
		}
		ed.drawString(boxX+dirW+1, boxY+5+i, " "+fit(f, fileW-3), style)
	}

	help := "←/→ or Tab: switch | ↑/↓: navigate | Enter: select | Esc: cancel"
	if len(help) > totalW-4 {
		help = "Tab:switch ↑↓:nav Enter:sel Esc:quit"
	}
	ed.drawString(boxX+2, boxY+boxH-1, help, styleDefault)
}

var helpLines = []string{
	"Navigation",
	"  Arrows            move, Shift extends the selection",
	"  Tab / Shift+Tab   next / previous cell, wrapping at row ends",
	"  Enter             next cell down, wrapping at column ends",
	"  Esc               collapse the selection, again for the menu",
	"",
	"Editing",
	"  Type              replace the cell content",
	"  F2                edit with the caret at the end",
	"  Double-click      edit with the content selected",
	"  Enter / Tab       commit, Esc reverts",
	"  Delete            clear the selection",
	"",
	"Clipboard and history",
	"  Ctrl+C / Ctrl+X   copy / cut the selection as tab-separated text",
	"  Ctrl+V            paste from the top-left selected cell",
	"  Ctrl+Z / Ctrl+Y   undo / redo",
	"",
	"Rows",
	"  Insert            insert a row below",
	"  Ctrl+D            delete the selected rows",
	"  Ctrl+Right/Left   indent / outdent",
	"  Ctrl+Up/Down      move the row with its children",
	"  F4                collapse or expand children",
	"  Drag ⋮            move a row with the mouse",
	"",
	"Columns",
	"  Drag a title      reorder",
	"  Drag a │          resize, double-click to fit",
	"  F6                fit the active column",
	"",
	"Files",
	"  Ctrl+S            save",
	"  Ctrl+O            open",
	"  Ctrl+Q            quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := min(72, w)
	boxH := min(len(helpLines)+4, h-2)
	boxX := (w - boxW) / 2
	boxY := max((h-boxH)/2-1, 0)

	ed.drawTitledBox(boxX, boxY, boxW, boxH, "Keys")
	for i := 0; i < boxH-4; i++ {
		n := ed.helpScrollOffset + i
		if n >= len(helpLines) {
			break
		}
		style := styleMenu
		if line := helpLines[n]; line != "" && !strings.HasPrefix(line, " ") {
			style = styleHeading
		}
		ed.drawString(boxX+2, boxY+2+i, fit(helpLines[n], boxW-4), style)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

// drawString draws s from x and returns the column after it. Wide runes
// take two cells.
func (ed *Editor) drawString(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		ed.screen.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeMenu:
		return "MENU"
	case ModeGrid:
		switch {
		case ed.grid.Editing():
			return "EDIT"
		case ed.grid.Dragging() != grid.DragNone:
			return "DRAG"
		}
		return ""
	case ModeInput:
		return "INPUT"
	case ModeFilePicker:
		return "FILE SELECT"
	case ModeHelp:
		return "HELP"
	}
	return ""
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeMenu:
		return "↑↓:Select  Enter:Confirm  Esc:Grid"
	case ModeGrid:
		if ed.grid.Editing() {
			return "Enter/Tab:Commit  Esc:Revert  ←→:Caret  Home/End"
		}
		return "Type:Edit  F2:Edit  Ins:Row  ^D:Delete  ^←→:Indent  ^↑↓:Move  F4:Fold  F1:Help  Esc:Menu"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeFilePicker:
		return "↑↓:Select  Enter:Open  Esc:Cancel"
	case ModeHelp:
		return "↑↓:Scroll  Esc:Close"
	}
	return "Ctrl+S:Save  Ctrl+Q:Quit"
}
