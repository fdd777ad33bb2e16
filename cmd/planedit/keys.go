package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/plangrid/pkg/grid"
)

var navKeys = map[tcell.Key]grid.Key{
	tcell.KeyUp:         grid.KeyUp,
	tcell.KeyDown:       grid.KeyDown,
	tcell.KeyLeft:       grid.KeyLeft,
	tcell.KeyRight:      grid.KeyRight,
	tcell.KeyHome:       grid.KeyHome,
	tcell.KeyEnd:        grid.KeyEnd,
	tcell.KeyTab:        grid.KeyTab,
	tcell.KeyEnter:      grid.KeyEnter,
	tcell.KeyEscape:     grid.KeyEscape,
	tcell.KeyF2:         grid.KeyF2,
	tcell.KeyDelete:     grid.KeyDelete,
	tcell.KeyBackspace:  grid.KeyBackspace,
	tcell.KeyBackspace2: grid.KeyBackspace,
}

// Control keys the grid understands as Ctrl+letter shortcuts.
var ctrlKeys = map[tcell.Key]rune{
	tcell.KeyCtrlC: 'c',
	tcell.KeyCtrlX: 'x',
	tcell.KeyCtrlV: 'v',
	tcell.KeyCtrlZ: 'z',
	tcell.KeyCtrlY: 'y',
}

// translateKey converts a terminal key event into a grid key event. Cmd
// arrives as Meta or Alt on some terminals and is treated as Ctrl.
func translateKey(ev *tcell.EventKey) (grid.KeyEvent, bool) {
	var mod grid.Modifier
	if ev.Modifiers()&tcell.ModShift != 0 {
		mod |= grid.ModShift
	}
	if r, ok := ctrlKeys[ev.Key()]; ok {
		return grid.KeyEvent{Key: grid.KeyRune, Rune: r, Mod: mod | grid.ModCtrl}, true
	}
	switch ev.Key() {
	case tcell.KeyBacktab:
		return grid.KeyEvent{Key: grid.KeyTab, Mod: mod | grid.ModShift}, true
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModMeta|tcell.ModAlt) != 0 {
			mod |= grid.ModCtrl
		}
		return grid.KeyEvent{Key: grid.KeyRune, Rune: ev.Rune(), Mod: mod}, true
	}
	if k, ok := navKeys[ev.Key()]; ok {
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			mod |= grid.ModCtrl
		}
		return grid.KeyEvent{Key: k, Mod: mod}, true
	}
	return grid.KeyEvent{}, false
}
