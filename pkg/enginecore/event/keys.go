package event

import "strconv"

// KeyCode identifies a keyboard key independent of layout.
type KeyCode uint16

// Key codes.
const (
	KeyUnknown KeyCode = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
	KeyRightAlt
	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown:      "unknown",
	KeySpace:        "space",
	KeyEnter:        "return",
	KeyTab:          "tab",
	KeyEscape:       "escape",
	KeyBackspace:    "backspace",
	KeyUp:           "up",
	KeyDown:         "down",
	KeyLeft:         "left",
	KeyRight:        "right",
	KeyHome:         "home",
	KeyEnd:          "end",
	KeyPageUp:       "pageup",
	KeyPageDown:     "pagedown",
	KeyInsert:       "insert",
	KeyDelete:       "delete",
	KeyLeftShift:    "lshift",
	KeyRightShift:   "rshift",
	KeyLeftControl:  "lctrl",
	KeyRightControl: "rctrl",
	KeyLeftAlt:      "lalt",
	KeyRightAlt:     "ralt",
}

func init() {
	for k := KeyA; k <= KeyZ; k++ {
		keyNames[k] = string(rune('a' + int(k-KeyA)))
	}
	for k := Key0; k <= Key9; k++ {
		keyNames[k] = strconv.Itoa(int(k - Key0))
	}
	for k := KeyF1; k <= KeyF12; k++ {
		keyNames[k] = "f" + strconv.Itoa(int(k-KeyF1)+1)
	}
}

// String returns the key name used by the scripting layer.
func (k KeyCode) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "unknown"
}

// Hotkey maps the built-in development hotkeys to events: escape quits and
// F5 restarts. Only presses are meaningful.
func Hotkey(code KeyCode) (Event, bool) {
	switch code {
	case KeyEscape:
		return Quit(0), true
	case KeyF5:
		return Restart(), true
	default:
		return Event{}, false
	}
}
