package event

import (
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// Type identifies an event. The zero Type is invalid.
type Type uint8

// Event types.
const (
	TypeQuit Type = iota + 1
	TypeRestart
	TypeVisible
	TypeFocus
	TypeResize
	TypeKeyPressed
	TypeKeyReleased
	TypeTextInput
	TypeMousePressed
	TypeMouseReleased
	TypeMouseMoved
	TypeWheelMoved
	TypeThreadError
	TypeFileChanged
	TypePermission
	TypeCustom
	typeCount
)

var typeNames = [typeCount]string{
	TypeQuit:          "quit",
	TypeRestart:       "restart",
	TypeVisible:       "visible",
	TypeFocus:         "focus",
	TypeResize:        "resize",
	TypeKeyPressed:    "keypressed",
	TypeKeyReleased:   "keyreleased",
	TypeTextInput:     "textinput",
	TypeMousePressed:  "mousepressed",
	TypeMouseReleased: "mousereleased",
	TypeMouseMoved:    "mousemoved",
	TypeWheelMoved:    "wheelmoved",
	TypeThreadError:   "threaderror",
	TypeFileChanged:   "filechanged",
	TypePermission:    "permission",
	TypeCustom:        "custom",
}

// String returns the lowercase event name.
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return "unknown"
}

// Valid reports whether t is a known event type.
func (t Type) Valid() bool {
	return t > 0 && t < typeCount
}

// ParseType maps a lowercase event name to its Type.
func ParseType(name string) (Type, bool) {
	for t := TypeQuit; t < typeCount; t++ {
		if typeNames[t] == name {
			return t, true
		}
	}
	return 0, false
}

// Custom event limits.
const (
	// MaxNameLength is the size of the custom name buffer; one byte is
	// reserved, so names keep at most MaxNameLength-1 bytes.
	MaxNameLength = 32
	// MaxCustomArgs is the number of arguments a custom event carries.
	MaxCustomArgs = 4
)

// QuitData is the payload of quit events.
type QuitData struct {
	Restart  bool `json:"restart,omitempty"`
	ExitCode int  `json:"exit_code"`
}

// BoolData is the payload of visible and focus events.
type BoolData struct {
	Value bool `json:"value"`
}

// ResizeData is the payload of resize events.
type ResizeData struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// KeyData is the payload of keypressed and keyreleased events.
type KeyData struct {
	Code     KeyCode `json:"code"`
	Scancode uint32  `json:"scancode"`
	Repeat   bool    `json:"repeat,omitempty"`
}

// TextData is the payload of textinput events.
type TextData struct {
	Text      string `json:"text"`
	Codepoint rune   `json:"codepoint"`
}

// MouseData is the payload of mouse button and motion events.
type MouseData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Button int     `json:"button,omitempty"`
}

// WheelData is the payload of wheelmoved events.
type WheelData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ThreadData is the payload of threaderror events. A queued event holds a
// strong reference to Thread. Only the error message is serialized.
type ThreadData struct {
	Thread variant.Object `json:"-"`
	Error  string         `json:"error"`
}

// FileAction is the kind of filesystem change.
type FileAction uint8

// File actions.
const (
	FileCreated FileAction = iota
	FileDeleted
	FileModified
	FileRenamed
)

// String returns the lowercase action name.
func (a FileAction) String() string {
	switch a {
	case FileCreated:
		return "create"
	case FileDeleted:
		return "delete"
	case FileModified:
		return "modify"
	case FileRenamed:
		return "rename"
	default:
		return "unknown"
	}
}

// FileData is the payload of filechanged events.
type FileData struct {
	Action  FileAction `json:"action"`
	Path    string     `json:"path"`
	OldPath string     `json:"old_path,omitempty"`
}

// PermissionData is the payload of permission events.
type PermissionData struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// CustomData is the payload of custom events. The event owns Args.
type CustomData struct {
	Name string            `json:"name"`
	Args []variant.Variant `json:"args,omitempty"`
}
