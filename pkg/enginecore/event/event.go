package event

import (
	"strings"
	"unicode/utf8"

	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// Event is one queued occurrence. Data holds the payload struct matching
// Type (QuitData for TypeQuit, CustomData for TypeCustom, and so on).
type Event struct {
	Type Type
	Data any
}

// Quit returns a quit event with the given exit code.
func Quit(code int) Event {
	return Event{Type: TypeQuit, Data: QuitData{ExitCode: code}}
}

// Restart returns a restart request.
func Restart() Event {
	return Event{Type: TypeRestart, Data: QuitData{Restart: true}}
}

// Visible returns a window visibility change.
func Visible(visible bool) Event {
	return Event{Type: TypeVisible, Data: BoolData{Value: visible}}
}

// Focus returns a window focus change.
func Focus(focused bool) Event {
	return Event{Type: TypeFocus, Data: BoolData{Value: focused}}
}

// Resize returns a window resize.
func Resize(width, height uint32) Event {
	return Event{Type: TypeResize, Data: ResizeData{Width: width, Height: height}}
}

// KeyPressed returns a key press.
func KeyPressed(code KeyCode, scancode uint32, repeat bool) Event {
	return Event{Type: TypeKeyPressed, Data: KeyData{Code: code, Scancode: scancode, Repeat: repeat}}
}

// KeyReleased returns a key release.
func KeyReleased(code KeyCode, scancode uint32) Event {
	return Event{Type: TypeKeyReleased, Data: KeyData{Code: code, Scancode: scancode}}
}

// TextInput returns a text input event for one codepoint.
func TextInput(r rune) Event {
	return Event{Type: TypeTextInput, Data: TextData{Text: string(r), Codepoint: r}}
}

// MousePressed returns a mouse button press.
func MousePressed(x, y float64, button int) Event {
	return Event{Type: TypeMousePressed, Data: MouseData{X: x, Y: y, Button: button}}
}

// MouseReleased returns a mouse button release.
func MouseReleased(x, y float64, button int) Event {
	return Event{Type: TypeMouseReleased, Data: MouseData{X: x, Y: y, Button: button}}
}

// MouseMoved returns pointer motion.
func MouseMoved(x, y, dx, dy float64) Event {
	return Event{Type: TypeMouseMoved, Data: MouseData{X: x, Y: y, DX: dx, DY: dy}}
}

// WheelMoved returns scroll wheel motion.
func WheelMoved(x, y float64) Event {
	return Event{Type: TypeWheelMoved, Data: WheelData{X: x, Y: y}}
}

// ThreadError returns a thread failure event. The queue takes its own
// reference to thread on push.
func ThreadError(thread variant.Object, message string) Event {
	return Event{Type: TypeThreadError, Data: ThreadData{Thread: thread, Error: message}}
}

// FileChanged returns a filesystem change notification.
func FileChanged(action FileAction, path, oldPath string) Event {
	return Event{Type: TypeFileChanged, Data: FileData{Action: action, Path: path, OldPath: oldPath}}
}

// Permission returns a permission grant or denial.
func Permission(permission string, granted bool) Event {
	return Event{Type: TypePermission, Data: PermissionData{Permission: permission, Granted: granted}}
}

// Custom returns a named application event. The event takes ownership of
// args; names and argument lists over the limits are trimmed on push.
func Custom(name string, args ...variant.Variant) Event {
	return Event{Type: TypeCustom, Data: CustomData{Name: name, Args: args}}
}

// Name returns the scripting name: the custom name for custom events and the
// type name otherwise.
func (e Event) Name() string {
	if c, ok := e.Data.(CustomData); ok && e.Type == TypeCustom {
		return c.Name
	}
	return e.Type.String()
}

// own copies strings, trims custom payloads and takes references so the
// queued event is independent of the caller. Invalid events panic.
func (e Event) own() Event {
	if !e.Type.Valid() {
		panic(ecerrors.Contract("event", "unknown event type %d", e.Type))
	}

	switch e.Type {
	case TypeQuit, TypeRestart:
		if e.Data == nil {
			e.Data = QuitData{Restart: e.Type == TypeRestart}
		}
		mustData[QuitData](e)
	case TypeVisible, TypeFocus:
		mustData[BoolData](e)
	case TypeResize:
		mustData[ResizeData](e)
	case TypeKeyPressed, TypeKeyReleased:
		mustData[KeyData](e)
	case TypeTextInput:
		d := mustData[TextData](e)
		d.Text = strings.Clone(d.Text)
		e.Data = d
	case TypeMousePressed, TypeMouseReleased, TypeMouseMoved:
		mustData[MouseData](e)
	case TypeWheelMoved:
		mustData[WheelData](e)
	case TypeThreadError:
		d := mustData[ThreadData](e)
		d.Error = strings.Clone(d.Error)
		if d.Thread != nil {
			d.Thread.Retain()
		}
		e.Data = d
	case TypeFileChanged:
		d := mustData[FileData](e)
		d.Path = strings.Clone(d.Path)
		d.OldPath = strings.Clone(d.OldPath)
		e.Data = d
	case TypePermission:
		d := mustData[PermissionData](e)
		d.Permission = strings.Clone(d.Permission)
		e.Data = d
	case TypeCustom:
		d := mustData[CustomData](e)
		d.Name = strings.Clone(truncateName(d.Name))
		if len(d.Args) > MaxCustomArgs {
			variant.ReleaseAll(d.Args[MaxCustomArgs:])
			d.Args = d.Args[:MaxCustomArgs:MaxCustomArgs]
		}
		e.Data = d
	}
	return e
}

func mustData[T any](e Event) T {
	d, ok := e.Data.(T)
	if !ok {
		panic(ecerrors.Contract("event", "%s event carries %T payload", e.Type, e.Data))
	}
	return d
}

// truncateName cuts a custom name to MaxNameLength-1 bytes without splitting
// a UTF-8 sequence.
func truncateName(name string) string {
	limit := MaxNameLength - 1
	if len(name) <= limit {
		return name
	}
	for limit > 0 && !utf8.RuneStart(name[limit]) {
		limit--
	}
	return name[:limit]
}

// Release gives back the payload the event owns and resets it.
func (e *Event) Release() {
	switch d := e.Data.(type) {
	case ThreadData:
		if d.Thread != nil {
			d.Thread.Release()
		}
	case CustomData:
		variant.ReleaseAll(d.Args)
	}
	*e = Event{}
}

// Values converts the event to its scripting shape and consumes it.
//
// Object references (the thread of a threaderror event, objects in custom
// arguments) are handed to objs; see variant.Variant.Take.
func (e *Event) Values(objs *variant.ObjectTable) (string, []any) {
	name := e.Name()
	var values []any

	switch d := e.Data.(type) {
	case QuitData:
		if e.Type == TypeQuit {
			if d.Restart {
				values = []any{"restart"}
			} else {
				values = []any{float64(d.ExitCode)}
			}
		}
	case BoolData:
		values = []any{d.Value}
	case ResizeData:
		values = []any{float64(d.Width), float64(d.Height)}
	case KeyData:
		values = []any{d.Code.String(), float64(d.Scancode), d.Repeat}
	case TextData:
		values = []any{d.Text, float64(d.Codepoint)}
	case MouseData:
		if e.Type == TypeMouseMoved {
			values = []any{d.X, d.Y, d.DX, d.DY}
		} else {
			values = []any{d.X, d.Y, float64(d.Button)}
		}
	case WheelData:
		values = []any{d.X, d.Y}
	case ThreadData:
		var thread any
		if d.Thread != nil {
			v := variant.ObjectOf(d.Thread)
			thread = v.Take(objs)
			d.Thread.Release()
		}
		values = []any{thread, d.Error}
	case FileData:
		values = []any{d.Path, d.Action.String(), d.OldPath}
	case PermissionData:
		values = []any{d.Permission, d.Granted}
	case CustomData:
		values = make([]any, len(d.Args))
		for i := range d.Args {
			values[i] = d.Args[i].Take(objs)
		}
	}

	*e = Event{}
	return name, values
}
