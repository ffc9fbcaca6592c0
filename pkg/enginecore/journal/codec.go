package journal

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
)

// Encode serializes an event payload. The event is not consumed.
func Encode(e event.Event) (string, []byte, error) {
	if !e.Type.Valid() {
		return "", nil, fmt.Errorf("%w: %d", ErrUnknownEventType, e.Type)
	}
	if e.Data == nil {
		return e.Type.String(), []byte("null"), nil
	}
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return e.Type.String(), payload, nil
}

// Decode rebuilds an event from a record. Object references decode as nil.
func Decode(rec Record) (event.Event, error) {
	t, ok := event.ParseType(rec.Type)
	if !ok {
		return event.Event{}, fmt.Errorf("%w: %q", ErrUnknownEventType, rec.Type)
	}

	var (
		data any
		err  error
	)
	switch t {
	case event.TypeQuit, event.TypeRestart:
		data, err = decodeAs[event.QuitData](rec.Payload)
	case event.TypeVisible, event.TypeFocus:
		data, err = decodeAs[event.BoolData](rec.Payload)
	case event.TypeResize:
		data, err = decodeAs[event.ResizeData](rec.Payload)
	case event.TypeKeyPressed, event.TypeKeyReleased:
		data, err = decodeAs[event.KeyData](rec.Payload)
	case event.TypeTextInput:
		data, err = decodeAs[event.TextData](rec.Payload)
	case event.TypeMousePressed, event.TypeMouseReleased, event.TypeMouseMoved:
		data, err = decodeAs[event.MouseData](rec.Payload)
	case event.TypeWheelMoved:
		data, err = decodeAs[event.WheelData](rec.Payload)
	case event.TypeThreadError:
		data, err = decodeAs[event.ThreadData](rec.Payload)
	case event.TypeFileChanged:
		data, err = decodeAs[event.FileData](rec.Payload)
	case event.TypePermission:
		data, err = decodeAs[event.PermissionData](rec.Payload)
	case event.TypeCustom:
		data, err = decodeAs[event.CustomData](rec.Payload)
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("decode %s seq %d: %w", rec.Type, rec.Seq, err)
	}
	return event.Event{Type: t, Data: data}, nil
}

func decodeAs[T any](payload []byte) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, nil
	}
	err := json.Unmarshal(payload, &v)
	return v, err
}
