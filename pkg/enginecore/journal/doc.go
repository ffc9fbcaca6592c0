// Package journal records the event stream of a session and replays it.
//
// A Recorder attached to an event queue stores every pushed event, tagged
// with the frame it arrived in. A Replayer registered as a pump pushes the
// recorded events back one frame at a time, which makes input-driven bugs
// reproducible.
//
// Object references (the thread of a threaderror event, objects inside custom
// arguments) are not recordable and replay as nil.
package journal
