// Package binding adapts the runtime to a dynamically typed host.
//
// Hosts speak in plain Go values (nil, bool, float64, string, []any,
// map[string]any, object wrappers). The facades here convert those values to
// variants on the way in and back on the way out, following the conventions
// scripts expect: timeouts given as nil, a boolean or seconds, pop returning
// nil when nothing arrived, and events polled as a name plus values.
package binding
