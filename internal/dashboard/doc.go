// Package dashboard holds the per-channel controller state behind the
// stream dashboard: setup presets, the weekly schedule, the tweet timing
// widget, the checklist and timer controls.
//
// A Session is created from the data the backend hands over at load time,
// mutated by user operations and discarded by the caller. All remote work
// goes through Backend.
package dashboard
