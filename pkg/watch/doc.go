// Package watch reports edits to configuration files.
//
// The watch command re-resolves its configuration whenever the file changes
// on disk. Events are debounced so one save triggers one resolution.
package watch
