// Package view turns a fleet snapshot into a renderer-neutral Document.
//
// Build decides what a frame shows: the empty-list message, the all-failed
// message, the multi-device matrix, or the focused device's field list. The
// TUI styles the Document with the active theme; Markdown and Plain encode it
// for one-shot output.
package view
