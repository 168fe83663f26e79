// Package ui implements the Bubble Tea front end: two mirrored influence
// panes kept in sync by the engine controller, a live search prompt over the
// influence list, and the weight edit key surface driving the orchestrator.
package ui
