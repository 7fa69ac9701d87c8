// Package source provides the initial task set of the dashboard.
//
// Sample generates demo tasks. SQLite reads a task snapshot written by an
// external producer (or by the seed command). Both are pulled once at
// startup; live updates come from ticks.
package source
