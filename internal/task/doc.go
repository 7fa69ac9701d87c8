// Package task holds the dashboard data model: tasks, their status, and the
// registry that owns them together with the selection cursor.
//
// The registry is owned by a single mutator (the dashboard loop) and takes no
// locks. Readers get a Snapshot copy.
package task
