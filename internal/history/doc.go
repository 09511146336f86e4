// Package history persists one row per processing run in SQLite so operators
// can see which competitions were organized, by which entry point, and how
// each run ended.
//
// The store mirrors the queue store layout: a pure-Go sqlite driver, WAL
// journaling, busy retries with bounded backoff, and an embedded schema with
// a version guard.
package history
