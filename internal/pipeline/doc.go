// Package pipeline sequences a processing run.
//
// Run is the core: it flattens the schedule, lays out and fills the room
// directories, and rewrites the passcode manifest inside one working
// directory. Processor wraps Run with the surrounding steps an entry point
// needs: locking and resetting the workspace, unpacking the uploaded bundle,
// packing the result, and recording the run in the history store.
package pipeline
