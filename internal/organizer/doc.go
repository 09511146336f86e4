// Package organizer builds the venue/room directory tree for a competition
// and moves each scramble PDF from the flat working directory into the room
// where its round is held.
//
// File names are derived from the event occurrences; a PDF that is not
// present is recorded as missing and logged, never treated as fatal, so a
// partially populated bundle still organizes everything it can.
//
// Venue and room names pass through textutil.SanitizePathSegment before they
// become directories, so a room called "Hall A: Side?" is written as
// "Hall A- Side" and "." or ".." fall back to "venue" or "room". Callers
// locating a room's files should go through RoomDir rather than joining the
// raw WCIF names. PDF file names are never altered.
package organizer
