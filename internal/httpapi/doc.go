// Package httpapi serves the upload API: a multipart endpoint that accepts a
// WCIF document and a scramble bundle and returns the organized zip, plus
// read-only views of the run history.
//
// Every upload gets its own workspace under the staging directory, keyed by
// run ID, which is removed once the response has been written.
package httpapi
