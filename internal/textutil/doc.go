// Package textutil provides filename sanitization for directory and file
// names derived from competition data.
package textutil
