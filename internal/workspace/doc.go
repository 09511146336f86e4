// Package workspace prepares the working directory for a single processing
// run. Prepare takes an exclusive lock on a sibling lock file and then wipes
// and recreates the directory, so two runs can never share or clobber the
// same tree.
package workspace
