// Package archive unpacks uploaded scramble bundles into a working directory
// and packs an organized working directory into a single zip.
//
// A bundle is the zip produced by the scramble generator: it nests a
// "<competition> - Computer Display PDFs.zip" archive next to the passcode
// manifest. Entry names are reduced to their base name on extraction so no
// entry can escape the target directory.
package archive
