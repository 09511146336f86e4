// Command scrambleorg organizes a competition's computer display scramble
// PDFs into venue and room directories and rewrites the passcode manifest in
// schedule order.
//
// Subcommands:
//
//	organize   process a bundle zip or an extracted directory
//	schedule   print the flattened schedule the organizer derives from WCIF
//	serve      run the upload API
//	history    list recorded runs
//	config     create, show, or validate configuration
package main
