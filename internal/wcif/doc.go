// Package wcif models the subset of the WCA Competition Interchange Format the
// scramble organizer consumes, and fetches public WCIF documents from the WCA
// API.
//
// Only the schedule tree (venues, rooms, activities, child activities) and the
// competition name are decoded; every other WCIF section is ignored. The
// package also owns the fixed event-code to display-name catalog used when
// deriving scramble file names.
package wcif
