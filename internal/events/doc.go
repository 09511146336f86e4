// Package events flattens a WCIF schedule tree into a time-ordered list of
// event occurrences.
//
// An occurrence is one competition round scheduled in one room. Group-based
// rounds carry one Group per child activity, labelled A..Z; fewest-moves and
// multi-blind rounds carry an attempt number instead. The list drives both
// scramble file relocation and passcode manifest ordering, so it is sorted by
// start time with ties kept in schedule order.
package events
