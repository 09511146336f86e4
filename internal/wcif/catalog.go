package wcif

// eventNames maps WCA event IDs to the display names used in scramble file
// names. Codes missing here are rejected rather than guessed.
var eventNames = map[string]string{
	"222":    "2x2x2 Cube",
	"333":    "3x3x3 Cube",
	"444":    "4x4x4 Cube",
	"555":    "5x5x5 Cube",
	"666":    "6x6x6 Cube",
	"777":    "7x7x7 Cube",
	"333bf":  "3x3x3 Blindfolded",
	"333fm":  "3x3x3 Fewest Moves",
	"333oh":  "3x3x3 One-Handed",
	"clock":  "Clock",
	"minx":   "Megaminx",
	"pyram":  "Pyraminx",
	"skewb":  "Skewb",
	"sq1":    "Square-1",
	"444bf":  "4x4x4 Blindfolded",
	"555bf":  "5x5x5 Blindfolded",
	"333mbf": "3x3x3 Multi-Blind",
	"333ft":  "3x3x3 With Feet",
	"magic":  "Magic",
	"mmagic": "Master Magic",
	"333mbo": "3x3x3 Multi-Blind Old Style",
}

// Event codes whose rounds are split into attempts instead of groups.
const (
	EventFewestMoves = "333fm"
	EventMultiBlind  = "333mbf"
)

// OtherActivityPrefix marks non-competition activities (lunch, awards, ...).
const OtherActivityPrefix = "other-"

// EventName resolves an event code to its display name.
func EventName(code string) (string, bool) {
	name, ok := eventNames[code]
	return name, ok
}

// IsAttemptBased reports whether scrambles for the event are issued per attempt.
func IsAttemptBased(code string) bool {
	return code == EventFewestMoves || code == EventMultiBlind
}
