// Package dataset loads historical admission records into memory and exposes
// the static reference data used for request validation.
package dataset

// Streams is the fixed enumeration of academic streams.
var Streams = []string{
	"Biological Science",
	"Physical Science",
	"Cross Stream",
	"Commerce",
	"Arts",
	"Engineering Technology",
	"Biosystems Technology",
}

// CrossStream matches any stream's historical demand, so its compatibility
// feature sums over every stream.
const CrossStream = "Cross Stream"

// Districts is the canonical list of administrative districts.
var Districts = []string{
	"Colombo", "Gampaha", "Kalutara", "Matale", "Kandy", "Nuwara Eliya",
	"Galle", "Matara", "Hambantota", "Jaffna", "Kilinochchi", "Mannar",
	"Mullaitivu", "Vavuniya", "Trincomalee", "Batticaloa", "Ampara",
	"Puttalam", "Kurunegala", "Anuradhapura", "Polonnaruwa", "Badulla",
	"Monaragala", "Kegalle", "Ratnapura",
}

// IsValidStream reports whether s is one of the enumerated streams.
func IsValidStream(s string) bool {
	for _, v := range Streams {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidDistrict reports whether d is a recognized district.
func IsValidDistrict(d string) bool {
	for _, v := range Districts {
		if v == d {
			return true
		}
	}
	return false
}
