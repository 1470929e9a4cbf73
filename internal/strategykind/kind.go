// Package strategykind defines the closed enum of strategy kinds shared
// across settings, the strategy registry, and the cost model, keeping
// those packages free of an import cycle on each other.
package strategykind

// Kind is one of the five standard strategies, or the All sentinel
// which expands to all five.
type Kind string

const (
	Clarity      Kind = "clarity"
	Completeness Kind = "completeness"
	Consistency  Kind = "consistency"
	Accuracy     Kind = "accuracy"
	Readability  Kind = "readability"
	All          Kind = "all"
)

// Ordered is the enum order used to break priority ties (§4.4 step 3).
var Ordered = []Kind{Clarity, Completeness, Consistency, Accuracy, Readability}

// Expand turns the All sentinel into the five concrete kinds, or
// returns the kind unchanged if it isn't All.
func Expand(k Kind) []Kind {
	if k == All {
		out := make([]Kind, len(Ordered))
		copy(out, Ordered)
		return out
	}
	return []Kind{k}
}

// Rank returns the enum-order rank of a kind, used to break priority
// ties deterministically. Unknown kinds rank last.
func Rank(k Kind) int {
	for i, o := range Ordered {
		if o == k {
			return i
		}
	}
	return len(Ordered)
}

// Valid reports whether k is one of the five concrete kinds.
func Valid(k Kind) bool {
	for _, o := range Ordered {
		if o == k {
			return true
		}
	}
	return false
}
