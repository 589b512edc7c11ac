package availability

import (
	"iter"
	"time"
)

// MaxAlternatives is the number of slots offered besides the recommendation.
const MaxAlternatives = 3

// Selection is the recommended slot and its alternatives, in chronological order.
type Selection struct {
	Recommended  time.Time
	Alternatives []time.Time
}

// Select takes the first slot as the recommendation and the next
// MaxAlternatives as alternatives. ok is false when there are no slots.
func Select(slots []time.Time) (sel Selection, ok bool) {
	if len(slots) == 0 {
		return Selection{}, false
	}
	rest := slots[1:]
	if len(rest) > MaxAlternatives {
		rest = rest[:MaxAlternatives]
	}
	return Selection{
		Recommended:  slots[0],
		Alternatives: append([]time.Time{}, rest...),
	}, true
}

// SelectSeq is Select over a lazy sequence; it stops pulling once it has
// enough slots.
func SelectSeq(seq iter.Seq[time.Time]) (Selection, bool) {
	slots := make([]time.Time, 0, MaxAlternatives+1)
	for slot := range seq {
		slots = append(slots, slot)
		if len(slots) == MaxAlternatives+1 {
			break
		}
	}
	return Select(slots)
}
