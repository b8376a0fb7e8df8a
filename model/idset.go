package model

// IDSet is an ordered set of user IDs that only grows. It backs notification
// recipients and read receipts; there is deliberately no Remove.
type IDSet []string

func NewIDSet(ids ...string) IDSet {
	var s IDSet
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

func (s IDSet) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the set with id appended, or s unchanged if id is already a
// member or empty.
func (s IDSet) Add(id string) IDSet {
	if id == "" || s.Contains(id) {
		return s
	}
	out := make(IDSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, id)
}

func (s IDSet) Len() int { return len(s) }

// Difference returns the members of s that are not in other, in s order.
func (s IDSet) Difference(other IDSet) IDSet {
	var out IDSet
	for _, v := range s {
		if !other.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// Slice returns a copy that never aliases s and is never nil.
func (s IDSet) Slice() []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
