// Package rotation computes whose turn it is to propose movies.
//
// The stored index is only meaningful against a snapshot of the member list
// ordered by join time. It is resolved modulo the member count at read time
// and is not renormalized when membership changes.
package rotation

// Result describes one advance of the rotation
type Result struct {
	// Outgoing is the proposer whose turn just ended
	Outgoing    int64
	HasProposer bool
	NextIndex   int
}

// CurrentProposer resolves members[index mod len(members)]
func CurrentProposer(index int, members []int64) (int64, bool) {
	if len(members) == 0 {
		return 0, false
	}
	return members[normalize(index)%len(members)], true
}

// Advance moves the turn one slot forward. With no members there is no
// proposer and the index is returned unchanged.
func Advance(index int, members []int64) Result {
	index = normalize(index)

	outgoing, ok := CurrentProposer(index, members)
	if !ok {
		return Result{NextIndex: index}
	}

	return Result{
		Outgoing:    outgoing,
		HasProposer: true,
		NextIndex:   (index + 1) % len(members),
	}
}

func normalize(index int) int {
	if index < 0 {
		return 0
	}
	return index
}
