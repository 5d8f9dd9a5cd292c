// Package decision picks the movie a group watches next. Everything here is
// pure: callers load candidates and persist the outcome.
package decision

import "sort"

// Candidate is a proposed movie as seen by the scoring rules
type Candidate struct {
	MovieID        int64   `json:"movieId"`
	GroupID        int64   `json:"groupId"`
	Title          string  `json:"title"`
	ProposerID     int64   `json:"proposerId"`
	ProposalIntent int     `json:"proposalIntent"`
	InterestScore  *int    `json:"interestScore"`
	PeerScores     []int64 `json:"-"`
	Watched        bool    `json:"-"`
}

// Ranked is a candidate with its score
type Ranked struct {
	Candidate
	Score float64 `json:"score"`
}

// Eligible keeps the unwatched candidates that belong to groupID, preserving
// input order
func Eligible(groupID int64, candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Watched || c.GroupID != groupID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Rank scores candidates with scorer and sorts them by descending score.
// Candidates the scorer skips are dropped; equal scores keep input order.
func Rank(candidates []Candidate, scorer Scorer) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		score, ok := scorer.Score(c)
		if !ok {
			continue
		}
		ranked = append(ranked, Ranked{Candidate: c, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// RankForGroup ranks the group's eligible candidates by the weighted rule
func RankForGroup(groupID int64, candidates []Candidate) []Ranked {
	return Rank(Eligible(groupID, candidates), Weighted{})
}

// Decide returns the highest weighted candidate of the group, or false when
// there is nothing eligible
func Decide(groupID int64, candidates []Candidate) (*Ranked, bool) {
	ranked := RankForGroup(groupID, candidates)
	if len(ranked) == 0 {
		return nil, false
	}
	return &ranked[0], true
}

// TopPick returns the unwatched, rated movie with the best top-pick score
func TopPick(candidates []Candidate) (*Ranked, bool) {
	unwatched := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Watched {
			unwatched = append(unwatched, c)
		}
	}

	ranked := Rank(unwatched, TopPickScorer{})
	if len(ranked) == 0 {
		return nil, false
	}
	return &ranked[0], true
}
