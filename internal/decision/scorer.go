package decision

import "fmt"

// ScorerType identifies a scoring rule
type ScorerType string

const (
	ScorerWeighted ScorerType = "WEIGHTED"
	ScorerTopPick  ScorerType = "TOP_PICK"
)

// Scorer is the interface every scoring rule implements
type Scorer interface {
	// Score returns the candidate's score, or false when the rule does not
	// apply to it
	Score(c Candidate) (float64, bool)

	// Type returns the type identifier for this rule
	Type() ScorerType
}

// NewScorer returns the scorer for the given type
func NewScorer(t ScorerType) (Scorer, error) {
	switch t {
	case ScorerWeighted:
		return Weighted{}, nil
	case ScorerTopPick:
		return TopPickScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown scorer type: %s", t)
	}
}

// =============================================================================
// WEIGHTED
// Proposer intent counts twice as much as the group's average interest
// =============================================================================

// Weighted scores (2 × proposalIntent + averageInterest) / 3
type Weighted struct{}

func (Weighted) Type() ScorerType { return ScorerWeighted }

func (Weighted) Score(c Candidate) (float64, bool) {
	return WeightedScore(c.ProposalIntent, AverageInterest(c.PeerScores)), true
}

// WeightedScore combines proposer intent and average peer interest
func WeightedScore(proposalIntent int, averageInterest float64) float64 {
	return (2*float64(proposalIntent) + averageInterest) / 3
}

// =============================================================================
// TOP PICK
// Dashboard highlight: rewards mutual enthusiasm, punishes a rater's veto
// =============================================================================

const (
	maxScore        = 4
	mutualMaxBonus  = 4
	dislikePenalty  = 8
	dislikeInterest = 1
)

// TopPickScorer scores proposalIntent × interestScore with a bonus for 4/4
// and a penalty for an interest score of 1. Unrated movies are skipped.
type TopPickScorer struct{}

func (TopPickScorer) Type() ScorerType { return ScorerTopPick }

func (TopPickScorer) Score(c Candidate) (float64, bool) {
	if c.InterestScore == nil {
		return 0, false
	}
	return float64(TopPickScore(c.ProposalIntent, *c.InterestScore)), true
}

// TopPickScore applies the dashboard scoring rule
func TopPickScore(proposalIntent, interestScore int) int {
	score := proposalIntent * interestScore
	if proposalIntent == maxScore && interestScore == maxScore {
		score += mutualMaxBonus
	}
	if interestScore == dislikeInterest {
		score -= dislikePenalty
	}
	return score
}

// AverageInterest is the mean of the peer scores, 0 when there are none
func AverageInterest(scores []int64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum int64
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}
