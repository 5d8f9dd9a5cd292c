package movie

import (
	"time"

	"github.com/fkhayef/movienight/internal/decision"
)

// Movie represents a proposed movie
type Movie struct {
	ID             int64
	Title          string
	ProposerID     int64
	ProposedAt     time.Time
	ProposalIntent int
	InterestScore  *int
	Watched        bool
	WatchedAt      *time.Time
	Notes          *string
	PersonalRating *int
	GroupID        *int64
	TmdbID         *int64
	PosterPath     *string

	// Populated from JOIN
	Proposer   *Proposer
	PeerScores []int64
}

// Proposer is the user who proposed a movie
type Proposer struct {
	ID        int64
	Username  string
	Name      *string
	AvatarURL *string
}

// Candidate converts the movie into its scoring representation
func (m *Movie) Candidate() decision.Candidate {
	c := decision.Candidate{
		MovieID:        m.ID,
		Title:          m.Title,
		ProposerID:     m.ProposerID,
		ProposalIntent: m.ProposalIntent,
		InterestScore:  m.InterestScore,
		PeerScores:     m.PeerScores,
		Watched:        m.Watched,
	}
	if m.GroupID != nil {
		c.GroupID = *m.GroupID
	}
	return c
}

// Candidates converts movies in order
func Candidates(movies []*Movie) []decision.Candidate {
	out := make([]decision.Candidate, len(movies))
	for i, m := range movies {
		out[i] = m.Candidate()
	}
	return out
}
