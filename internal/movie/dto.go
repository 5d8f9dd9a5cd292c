package movie

const timeLayout = "2006-01-02T15:04:05Z"

// CreateMovieRequest represents the request to propose a movie
type CreateMovieRequest struct {
	Title          string  `json:"title" validate:"required,max=200"`
	GroupID        int64   `json:"groupId" validate:"required,gt=0"`
	ProposalIntent int     `json:"proposalIntent" validate:"required,min=1,max=4"`
	TmdbID         *int64  `json:"tmdbId,omitempty" validate:"omitempty,gt=0"`
	PosterPath     *string `json:"posterPath,omitempty" validate:"omitempty,max=500"`
}

// RateRequest records a peer interest score
type RateRequest struct {
	InterestScore int `json:"interestScore" validate:"required,min=1,max=4"`
}

// WatchRequest completes a movie night
type WatchRequest struct {
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	PersonalRating *int    `json:"personalRating,omitempty" validate:"omitempty,min=1,max=10"`
}

// MovieResponse represents the response for a movie
type MovieResponse struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	ProposerID     int64             `json:"proposerId"`
	Proposer       *ProposerResponse `json:"proposer,omitempty"`
	ProposedAt     string            `json:"proposedAt"`
	ProposalIntent int               `json:"proposalIntent"`
	InterestScore  *int              `json:"interestScore"`
	RatingCount    int               `json:"ratingCount"`
	Watched        bool              `json:"watched"`
	WatchedAt      *string           `json:"watchedAt,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	PersonalRating *int              `json:"personalRating,omitempty"`
	GroupID        *int64            `json:"groupId"`
	TmdbID         *int64            `json:"tmdbId,omitempty"`
	PosterPath     *string           `json:"posterPath,omitempty"`
}

// ProposerResponse is the proposer embedded in a movie
type ProposerResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// TopPickResponse is the dashboard highlight
type TopPickResponse struct {
	Movie *MovieResponse `json:"movie"`
	Score float64        `json:"score"`
}

// ToResponse converts a Movie model to a MovieResponse DTO
func (m *Movie) ToResponse() *MovieResponse {
	resp := &MovieResponse{
		ID:             m.ID,
		Title:          m.Title,
		ProposerID:     m.ProposerID,
		ProposedAt:     m.ProposedAt.UTC().Format(timeLayout),
		ProposalIntent: m.ProposalIntent,
		InterestScore:  m.InterestScore,
		RatingCount:    len(m.PeerScores),
		Watched:        m.Watched,
		Notes:          m.Notes,
		PersonalRating: m.PersonalRating,
		GroupID:        m.GroupID,
		TmdbID:         m.TmdbID,
		PosterPath:     m.PosterPath,
	}

	if m.WatchedAt != nil {
		s := m.WatchedAt.UTC().Format(timeLayout)
		resp.WatchedAt = &s
	}

	if p := m.Proposer; p != nil {
		resp.Proposer = &ProposerResponse{
			ID:       p.ID,
			Username: p.Username,
			Name:     p.Name,
			Avatar:   p.AvatarURL,
		}
	}

	return resp
}

func toResponses(movies []*Movie) []*MovieResponse {
	out := make([]*MovieResponse, len(movies))
	for i, m := range movies {
		out[i] = m.ToResponse()
	}
	return out
}
