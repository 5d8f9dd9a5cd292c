package movie

import (
	"context"

	"github.com/fkhayef/movienight/internal/decision"
	"github.com/fkhayef/movienight/pkg/apperror"
)

// Common errors
var (
	ErrMovieNotFound  = apperror.NotFound("movie not found")
	ErrNotProposer    = apperror.Forbidden("only the proposer can do this")
	ErrOwnMovie       = apperror.Forbidden("proposers cannot rate their own movie")
	ErrNotShared      = apperror.Forbidden("movie is not shared with a group")
	ErrAlreadyWatched = apperror.Invariant("movie has already been watched")
)

// Store is the persistence the movie service needs
type Store interface {
	Create(ctx context.Context, proposerID int64, req *CreateMovieRequest) (*Movie, error)
	GetByID(ctx context.Context, id int64) (*Movie, error)
	ListVisible(ctx context.Context, userID int64) ([]*Movie, error)
	ListWatchedByGroup(ctx context.Context, groupID int64) ([]*Movie, error)
	UpsertRating(ctx context.Context, movieID, userID int64, score int) error
	Delete(ctx context.Context, id int64) error
}

// MembershipChecker reports whether a caller may act within a group. It
// returns a not-found error for missing groups and a forbidden error for
// non-members.
type MembershipChecker interface {
	Authorize(ctx context.Context, callerID, groupID int64) error
}

// Service handles movie business logic
type Service struct {
	repo   Store
	groups MembershipChecker
}

// NewService creates a new movie service
func NewService(repo Store, groups MembershipChecker) *Service {
	return &Service{repo: repo, groups: groups}
}

// ListVisible retrieves the unwatched movies the caller can see
func (s *Service) ListVisible(ctx context.Context, callerID int64) ([]*Movie, error) {
	return s.repo.ListVisible(ctx, callerID)
}

// Create proposes a movie to one of the caller's groups
func (s *Service) Create(ctx context.Context, callerID int64, req *CreateMovieRequest) (*Movie, error) {
	if err := s.groups.Authorize(ctx, callerID, req.GroupID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, callerID, req)
}

// Rate records the caller's interest in someone else's proposal
func (s *Service) Rate(ctx context.Context, callerID, id int64, req *RateRequest) (*Movie, error) {
	movie, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie.Watched {
		return nil, ErrAlreadyWatched
	}
	if movie.GroupID == nil {
		return nil, ErrNotShared
	}
	if err := s.groups.Authorize(ctx, callerID, *movie.GroupID); err != nil {
		return nil, err
	}
	if movie.ProposerID == callerID {
		return nil, ErrOwnMovie
	}

	if err := s.repo.UpsertRating(ctx, id, callerID, req.InterestScore); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Delete removes one of the caller's unwatched proposals
func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	movie, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if movie.ProposerID != callerID {
		return ErrNotProposer
	}
	if movie.Watched {
		return ErrAlreadyWatched
	}
	return s.repo.Delete(ctx, id)
}

// TopPick returns the highlight among the caller's visible movies, or nil
// when none of them has been rated
func (s *Service) TopPick(ctx context.Context, callerID int64) (*Movie, float64, error) {
	movies, err := s.repo.ListVisible(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}

	picked, ok := decision.TopPick(Candidates(movies))
	if !ok {
		return nil, 0, nil
	}
	for _, m := range movies {
		if m.ID == picked.MovieID {
			return m, picked.Score, nil
		}
	}
	return nil, 0, nil
}

// History retrieves the group's watched movies, newest first
func (s *Service) History(ctx context.Context, callerID, groupID int64) ([]*Movie, error) {
	if err := s.groups.Authorize(ctx, callerID, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListWatchedByGroup(ctx, groupID)
}

func (s *Service) get(ctx context.Context, id int64) (*Movie, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}
