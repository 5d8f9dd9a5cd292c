// Package movienight runs the group state transitions: deciding on a movie
// and completing a movie night, which passes the turn to the next proposer.
//
// Every transition locks the group row first, then any movie row it
// touches, inside a single transaction.
package movienight

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/fkhayef/movienight/internal/decision"
	"github.com/fkhayef/movienight/internal/group"
	"github.com/fkhayef/movienight/internal/metrics"
	"github.com/fkhayef/movienight/internal/movie"
	"github.com/fkhayef/movienight/internal/notification"
	"github.com/fkhayef/movienight/internal/rotation"
	"github.com/fkhayef/movienight/pkg/apperror"
)

// Common errors
var (
	ErrUnknownMovie = apperror.Validation("unknown movie").WithField("movieId", "does not exist")
	ErrCrossGroup   = apperror.Invariant("movie belongs to another group")
)

// Service coordinates group, movie and notification writes
type Service struct {
	tx     TxRunner
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new movie night service
func NewService(tx TxRunner, logger *slog.Logger) *Service {
	return &Service{tx: tx, logger: logger, now: time.Now}
}

// advanced is the outcome of one rotation
type advanced struct {
	rotation.Result
	Purged int64
}

// MarkWatched completes the movie night for a movie. For a group movie the
// turn passes to the next member, the outgoing proposer's other unwatched
// proposals are deleted and the group's decision is cleared.
func (s *Service) MarkWatched(ctx context.Context, callerID, movieID int64, req *movie.WatchRequest) (*movie.Movie, error) {
	var (
		watched *movie.Movie
		groupID int64
		outcome *advanced
	)

	err := s.tx.Run(ctx, func(st Stores) error {
		watched, outcome = nil, nil

		m, err := st.Movies.GetByID(ctx, movieID)
		if err != nil {
			return err
		}
		if m == nil {
			return movie.ErrMovieNotFound
		}

		if m.GroupID == nil {
			if m.ProposerID != callerID {
				return movie.ErrNotProposer
			}
			watched, err = s.watch(ctx, st, movieID, nil, req)
			return err
		}

		groupID = *m.GroupID
		g, members, err := lockAsMember(ctx, st, callerID, groupID)
		if err != nil {
			return err
		}

		if watched, err = s.watch(ctx, st, movieID, &g.ID, req); err != nil {
			return err
		}

		outcome, err = s.advance(ctx, st, g, group.MemberIDs(members))
		return err
	})
	if err != nil {
		return nil, err
	}

	if outcome != nil {
		metrics.Rotations.Inc()
		metrics.StaleProposalsDeleted.Add(float64(outcome.Purged))
		s.logger.Info("Rotated proposer",
			"group_id", groupID,
			"movie_id", movieID,
			"outgoing_proposer", outcome.Outgoing,
			"next_index", outcome.NextIndex,
			"purged", outcome.Purged,
		)
	}

	return watched, nil
}

// watch locks the movie, checks it still belongs to groupID and records it
// as watched
func (s *Service) watch(ctx context.Context, st Stores, movieID int64, groupID *int64, req *movie.WatchRequest) (*movie.Movie, error) {
	m, err := st.Movies.GetForUpdate(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, movie.ErrMovieNotFound
	}
	if !sameID(m.GroupID, groupID) {
		return nil, ErrCrossGroup
	}
	if m.Watched {
		return nil, movie.ErrAlreadyWatched
	}

	if err := st.Movies.MarkWatched(ctx, movieID, req, s.now()); err != nil {
		return nil, err
	}
	return st.Movies.GetByID(ctx, movieID)
}

// advance moves the rotation of a locked group one slot. With no members the
// index stays put, but the night is still recorded and the decision cleared.
func (s *Service) advance(ctx context.Context, st Stores, g *group.Group, memberIDs []int64) (*advanced, error) {
	out := &advanced{Result: rotation.Advance(g.CurrentProposerIndex, memberIDs)}

	if out.HasProposer {
		n, err := st.Movies.DeleteUnwatchedByProposer(ctx, g.ID, out.Outgoing)
		if err != nil {
			return nil, err
		}
		out.Purged = n
	}

	if err := st.Groups.SaveRotation(ctx, g.ID, out.NextIndex, s.now()); err != nil {
		return nil, err
	}

	if next, ok := rotation.CurrentProposer(out.NextIndex, memberIDs); ok {
		if err := st.Notifications.Insert(ctx, notification.TurnStarted(next, g.ID, g.Name)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetDecision sets the group's decided movie, or clears it when movieID is
// nil. Repeating the current decision writes nothing.
func (s *Service) SetDecision(ctx context.Context, callerID, groupID int64, movieID *int64) (*group.Detail, error) {
	var (
		detail  *group.Detail
		changed bool
	)

	err := s.tx.Run(ctx, func(st Stores) error {
		g, members, err := lockAsMember(ctx, st, callerID, groupID)
		if err != nil {
			return err
		}

		if changed, err = s.decide(ctx, st, g, members, callerID, movieID); err != nil {
			return err
		}

		detail, err = reload(ctx, st, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		source := metrics.SourceManual
		if movieID == nil {
			source = metrics.SourceCleared
		}
		metrics.Decisions.WithLabelValues(source).Inc()
	}
	return detail, nil
}

// AutoDecide scores the group's unwatched proposals and stores the best
// one. With no candidates the group is returned unchanged and the ranked
// result is nil.
func (s *Service) AutoDecide(ctx context.Context, callerID, groupID int64) (*group.Detail, *decision.Ranked, error) {
	var (
		detail  *group.Detail
		picked  *decision.Ranked
		changed bool
	)

	err := s.tx.Run(ctx, func(st Stores) error {
		picked, changed = nil, false

		g, members, err := lockAsMember(ctx, st, callerID, groupID)
		if err != nil {
			return err
		}

		movies, err := st.Movies.ListUnwatchedByGroup(ctx, groupID)
		if err != nil {
			return err
		}

		if best, ok := decision.Decide(groupID, movie.Candidates(movies)); ok {
			picked = best
			if changed, err = s.decide(ctx, st, g, members, callerID, &best.MovieID); err != nil {
				return err
			}
		}

		detail, err = reload(ctx, st, groupID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if changed {
		metrics.Decisions.WithLabelValues(metrics.SourceAuto).Inc()
	}
	return detail, picked, nil
}

// Ranking returns the group's candidates in decision order
func (s *Service) Ranking(ctx context.Context, callerID, groupID int64) ([]decision.Ranked, error) {
	var ranked []decision.Ranked

	err := s.tx.Run(ctx, func(st Stores) error {
		g, err := st.Groups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if g == nil {
			return group.ErrGroupNotFound
		}
		members, err := st.Groups.GetMembers(ctx, groupID)
		if err != nil {
			return err
		}
		if !slices.Contains(group.MemberIDs(members), callerID) {
			return group.ErrNotMember
		}

		movies, err := st.Movies.ListUnwatchedByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		ranked = decision.RankForGroup(groupID, movie.Candidates(movies))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

// decide validates and persists a decision on a locked group. It reports
// whether anything was written.
func (s *Service) decide(ctx context.Context, st Stores, g *group.Group, members []*group.GroupMember, callerID int64, movieID *int64) (bool, error) {
	var m *movie.Movie
	if movieID != nil {
		var err error
		if m, err = st.Movies.GetForUpdate(ctx, *movieID); err != nil {
			return false, err
		}
		if m == nil {
			return false, ErrUnknownMovie
		}
		if m.GroupID == nil || *m.GroupID != g.ID {
			return false, ErrCrossGroup
		}
		if m.Watched {
			return false, movie.ErrAlreadyWatched
		}
	}

	if sameID(g.DecidedMovieID, movieID) {
		return false, nil
	}

	if err := st.Groups.SetDecidedMovie(ctx, g.ID, movieID); err != nil {
		return false, err
	}

	if m != nil {
		var others []int64
		for _, member := range members {
			if member.UserID != callerID {
				others = append(others, member.UserID)
			}
		}
		drafts := notification.MovieDecided(others, g.ID, g.Name, m.ID, m.Title)
		if err := st.Notifications.Insert(ctx, drafts...); err != nil {
			return false, err
		}
	}
	return true, nil
}

// lockAsMember locks the group row and checks the caller belongs to it
func lockAsMember(ctx context.Context, st Stores, callerID, groupID int64) (*group.Group, []*group.GroupMember, error) {
	g, err := st.Groups.GetForUpdate(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, group.ErrGroupNotFound
	}

	members, err := st.Groups.GetMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if !slices.Contains(group.MemberIDs(members), callerID) {
		return nil, nil, group.ErrNotMember
	}
	return g, members, nil
}

func reload(ctx context.Context, st Stores, groupID int64) (*group.Detail, error) {
	g, err := st.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}
	members, err := st.Groups.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &group.Detail{Group: g, Members: members}, nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
