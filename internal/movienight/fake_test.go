package movienight

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/fkhayef/movienight/internal/group"
	"github.com/fkhayef/movienight/internal/movie"
	"github.com/fkhayef/movienight/internal/notification"
)

// world is an in-memory database. Run serializes transactions and restores
// a snapshot when fn fails.
type world struct {
	mu      sync.Mutex
	groups  map[int64]group.Group
	members map[int64][]int64
	movies  map[int64]movie.Movie
	notes   []notification.Draft
	nextID  int64

	failNotify error
	runs       int
}

func newWorld() *world {
	return &world{
		groups:  map[int64]group.Group{},
		members: map[int64][]int64{},
		movies:  map[int64]movie.Movie{},
		nextID:  100,
	}
}

func (w *world) addGroup(id int64, index int, members ...int64) {
	w.groups[id] = group.Group{
		ID:                   id,
		Name:                 "Group",
		Schedule:             group.Recurring{Day: time.Friday, Time: group.Clock{Hour: 20}},
		CurrentProposerIndex: index,
	}
	w.members[id] = members
}

func (w *world) addMovie(groupID *int64, proposerID int64, intent int, watched bool, scores ...int64) int64 {
	w.nextID++
	m := movie.Movie{
		ID:             w.nextID,
		Title:          "Movie",
		ProposerID:     proposerID,
		ProposalIntent: intent,
		Watched:        watched,
		GroupID:        groupID,
		PeerScores:     scores,
	}
	if len(scores) > 0 {
		last := int(scores[len(scores)-1])
		m.InterestScore = &last
	}
	w.movies[m.ID] = m
	return m.ID
}

func (w *world) group(id int64) group.Group {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.groups[id]
}

func (w *world) movie(id int64) (movie.Movie, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.movies[id]
	return m, ok
}

func (w *world) Run(_ context.Context, fn func(Stores) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.runs++

	groups := maps.Clone(w.groups)
	members := maps.Clone(w.members)
	movies := maps.Clone(w.movies)
	notes := slices.Clone(w.notes)

	err := fn(Stores{Groups: groupStore{w}, Movies: movieStore{w}, Notifications: notificationStore{w}})
	if err != nil {
		w.groups, w.members, w.movies, w.notes = groups, members, movies, notes
	}
	return err
}

type groupStore struct{ w *world }

func (s groupStore) GetByID(_ context.Context, id int64) (*group.Group, error) {
	g, ok := s.w.groups[id]
	if !ok {
		return nil, nil
	}
	if g.DecidedMovieID != nil {
		if m, ok := s.w.movies[*g.DecidedMovieID]; ok {
			g.DecidedMovie = &group.DecidedMovie{ID: m.ID, Title: m.Title, ProposerID: m.ProposerID, ProposalIntent: m.ProposalIntent}
		}
	}
	return &g, nil
}

func (s groupStore) GetForUpdate(ctx context.Context, id int64) (*group.Group, error) {
	return s.GetByID(ctx, id)
}

func (s groupStore) GetMembers(_ context.Context, groupID int64) ([]*group.GroupMember, error) {
	var out []*group.GroupMember
	for _, id := range s.w.members[groupID] {
		out = append(out, &group.GroupMember{GroupID: groupID, UserID: id})
	}
	return out, nil
}

func (s groupStore) SetDecidedMovie(_ context.Context, groupID int64, movieID *int64) error {
	g := s.w.groups[groupID]
	g.DecidedMovieID = movieID
	s.w.groups[groupID] = g
	return nil
}

func (s groupStore) SaveRotation(_ context.Context, groupID int64, nextIndex int, at time.Time) error {
	g := s.w.groups[groupID]
	g.CurrentProposerIndex = nextIndex
	g.LastMovieNight = &at
	g.DecidedMovieID = nil
	s.w.groups[groupID] = g
	return nil
}

type movieStore struct{ w *world }

func (s movieStore) GetByID(_ context.Context, id int64) (*movie.Movie, error) {
	m, ok := s.w.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s movieStore) GetForUpdate(ctx context.Context, id int64) (*movie.Movie, error) {
	return s.GetByID(ctx, id)
}

func (s movieStore) ListUnwatchedByGroup(_ context.Context, groupID int64) ([]*movie.Movie, error) {
	var out []*movie.Movie
	for _, id := range slices.Sorted(maps.Keys(s.w.movies)) {
		m := s.w.movies[id]
		if !m.Watched && m.GroupID != nil && *m.GroupID == groupID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (s movieStore) MarkWatched(_ context.Context, id int64, req *movie.WatchRequest, at time.Time) error {
	m := s.w.movies[id]
	m.Watched = true
	m.WatchedAt = &at
	m.Notes = req.Notes
	m.PersonalRating = req.PersonalRating
	s.w.movies[id] = m
	return nil
}

func (s movieStore) DeleteUnwatchedByProposer(_ context.Context, groupID, proposerID int64) (int64, error) {
	var n int64
	for id, m := range s.w.movies {
		if !m.Watched && m.ProposerID == proposerID && m.GroupID != nil && *m.GroupID == groupID {
			delete(s.w.movies, id)
			n++
		}
	}
	return n, nil
}

type notificationStore struct{ w *world }

func (s notificationStore) Insert(_ context.Context, drafts ...notification.Draft) error {
	if s.w.failNotify != nil {
		return s.w.failNotify
	}
	s.w.notes = append(s.w.notes, drafts...)
	return nil
}

var errNotifyDown = errors.New("notifications unavailable")
