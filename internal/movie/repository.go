package movie

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/fkhayef/movienight/internal/database"
)

// Repository handles movie data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new movie repository
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

const movieSelect = `
	SELECT m.id, m.title, m.proposer_id, m.proposed_at, m.proposal_intent, m.interest_score,
	       m.watched, m.watched_at, m.notes, m.personal_rating, m.group_id, m.tmdb_id, m.poster_path,
	       u.username, u.name, u.avatar_url,
	       COALESCE((SELECT array_agg(r.interest_score ORDER BY r.rated_at)
	                 FROM movie_ratings r WHERE r.movie_id = m.id), '{}')
	FROM movies m
	JOIN users u ON u.id = m.proposer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*Movie, error) {
	m := &Movie{Proposer: &Proposer{}}
	var peers pq.Int64Array

	if err := row.Scan(
		&m.ID,
		&m.Title,
		&m.ProposerID,
		&m.ProposedAt,
		&m.ProposalIntent,
		&m.InterestScore,
		&m.Watched,
		&m.WatchedAt,
		&m.Notes,
		&m.PersonalRating,
		&m.GroupID,
		&m.TmdbID,
		&m.PosterPath,
		&m.Proposer.Username,
		&m.Proposer.Name,
		&m.Proposer.AvatarURL,
		&peers,
	); err != nil {
		return nil, err
	}

	m.Proposer.ID = m.ProposerID
	m.PeerScores = []int64(peers)
	return m, nil
}

func (r *Repository) getOne(ctx context.Context, query string, args ...any) (*Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return m, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	var movies []*Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	return movies, nil
}

// Create inserts a new unwatched proposal
func (r *Repository) Create(ctx context.Context, proposerID int64, req *CreateMovieRequest) (*Movie, error) {
	query := `
		INSERT INTO movies (title, proposer_id, proposal_intent, group_id, tmdb_id, poster_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query,
		req.Title,
		proposerID,
		req.ProposalIntent,
		req.GroupID,
		req.TmdbID,
		req.PosterPath,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a movie with its proposer and peer scores
func (r *Repository) GetByID(ctx context.Context, id int64) (*Movie, error) {
	return r.getOne(ctx, movieSelect+` WHERE m.id = $1`, id)
}

// GetForUpdate retrieves a movie and locks its row. Must run inside a
// transaction, after the owning group is locked.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*Movie, error) {
	return r.getOne(ctx, movieSelect+` WHERE m.id = $1 FOR UPDATE OF m`, id)
}

// ListVisible retrieves unwatched movies proposed by the user, by the user's
// accepted friends, or within any group the user belongs to
func (r *Repository) ListVisible(ctx context.Context, userID int64) ([]*Movie, error) {
	query := movieSelect + `
		WHERE NOT m.watched
		  AND (
		        m.proposer_id = $1
		     OR m.proposer_id IN (
		            SELECT CASE WHEN fr.sender_id = $1 THEN fr.receiver_id ELSE fr.sender_id END
		            FROM friend_requests fr
		            WHERE fr.status = 'accepted' AND (fr.sender_id = $1 OR fr.receiver_id = $1)
		        )
		     OR m.group_id IN (SELECT gm.group_id FROM group_members gm WHERE gm.user_id = $1)
		  )
		ORDER BY m.proposed_at DESC, m.id DESC
	`
	return r.list(ctx, query, userID)
}

// ListUnwatchedByGroup retrieves a group's open proposals, oldest first
func (r *Repository) ListUnwatchedByGroup(ctx context.Context, groupID int64) ([]*Movie, error) {
	query := movieSelect + `
		WHERE m.group_id = $1 AND NOT m.watched
		ORDER BY m.proposed_at, m.id
	`
	return r.list(ctx, query, groupID)
}

// ListWatchedByGroup retrieves a group's past movie nights, newest first
func (r *Repository) ListWatchedByGroup(ctx context.Context, groupID int64) ([]*Movie, error) {
	query := movieSelect + `
		WHERE m.group_id = $1 AND m.watched
		ORDER BY m.watched_at DESC, m.id DESC
	`
	return r.list(ctx, query, groupID)
}

// UpsertRating stores the user's interest score for a movie and makes it the
// movie's latest interest score
func (r *Repository) UpsertRating(ctx context.Context, movieID, userID int64, score int) error {
	query := `
		WITH rating AS (
			INSERT INTO movie_ratings (movie_id, user_id, interest_score)
			VALUES ($1, $2, $3)
			ON CONFLICT (movie_id, user_id)
			DO UPDATE SET interest_score = EXCLUDED.interest_score, rated_at = now()
		)
		UPDATE movies SET interest_score = $3 WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, movieID, userID, score); err != nil {
		return fmt.Errorf("failed to rate movie: %w", err)
	}
	return nil
}

// MarkWatched records the completion of a movie night
func (r *Repository) MarkWatched(ctx context.Context, id int64, req *WatchRequest, at time.Time) error {
	query := `
		UPDATE movies
		SET watched = true, watched_at = $2, notes = $3, personal_rating = $4
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, at, req.Notes, req.PersonalRating); err != nil {
		return fmt.Errorf("failed to mark movie watched: %w", err)
	}
	return nil
}

// DeleteUnwatchedByProposer removes every unwatched proposal of proposerID in
// the group and reports how many were deleted
func (r *Repository) DeleteUnwatchedByProposer(ctx context.Context, groupID, proposerID int64) (int64, error) {
	query := `DELETE FROM movies WHERE group_id = $1 AND proposer_id = $2 AND NOT watched`

	result, err := r.db.ExecContext(ctx, query, groupID, proposerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale proposals: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale proposals: %w", err)
	}
	return n, nil
}

// Delete removes a movie that is still unwatched
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM movies WHERE id = $1 AND NOT watched`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
