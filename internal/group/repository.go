package group

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/fkhayef/movienight/internal/database"
)

// Repository handles group data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new group repository
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

const groupColumns = `
	g.id, g.name, g.schedule_type, g.schedule_day, g.schedule_time, g.schedule_date,
	g.current_proposer_index, g.last_movie_night, g.decided_movie_id, g.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanGroup reads groupColumns, optionally followed by the decided movie join
func scanGroup(row rowScanner, withDecided bool) (*Group, error) {
	var (
		g            Group
		scheduleType string
		scheduleDay  sql.NullInt16
		scheduleTime string
		scheduleDate sql.NullTime
		lastNight    sql.NullTime
		decidedID    sql.NullInt64
	)
	dest := []any{
		&g.ID, &g.Name, &scheduleType, &scheduleDay, &scheduleTime, &scheduleDate,
		&g.CurrentProposerIndex, &lastNight, &decidedID, &g.CreatedAt,
	}

	var (
		dmTitle    sql.NullString
		dmProposer sql.NullInt64
		dmIntent   sql.NullInt16
		dmPoster   sql.NullString
	)
	if withDecided {
		dest = append(dest, &dmTitle, &dmProposer, &dmIntent, &dmPoster)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var day *int
	if scheduleDay.Valid {
		d := int(scheduleDay.Int16)
		day = &d
	}
	var date *time.Time
	if scheduleDate.Valid {
		date = &scheduleDate.Time
	}
	schedule, err := NewSchedule(ScheduleType(scheduleType), day, scheduleTime, date)
	if err != nil {
		return nil, fmt.Errorf("group %d has a corrupt schedule: %w", g.ID, err)
	}
	g.Schedule = schedule

	if lastNight.Valid {
		g.LastMovieNight = &lastNight.Time
	}
	if decidedID.Valid {
		g.DecidedMovieID = &decidedID.Int64
		if withDecided && dmTitle.Valid {
			g.DecidedMovie = &DecidedMovie{
				ID:             decidedID.Int64,
				Title:          dmTitle.String,
				ProposerID:     dmProposer.Int64,
				ProposalIntent: int(dmIntent.Int16),
			}
			if dmPoster.Valid {
				g.DecidedMovie.PosterPath = &dmPoster.String
			}
		}
	}

	return &g, nil
}

// Create inserts a group together with its initial members, in order, in a
// single statement. All initial members share one joined_at, so their order
// is carried by group_members.id, which the ORDER BY t.ord assigns in
// array order.
func (r *Repository) Create(ctx context.Context, name string, schedule Schedule, memberIDs []int64) (*Group, error) {
	typ, day, at, date, err := flatten(schedule)
	if err != nil {
		return nil, err
	}

	query := `
		WITH g AS (
			INSERT INTO groups (name, schedule_type, schedule_day, schedule_time, schedule_date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		), members AS (
			INSERT INTO group_members (group_id, user_id)
			SELECT g.id, t.user_id
			FROM g, unnest($6::bigint[]) WITH ORDINALITY AS t(user_id, ord)
			ORDER BY t.ord
		)
		SELECT ` + groupColumns + `
		FROM g
	`

	group, err := scanGroup(r.db.QueryRowContext(ctx, query, name, typ, day, at, date, pq.Array(memberIDs)), false)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// GetByID retrieves a group with its decided movie summary
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT ` + groupColumns + `,
		       dm.title, dm.proposer_id, dm.proposal_intent, dm.poster_path
		FROM groups g
		LEFT JOIN movies dm ON dm.id = g.decided_movie_id
		WHERE g.id = $1
	`

	group, err := scanGroup(r.db.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetForUpdate retrieves a group and locks its row until the surrounding
// transaction ends. Must run inside a transaction.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM groups g
		WHERE g.id = $1
		FOR UPDATE
	`

	group, err := scanGroup(r.db.QueryRowContext(ctx, query, id), false)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock group: %w", err)
	}
	return group, nil
}

// ListByUserID retrieves all groups the user is a member of
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	query := `
		SELECT ` + groupColumns + `,
		       dm.title, dm.proposer_id, dm.proposal_intent, dm.poster_path
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		LEFT JOIN movies dm ON dm.id = g.decided_movie_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group, err := scanGroup(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	return groups, nil
}

// Update modifies group metadata. A nil name or schedule is left unchanged.
func (r *Repository) Update(ctx context.Context, id int64, name *string, schedule Schedule) error {
	var (
		typ  *ScheduleType
		day  *int
		at   *string
		date *time.Time
	)
	if schedule != nil {
		t, d, a, dt, err := flatten(schedule)
		if err != nil {
			return err
		}
		typ, day, at, date = &t, d, &a, dt
	}

	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    schedule_type = COALESCE($3::text, schedule_type),
		    schedule_day = CASE WHEN $3::text IS NULL THEN schedule_day ELSE $4::smallint END,
		    schedule_time = COALESCE($5, schedule_time),
		    schedule_date = CASE WHEN $3::text IS NULL THEN schedule_date ELSE $6::timestamptz END
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, name, typ, day, at, date); err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

// ReplaceMembers sets the membership to userIDs. Members who stay keep their
// join time, and so their rotation slot; new members are appended in order.
func (r *Repository) ReplaceMembers(ctx context.Context, groupID int64, userIDs []int64) error {
	query := `
		WITH removed AS (
			DELETE FROM group_members
			WHERE group_id = $1 AND NOT (user_id = ANY($2::bigint[]))
		)
		INSERT INTO group_members (group_id, user_id)
		SELECT $1, t.user_id
		FROM unnest($2::bigint[]) WITH ORDINALITY AS t(user_id, ord)
		ORDER BY t.ord
		ON CONFLICT (group_id, user_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, groupID, pq.Array(userIDs)); err != nil {
		return fmt.Errorf("failed to replace members: %w", err)
	}
	return nil
}

// GetMembers retrieves all members of a group in rotation order. Members
// added by the same statement share joined_at; gm.id breaks the tie and
// must stay in the ORDER BY.
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.joined_at, u.username, u.name, u.avatar_url
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at, gm.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		member := &GroupMember{}
		if err := rows.Scan(
			&member.ID,
			&member.GroupID,
			&member.UserID,
			&member.JoinedAt,
			&member.Username,
			&member.Name,
			&member.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	return members, nil
}

// IsMember reports whether the user belongs to the group
func (r *Repository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return ok, nil
}

// SetDecidedMovie stores the group's decided movie; nil clears it
func (r *Repository) SetDecidedMovie(ctx context.Context, groupID int64, movieID *int64) error {
	query := `UPDATE groups SET decided_movie_id = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, groupID, movieID)
	if err != nil {
		return fmt.Errorf("failed to set decided movie: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// SaveRotation advances the proposer index, stamps the movie night and
// clears the decided movie
func (r *Repository) SaveRotation(ctx context.Context, groupID int64, nextIndex int, at time.Time) error {
	query := `
		UPDATE groups
		SET current_proposer_index = $2,
		    last_movie_night = $3,
		    decided_movie_id = NULL
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, groupID, nextIndex, at)
	if err != nil {
		return fmt.Errorf("failed to save rotation: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrGroupNotFound
	}
	return nil
}
