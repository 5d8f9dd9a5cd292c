package movienight

import (
	"context"
	"database/sql"
	"time"

	"github.com/fkhayef/movienight/internal/database"
	"github.com/fkhayef/movienight/internal/group"
	"github.com/fkhayef/movienight/internal/movie"
	"github.com/fkhayef/movienight/internal/notification"
)

// GroupStore is the group persistence used inside a movie night transaction
type GroupStore interface {
	GetByID(ctx context.Context, id int64) (*group.Group, error)
	GetForUpdate(ctx context.Context, id int64) (*group.Group, error)
	GetMembers(ctx context.Context, groupID int64) ([]*group.GroupMember, error)
	SetDecidedMovie(ctx context.Context, groupID int64, movieID *int64) error
	SaveRotation(ctx context.Context, groupID int64, nextIndex int, at time.Time) error
}

// MovieStore is the movie persistence used inside a movie night transaction
type MovieStore interface {
	GetByID(ctx context.Context, id int64) (*movie.Movie, error)
	GetForUpdate(ctx context.Context, id int64) (*movie.Movie, error)
	ListUnwatchedByGroup(ctx context.Context, groupID int64) ([]*movie.Movie, error)
	MarkWatched(ctx context.Context, id int64, req *movie.WatchRequest, at time.Time) error
	DeleteUnwatchedByProposer(ctx context.Context, groupID, proposerID int64) (int64, error)
}

// NotificationStore records notifications in the same transaction
type NotificationStore interface {
	Insert(ctx context.Context, drafts ...notification.Draft) error
}

// Stores are bound to one transaction
type Stores struct {
	Groups        GroupStore
	Movies        MovieStore
	Notifications NotificationStore
}

// TxRunner runs fn in a transaction. fn may be called more than once and
// its writes are discarded when it returns an error.
type TxRunner interface {
	Run(ctx context.Context, fn func(Stores) error) error
}

// SQLRunner is the TxRunner backed by PostgreSQL
type SQLRunner struct {
	db         *sql.DB
	maxRetries int
}

// NewSQLRunner creates a runner that retries serialization failures and
// deadlocks up to maxRetries times
func NewSQLRunner(db *sql.DB, maxRetries int) *SQLRunner {
	return &SQLRunner{db: db, maxRetries: maxRetries}
}

func (r *SQLRunner) Run(ctx context.Context, fn func(Stores) error) error {
	return database.WithTx(ctx, r.db, r.maxRetries, func(tx *sql.Tx) error {
		return fn(Stores{
			Groups:        group.NewRepository(tx),
			Movies:        movie.NewRepository(tx),
			Notifications: notification.NewRepository(tx),
		})
	})
}
