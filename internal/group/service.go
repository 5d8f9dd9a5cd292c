package group

import (
	"context"
	"database/sql"
	"slices"

	"github.com/fkhayef/movienight/internal/database"
	"github.com/fkhayef/movienight/pkg/apperror"
)

// Common errors
var (
	ErrGroupNotFound = apperror.NotFound("group not found")
	ErrNotMember     = apperror.Forbidden("not a member of this group")
	ErrUnknownUsers  = apperror.Validation("unknown members").WithField("memberIds", "contains unknown users")
	ErrNoMembers     = apperror.Validation("empty membership").WithField("memberIds", "must not be empty")

	errInvalidSchedule = apperror.Validation("invalid schedule")
)

// Store is the persistence the group service needs
type Store interface {
	Create(ctx context.Context, name string, schedule Schedule, memberIDs []int64) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	GetForUpdate(ctx context.Context, id int64) (*Group, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Group, error)
	Update(ctx context.Context, id int64, name *string, schedule Schedule) error
	ReplaceMembers(ctx context.Context, groupID int64, userIDs []int64) error
	GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
}

// Transactor runs fn against a Store bound to a single transaction
type Transactor interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

// UserChecker verifies that user ids refer to existing accounts
type UserChecker interface {
	CountExisting(ctx context.Context, ids []int64) (int, error)
}

// SQLTransactor is the Transactor backed by PostgreSQL
type SQLTransactor struct {
	db         *sql.DB
	maxRetries int
}

// NewSQLTransactor creates a Transactor that retries serialization failures
func NewSQLTransactor(db *sql.DB, maxRetries int) *SQLTransactor {
	return &SQLTransactor{db: db, maxRetries: maxRetries}
}

func (t *SQLTransactor) InTx(ctx context.Context, fn func(Store) error) error {
	return database.WithTx(ctx, t.db, t.maxRetries, func(tx *sql.Tx) error {
		return fn(NewRepository(tx))
	})
}

// Service handles group business logic
type Service struct {
	repo  Store
	tx    Transactor
	users UserChecker
}

// NewService creates a new group service
func NewService(repo Store, tx Transactor, users UserChecker) *Service {
	return &Service{repo: repo, tx: tx, users: users}
}

// Create creates a group. The caller becomes the first member, followed by
// memberIds in request order.
func (s *Service) Create(ctx context.Context, callerID int64, req *CreateGroupRequest) (*Detail, error) {
	schedule, err := NewSchedule(ScheduleType(req.ScheduleType), req.ScheduleDay, req.ScheduleTime, req.ScheduleDate)
	if err != nil {
		return nil, err
	}

	memberIDs := dedupe(append([]int64{callerID}, req.MemberIDs...))
	if err := s.checkUsers(ctx, memberIDs); err != nil {
		return nil, err
	}

	group, err := s.repo.Create(ctx, req.Name, schedule, memberIDs)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.GetMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	return &Detail{Group: group, Members: members}, nil
}

// ListForUser retrieves all groups the caller belongs to
func (s *Service) ListForUser(ctx context.Context, callerID int64) ([]*Group, error) {
	return s.repo.ListByUserID(ctx, callerID)
}

// Get retrieves a group with its members. The caller must be a member.
func (s *Service) Get(ctx context.Context, callerID, id int64) (*Detail, error) {
	return load(ctx, s.repo, callerID, id)
}

// Authorize checks that the group exists and the caller is a member of it
func (s *Service) Authorize(ctx context.Context, callerID, groupID int64) error {
	return authorize(ctx, s.repo, callerID, groupID)
}

// Update changes name, schedule and membership under the group lock
func (s *Service) Update(ctx context.Context, callerID, id int64, req *UpdateGroupRequest) (*Detail, error) {
	var memberIDs []int64
	if req.MemberIDs != nil {
		memberIDs = dedupe(req.MemberIDs)
		if len(memberIDs) == 0 {
			return nil, ErrNoMembers
		}
		if err := s.checkUsers(ctx, memberIDs); err != nil {
			return nil, err
		}
	}

	var detail *Detail
	err := s.tx.InTx(ctx, func(repo Store) error {
		group, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if group == nil {
			return ErrGroupNotFound
		}
		if err := authorize(ctx, repo, callerID, id); err != nil {
			return err
		}

		var schedule Schedule
		if req.touchesSchedule() {
			if schedule, err = mergeSchedule(group.Schedule, req); err != nil {
				return err
			}
		}
		if req.Name != nil || schedule != nil {
			if err := repo.Update(ctx, id, req.Name, schedule); err != nil {
				return err
			}
		}

		if memberIDs != nil {
			if err := repo.ReplaceMembers(ctx, id, memberIDs); err != nil {
				return err
			}
		}

		group, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		members, err := repo.GetMembers(ctx, id)
		if err != nil {
			return err
		}
		detail = &Detail{Group: group, Members: members}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Service) checkUsers(ctx context.Context, ids []int64) error {
	n, err := s.users.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return ErrUnknownUsers
	}
	return nil
}

func authorize(ctx context.Context, repo Store, callerID, groupID int64) error {
	ok, err := repo.IsMember(ctx, groupID, callerID)
	if err != nil {
		return err
	}
	if !ok {
		group, err := repo.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if group == nil {
			return ErrGroupNotFound
		}
		return ErrNotMember
	}
	return nil
}

func load(ctx context.Context, repo Store, callerID, id int64) (*Detail, error) {
	group, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	members, err := repo.GetMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(MemberIDs(members), callerID) {
		return nil, ErrNotMember
	}
	return &Detail{Group: group, Members: members}, nil
}

// mergeSchedule applies the schedule fields of req over current. Switching
// variants drops the fields of the old variant.
func mergeSchedule(current Schedule, req *UpdateGroupRequest) (Schedule, error) {
	typ, day, at, date, err := flatten(current)
	if err != nil {
		return nil, err
	}

	if req.ScheduleType != nil && ScheduleType(*req.ScheduleType) != typ {
		typ = ScheduleType(*req.ScheduleType)
		day, date = nil, nil
	}
	if req.ScheduleDay != nil {
		day = req.ScheduleDay
	}
	if req.ScheduleTime != nil {
		at = *req.ScheduleTime
	}
	if req.ScheduleDate != nil {
		date = req.ScheduleDate
	}

	return NewSchedule(typ, day, at, date)
}

// dedupe drops repeated ids, keeping first occurrences in order
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
