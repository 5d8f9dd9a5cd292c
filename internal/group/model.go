package group

import "time"

// Group represents a movie night group
type Group struct {
	ID                   int64
	Name                 string
	Schedule             Schedule
	CurrentProposerIndex int
	LastMovieNight       *time.Time
	DecidedMovieID       *int64
	DecidedMovie         *DecidedMovie
	CreatedAt            time.Time
}

// DecidedMovie is the summary of a group's decided movie, populated from JOIN
type DecidedMovie struct {
	ID             int64
	Title          string
	ProposerID     int64
	ProposalIntent int
	PosterPath     *string
}

// GroupMember represents a user's membership in a group. Members are ordered
// by join time; that order is the proposer rotation.
type GroupMember struct {
	ID       int64
	GroupID  int64
	UserID   int64
	JoinedAt time.Time

	// Populated from JOIN
	Username  string
	Name      *string
	AvatarURL *string
}

// Detail is a group with its members in rotation order
type Detail struct {
	Group   *Group
	Members []*GroupMember
}

// MemberIDs returns the user IDs of members in rotation order
func MemberIDs(members []*GroupMember) []int64 {
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids
}
