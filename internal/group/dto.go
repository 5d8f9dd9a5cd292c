package group

import (
	"encoding/json"
	"time"

	"github.com/fkhayef/movienight/internal/decision"
	"github.com/fkhayef/movienight/internal/rotation"
)

const timeLayout = "2006-01-02T15:04:05Z"

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name         string     `json:"name" validate:"required,min=1,max=100"`
	ScheduleType string     `json:"scheduleType" validate:"required,oneof=recurring oneoff"`
	ScheduleDay  *int       `json:"scheduleDay,omitempty" validate:"omitempty,min=0,max=6"`
	ScheduleTime string     `json:"scheduleTime" validate:"required"`
	ScheduleDate *time.Time `json:"scheduleDate,omitempty"`
	MemberIDs    []int64    `json:"memberIds,omitempty" validate:"omitempty,dive,gt=0"`
}

// UpdateGroupRequest represents the request to update a group. Absent fields
// are left unchanged; memberIds, when present, replaces the membership.
type UpdateGroupRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ScheduleType *string    `json:"scheduleType,omitempty" validate:"omitempty,oneof=recurring oneoff"`
	ScheduleDay  *int       `json:"scheduleDay,omitempty" validate:"omitempty,min=0,max=6"`
	ScheduleTime *string    `json:"scheduleTime,omitempty"`
	ScheduleDate *time.Time `json:"scheduleDate,omitempty"`
	MemberIDs    []int64    `json:"memberIds,omitempty" validate:"omitempty,dive,gt=0"`
}

func (r *UpdateGroupRequest) touchesSchedule() bool {
	return r.ScheduleType != nil || r.ScheduleDay != nil || r.ScheduleTime != nil || r.ScheduleDate != nil
}

// NullableID distinguishes an absent field from an explicit null
type NullableID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON records that the field was present, null or not
func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// DecideRequest sets or clears the decided movie. movieId must be present;
// null clears the decision.
type DecideRequest struct {
	MovieID NullableID `json:"movieId"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID                   int64                 `json:"id"`
	Name                 string                `json:"name"`
	ScheduleType         ScheduleType          `json:"scheduleType"`
	ScheduleDay          *int                  `json:"scheduleDay,omitempty"`
	ScheduleTime         string                `json:"scheduleTime"`
	ScheduleDate         *string               `json:"scheduleDate,omitempty"`
	NextMovieNight       *string               `json:"nextMovieNight,omitempty"`
	CurrentProposerIndex int                   `json:"currentProposerIndex"`
	CurrentProposerID    *int64                `json:"currentProposerId,omitempty"`
	LastMovieNight       *string               `json:"lastMovieNight,omitempty"`
	DecidedMovieID       *int64                `json:"decidedMovieId"`
	DecidedMovie         *DecidedMovieResponse `json:"decidedMovie,omitempty"`
	CreatedAt            string                `json:"createdAt"`
	Members              []*MemberResponse     `json:"members,omitempty"`
}

// DecidedMovieResponse represents the decided movie embedded in a group
type DecidedMovieResponse struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	ProposerID     int64   `json:"proposerId"`
	ProposalIntent int     `json:"proposalIntent"`
	PosterPath     *string `json:"posterPath,omitempty"`
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	UserID   int64   `json:"userId"`
	Username string  `json:"username"`
	Name     *string `json:"name,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	JoinedAt string  `json:"joinedAt"`
}

// AutoDecideResponse is the result of letting the engine pick
type AutoDecideResponse struct {
	Group    *GroupResponse   `json:"group"`
	Decision *decision.Ranked `json:"decision"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse(now time.Time) *GroupResponse {
	resp := &GroupResponse{
		ID:                   g.ID,
		Name:                 g.Name,
		CurrentProposerIndex: g.CurrentProposerIndex,
		LastMovieNight:       formatTime(g.LastMovieNight),
		DecidedMovieID:       g.DecidedMovieID,
		CreatedAt:            g.CreatedAt.UTC().Format(timeLayout),
	}

	// A group without a valid schedule still renders, minus the schedule fields
	if typ, day, at, date, err := flatten(g.Schedule); err == nil {
		resp.ScheduleType = typ
		resp.ScheduleDay = day
		resp.ScheduleTime = at
		resp.ScheduleDate = formatTime(date)

		if next, ok := g.Schedule.Next(now); ok {
			resp.NextMovieNight = formatTime(&next)
		}
	}

	if dm := g.DecidedMovie; dm != nil {
		resp.DecidedMovie = &DecidedMovieResponse{
			ID:             dm.ID,
			Title:          dm.Title,
			ProposerID:     dm.ProposerID,
			ProposalIntent: dm.ProposalIntent,
			PosterPath:     dm.PosterPath,
		}
	}

	return resp
}

// ToResponse converts a Detail to a GroupResponse with members
func (d *Detail) ToResponse(now time.Time) *GroupResponse {
	resp := d.Group.ToResponse(now)

	resp.Members = make([]*MemberResponse, len(d.Members))
	for i, m := range d.Members {
		resp.Members[i] = m.ToResponse()
	}

	if id, ok := rotation.CurrentProposer(d.Group.CurrentProposerIndex, MemberIDs(d.Members)); ok {
		resp.CurrentProposerID = &id
	}
	return resp
}

// ToResponse converts a GroupMember model to a MemberResponse DTO
func (m *GroupMember) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Username: m.Username,
		Name:     m.Name,
		Avatar:   m.AvatarURL,
		JoinedAt: m.JoinedAt.UTC().Format(timeLayout),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}
