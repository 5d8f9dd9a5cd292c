package group

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

// memoryStore implements Store, Transactor and UserChecker
type memoryStore struct {
	mu      sync.Mutex
	groups  map[int64]*Group
	members map[int64][]*GroupMember
	users   map[int64]bool
	nextID  int64
	clock   time.Time
}

func newMemoryStore(userIDs ...int64) *memoryStore {
	m := &memoryStore{
		groups:  map[int64]*Group{},
		members: map[int64][]*GroupMember{},
		users:   map[int64]bool{},
		nextID:  1,
		clock:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, id := range userIDs {
		m.users[id] = true
	}
	return m
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memoryStore) Create(_ context.Context, name string, schedule Schedule, memberIDs []int64) (*Group, error) {
	g := &Group{ID: m.nextID, Name: name, Schedule: schedule, CreatedAt: m.tick()}
	m.nextID++
	m.groups[g.ID] = g
	for _, id := range memberIDs {
		m.addMember(g.ID, id)
	}
	copied := *g
	return &copied, nil
}

func (m *memoryStore) addMember(groupID, userID int64) {
	m.members[groupID] = append(m.members[groupID], &GroupMember{
		ID:       int64(len(m.members[groupID]) + 1),
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: m.tick(),
	})
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (m *memoryStore) GetForUpdate(ctx context.Context, id int64) (*Group, error) {
	return m.GetByID(ctx, id)
}

func (m *memoryStore) ListByUserID(_ context.Context, userID int64) ([]*Group, error) {
	var out []*Group
	for id, members := range m.members {
		if slices.Contains(MemberIDs(members), userID) {
			copied := *m.groups[id]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryStore) Update(_ context.Context, id int64, name *string, schedule Schedule) error {
	g := m.groups[id]
	if name != nil {
		g.Name = *name
	}
	if schedule != nil {
		g.Schedule = schedule
	}
	return nil
}

func (m *memoryStore) ReplaceMembers(_ context.Context, groupID int64, userIDs []int64) error {
	var kept []*GroupMember
	for _, member := range m.members[groupID] {
		if slices.Contains(userIDs, member.UserID) {
			kept = append(kept, member)
		}
	}
	m.members[groupID] = kept
	for _, id := range userIDs {
		if !slices.Contains(MemberIDs(kept), id) {
			m.addMember(groupID, id)
		}
	}
	return nil
}

func (m *memoryStore) GetMembers(_ context.Context, groupID int64) ([]*GroupMember, error) {
	return slices.Clone(m.members[groupID]), nil
}

func (m *memoryStore) IsMember(_ context.Context, groupID, userID int64) (bool, error) {
	return slices.Contains(MemberIDs(m.members[groupID]), userID), nil
}

func (m *memoryStore) CountExisting(_ context.Context, ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if m.users[id] {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) InTx(_ context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

func newTestService(userIDs ...int64) (*Service, *memoryStore) {
	store := newMemoryStore(userIDs...)
	return NewService(store, store, store), store
}

func recurringRequest(name string, memberIDs ...int64) *CreateGroupRequest {
	return &CreateGroupRequest{
		Name:         name,
		ScheduleType: "recurring",
		ScheduleDay:  intPtr(5),
		ScheduleTime: "20:00",
		MemberIDs:    memberIDs,
	}
}

func TestCreateOrdersCallerFirst(t *testing.T) {
	svc, _ := newTestService(1, 2, 3)

	detail, err := svc.Create(context.Background(), 2, recurringRequest("Friday Club", 3, 2, 1, 3))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	want := []int64{2, 3, 1}
	if got := MemberIDs(detail.Members); !slices.Equal(got, want) {
		t.Errorf("members = %v, want %v", got, want)
	}
	if detail.Group.Schedule != (Recurring{Day: time.Friday, Time: Clock{20, 0}}) {
		t.Errorf("schedule = %#v", detail.Group.Schedule)
	}
}

func TestCreateRejectsUnknownUsers(t *testing.T) {
	svc, _ := newTestService(1)

	_, err := svc.Create(context.Background(), 1, recurringRequest("Club", 42))
	if !errors.Is(err, ErrUnknownUsers) {
		t.Errorf("err = %v, want ErrUnknownUsers", err)
	}
}

func TestCreateRejectsInvalidSchedule(t *testing.T) {
	svc, _ := newTestService(1)

	req := recurringRequest("Club")
	req.ScheduleDay = nil
	if _, err := svc.Create(context.Background(), 1, req); !errors.Is(err, errInvalidSchedule) {
		t.Errorf("err = %v, want errInvalidSchedule", err)
	}
}

func TestGetAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(1, 2, 3)

	detail, err := svc.Create(ctx, 1, recurringRequest("Club", 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name    string
		caller  int64
		groupID int64
		wantErr error
	}{
		{"member", 2, detail.Group.ID, nil},
		{"non-member", 3, detail.Group.ID, ErrNotMember},
		{"missing group", 1, 999, ErrGroupNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Get(ctx, tt.caller, tt.groupID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Get err = %v, want %v", err, tt.wantErr)
			}
			if err := svc.Authorize(ctx, tt.caller, tt.groupID); !errors.Is(err, tt.wantErr) {
				t.Errorf("Authorize err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateMembershipKeepsOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(1, 2, 3, 4, 5)

	created, err := svc.Create(ctx, 1, recurringRequest("Club", 2, 3))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	detail, err := svc.Update(ctx, 1, created.Group.ID, &UpdateGroupRequest{MemberIDs: []int64{5, 3, 1, 4}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// 1 and 3 keep their slots; 5 and 4 join at the end in request order.
	want := []int64{1, 3, 5, 4}
	if got := MemberIDs(detail.Members); !slices.Equal(got, want) {
		t.Errorf("members = %v, want %v", got, want)
	}
}

func TestUpdateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(1, 2, 3)

	created, err := svc.Create(ctx, 1, recurringRequest("Club", 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	id := created.Group.ID

	tests := []struct {
		name    string
		caller  int64
		req     *UpdateGroupRequest
		wantErr error
	}{
		{"empty members", 1, &UpdateGroupRequest{MemberIDs: []int64{}}, ErrNoMembers},
		{"unknown member", 1, &UpdateGroupRequest{MemberIDs: []int64{1, 77}}, ErrUnknownUsers},
		{"non-member caller", 3, &UpdateGroupRequest{Name: strPtr("Mine now")}, ErrNotMember},
		{"switch to oneoff without date", 1, &UpdateGroupRequest{ScheduleType: strPtr("oneoff")}, errInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.caller, id, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	detail, err := svc.Get(ctx, 1, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.Group.Name != "Club" || len(detail.Members) != 2 {
		t.Errorf("rejected updates changed state: %+v", detail.Group)
	}
}

func TestUpdateSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(1)

	created, err := svc.Create(ctx, 1, recurringRequest("Club"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	date := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	detail, err := svc.Update(ctx, 1, created.Group.ID, &UpdateGroupRequest{
		Name:         strPtr("Holiday Special"),
		ScheduleType: strPtr("oneoff"),
		ScheduleDate: &date,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	want := OneOff{Date: date, Time: Clock{20, 0}}
	if detail.Group.Schedule != want {
		t.Errorf("schedule = %#v, want %#v", detail.Group.Schedule, want)
	}
	if detail.Group.Name != "Holiday Special" {
		t.Errorf("name = %q", detail.Group.Name)
	}
}

func TestDetailResponseResolvesProposer(t *testing.T) {
	members := []*GroupMember{{UserID: 10}, {UserID: 20}, {UserID: 30}}
	d := &Detail{
		Group:   &Group{ID: 1, Schedule: Recurring{Day: time.Monday, Time: Clock{18, 0}}, CurrentProposerIndex: 4},
		Members: members,
	}

	resp := d.ToResponse(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))
	if resp.CurrentProposerID == nil || *resp.CurrentProposerID != 20 {
		t.Errorf("currentProposerId = %v, want 20", resp.CurrentProposerID)
	}
	if resp.NextMovieNight == nil || *resp.NextMovieNight != "2026-10-19T18:00:00Z" {
		t.Errorf("nextMovieNight = %v", resp.NextMovieNight)
	}
}

func strPtr(s string) *string { return &s }
