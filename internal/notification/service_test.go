package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fkhayef/movienight/pkg/middleware"
)

type memoryStore struct {
	notifications []*Notification
}

func (m *memoryStore) insert(drafts ...Draft) {
	for _, d := range drafts {
		m.notifications = append(m.notifications, &Notification{
			ID:          int64(len(m.notifications) + 1),
			RecipientID: d.RecipientID,
			Type:        d.Type,
			Message:     d.Message,
			GroupID:     d.GroupID,
			MovieID:     d.MovieID,
			CreatedAt:   time.Date(2026, 10, 1, 0, len(m.notifications), 0, 0, time.UTC),
		})
	}
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*Notification, error) {
	for _, n := range m.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) ListByRecipientID(_ context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	var matched []*Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) {
			matched = append(matched, n)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (m *memoryStore) MarkAsRead(_ context.Context, id int64) error {
	for _, n := range m.notifications {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memoryStore) MarkAllAsRead(_ context.Context, recipientID int64) error {
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memoryStore) GetUnreadCount(_ context.Context, recipientID int64) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func TestDrafts(t *testing.T) {
	turn := TurnStarted(7, 3, "Friday Club")
	if turn.Type != TypeTurnStarted || turn.RecipientID != 7 || *turn.GroupID != 3 {
		t.Errorf("TurnStarted = %+v", turn)
	}
	if !strings.Contains(turn.Message, "Friday Club") {
		t.Errorf("message = %q", turn.Message)
	}

	decided := MovieDecided([]int64{1, 2}, 3, "Friday Club", 9, "Heat")
	if len(decided) != 2 {
		t.Fatalf("got %d drafts, want 2", len(decided))
	}
	for _, d := range decided {
		if d.Type != TypeMovieDecided || *d.MovieID != 9 || !strings.Contains(d.Message, "Heat") {
			t.Errorf("MovieDecided draft = %+v", d)
		}
	}
}

func TestMarkAsRead(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	store.insert(TurnStarted(1, 1, "Club"))
	svc := NewService(store)

	if err := svc.MarkAsRead(ctx, 1, 2); !errors.Is(err, ErrNotRecipient) {
		t.Errorf("err = %v, want ErrNotRecipient", err)
	}
	if err := svc.MarkAsRead(ctx, 42, 1); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("err = %v, want ErrNotificationNotFound", err)
	}
	if err := svc.MarkAsRead(ctx, 1, 1); err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if count, _ := svc.GetUnreadCount(ctx, 1); count != 0 {
		t.Errorf("unread = %d, want 0", count)
	}
}

func TestHandlerListPaginates(t *testing.T) {
	store := &memoryStore{}
	for i := 0; i < 5; i++ {
		store.insert(TurnStarted(1, 1, "Club"))
	}
	store.insert(TurnStarted(2, 1, "Club"))
	router := middleware.DevUserHeader(NewHandler(NewService(store)).Routes())

	r := httptest.NewRequest(http.MethodGet, "/?page=2&per_page=2&unread=true", nil)
	r.Header.Set("X-Dev-User-ID", "1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var body struct {
		Data []NotificationResponse `json:"data"`
		Meta struct {
			Page       int `json:"page"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 || body.Meta.Page != 2 || body.Meta.Total != 5 || body.Meta.TotalPages != 3 {
		t.Errorf("got %d items, meta %+v", len(body.Data), body.Meta)
	}
	if body.Data[0].Type != TypeTurnStarted {
		t.Errorf("type = %q", body.Data[0].Type)
	}
}

func TestHandlerMarkAllAsRead(t *testing.T) {
	store := &memoryStore{}
	store.insert(TurnStarted(1, 1, "Club"), TurnStarted(1, 2, "Other"))
	router := middleware.DevUserHeader(NewHandler(NewService(store)).Routes())

	r := httptest.NewRequest(http.MethodPost, "/read-all", nil)
	r.Header.Set("X-Dev-User-ID", "1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/unread-count", nil)
	r.Header.Set("X-Dev-User-ID", "1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if !strings.Contains(w.Body.String(), `"unreadCount":0`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
