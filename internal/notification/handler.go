package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/movienight/pkg/middleware"
	"github.com/fkhayef/movienight/pkg/request"
	"github.com/fkhayef/movienight/pkg/response"
)

// Handler handles HTTP requests for notification operations
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/unread-count", h.GetUnreadCount)
	r.Patch("/{id}/read", h.MarkAsRead)
	r.Post("/read-all", h.MarkAllAsRead)

	return r
}

// NotificationResponse represents the response for a notification
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Type      Type   `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	GroupID   *int64 `json:"groupId,omitempty"`
	MovieID   *int64 `json:"movieId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// UnreadCountResponse is the unread badge count
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

func toResponse(n *Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		IsRead:    n.IsRead,
		GroupID:   n.GroupID,
		MovieID:   n.MovieID,
		CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// List handles GET /notifications
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Param        unread query bool false "Only unread notifications"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]NotificationResponse}
// @Router       /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	page, perPage := request.Page(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, total, err := h.service.ListByRecipientID(r.Context(), userID, page, perPage, unreadOnly)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	notificationResponses := make([]*NotificationResponse, len(notifications))
	for i, n := range notifications {
		notificationResponses[i] = toResponse(n)
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, notificationResponses, meta)
}

// GetUnreadCount handles GET /notifications/unread-count
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UnreadCountResponse}
// @Router       /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	count, err := h.service.GetUnreadCount(r.Context(), userID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead handles PATCH /notifications/{id}/read
// @Summary      Mark a notification read
// @Tags         notifications
// @Param        id path int true "Notification ID"
// @Success      204
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	if err := h.service.MarkAsRead(r.Context(), id, userID); err != nil {
		response.Fail(w, r, err)
		return
	}

	response.NoContent(w)
}

// MarkAllAsRead handles POST /notifications/read-all
// @Summary      Mark all notifications read
// @Tags         notifications
// @Success      204
// @Router       /notifications/read-all [post]
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.service.MarkAllAsRead(r.Context(), userID); err != nil {
		response.Fail(w, r, err)
		return
	}

	response.NoContent(w)
}
