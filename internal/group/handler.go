package group

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/movienight/internal/decision"
	"github.com/fkhayef/movienight/pkg/middleware"
	"github.com/fkhayef/movienight/pkg/request"
	"github.com/fkhayef/movienight/pkg/response"
)

// Decider owns the group decision state transitions
type Decider interface {
	SetDecision(ctx context.Context, callerID, groupID int64, movieID *int64) (*Detail, error)
	AutoDecide(ctx context.Context, callerID, groupID int64) (*Detail, *decision.Ranked, error)
	Ranking(ctx context.Context, callerID, groupID int64) ([]decision.Ranked, error)
}

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
	decider Decider
	now     func() time.Time
}

// NewHandler creates a new group handler
func NewHandler(service *Service, decider Decider) *Handler {
	return &Handler{service: service, decider: decider, now: time.Now}
}

// Routes returns the router for group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)

	// Decision state
	r.Patch("/{id}/decide", h.Decide)
	r.Post("/{id}/decide", h.AutoDecide)
	r.Get("/{id}/candidates", h.Candidates)

	return r
}

// Create handles POST /groups
// @Summary      Create a new group
// @Description  Create a group with the caller as its first member
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	var req CreateGroupRequest
	if err := request.Decode(r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	detail, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, detail.ToResponse(h.now()))
}

// List handles GET /groups
// @Summary      List my groups
// @Tags         groups
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	groups, err := h.service.ListForUser(r.Context(), callerID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	now := h.now()
	groupResponses := make([]*GroupResponse, len(groups))
	for i, group := range groups {
		groupResponses[i] = group.ToResponse(now)
	}

	response.JSON(w, http.StatusOK, groupResponses)
}

// GetByID handles GET /groups/{id}
// @Summary      Get group by ID
// @Description  Get a group with its members and decided movie
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	detail, err := h.service.Get(r.Context(), callerID, id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, detail.ToResponse(h.now()))
}

// Update handles PATCH /groups/{id}
// @Summary      Update a group
// @Description  Change name, schedule or membership. memberIds replaces the member list.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body UpdateGroupRequest true "Group update request"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	var req UpdateGroupRequest
	if err := request.Decode(r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	detail, err := h.service.Update(r.Context(), callerID, id, &req)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, detail.ToResponse(h.now()))
}

// Decide handles PATCH /groups/{id}/decide
// @Summary      Set or clear the decided movie
// @Description  movieId is required; null clears the decision
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body DecideRequest true "Decision"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/decide [patch]
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	var req DecideRequest
	if err := request.Decode(r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}
	if !req.MovieID.Set {
		response.Fail(w, r, request.ErrInvalidRequest.WithField("movieId", "is required"))
		return
	}

	detail, err := h.decider.SetDecision(r.Context(), callerID, id, req.MovieID.Value)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, detail.ToResponse(h.now()))
}

// AutoDecide handles POST /groups/{id}/decide
// @Summary      Let the group pick a movie
// @Description  Score the group's unwatched proposals and store the best one
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=AutoDecideResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/decide [post]
func (h *Handler) AutoDecide(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	detail, picked, err := h.decider.AutoDecide(r.Context(), callerID, id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &AutoDecideResponse{
		Group:    detail.ToResponse(h.now()),
		Decision: picked,
	})
}

// Candidates handles GET /groups/{id}/candidates
// @Summary      Ranked decision candidates
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]decision.Ranked}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/candidates [get]
func (h *Handler) Candidates(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	ranked, err := h.decider.Ranking(r.Context(), callerID, id)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if ranked == nil {
		ranked = []decision.Ranked{}
	}

	response.JSON(w, http.StatusOK, ranked)
}
