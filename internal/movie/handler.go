package movie

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/movienight/pkg/middleware"
	"github.com/fkhayef/movienight/pkg/request"
	"github.com/fkhayef/movienight/pkg/response"
)

// Watcher completes a movie night and rotates the group's proposer
type Watcher interface {
	MarkWatched(ctx context.Context, callerID, movieID int64, req *WatchRequest) (*Movie, error)
}

// Handler handles HTTP requests for movie operations
type Handler struct {
	service *Service
	watcher Watcher
}

// NewHandler creates a new movie handler
func NewHandler(service *Service, watcher Watcher) *Handler {
	return &Handler{service: service, watcher: watcher}
}

// Routes returns the router for movie endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/top-pick", h.TopPick)
	r.Get("/history", h.History)
	r.Patch("/{id}/rate", h.Rate)
	r.Patch("/{id}/watch", h.Watch)
	r.Delete("/{id}", h.Delete)

	return r
}

// List handles GET /movies
// @Summary      List candidate movies
// @Description  Unwatched movies proposed by the caller, their friends, or within their groups
// @Tags         movies
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]MovieResponse}
// @Router       /movies [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	movies, err := h.service.ListVisible(r.Context(), callerID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(movies))
}

// Create handles POST /movies
// @Summary      Propose a movie
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        request body CreateMovieRequest true "Proposal"
// @Success      201 {object} response.APIResponse{data=MovieResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /movies [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	var req CreateMovieRequest
	if err := request.Decode(r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	movie, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, movie.ToResponse())
}

// TopPick handles GET /movies/top-pick
// @Summary      Dashboard top pick
// @Description  Best rated visible movie; data is null when nothing has been rated
// @Tags         movies
// @Produce      json
// @Success      200 {object} response.APIResponse{data=TopPickResponse}
// @Router       /movies/top-pick [get]
func (h *Handler) TopPick(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	movie, score, err := h.service.TopPick(r.Context(), callerID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	if movie == nil {
		response.JSON(w, http.StatusOK, nil)
		return
	}

	response.JSON(w, http.StatusOK, &TopPickResponse{Movie: movie.ToResponse(), Score: score})
}

// History handles GET /movies/history
// @Summary      Watched movies of a group
// @Tags         movies
// @Produce      json
// @Param        groupId query int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]MovieResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /movies/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	groupID, err := request.QueryID(r, "groupId")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	movies, err := h.service.History(r.Context(), callerID, groupID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(movies))
}

// Rate handles PATCH /movies/{id}/rate
// @Summary      Rate a proposal
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        id path int true "Movie ID"
// @Param        request body RateRequest true "Interest score"
// @Success      200 {object} response.APIResponse{data=MovieResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /movies/{id}/rate [patch]
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	var req RateRequest
	if err := request.Decode(r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	movie, err := h.service.Rate(r.Context(), callerID, id, &req)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, movie.ToResponse())
}

// Watch handles PATCH /movies/{id}/watch
// @Summary      Mark a movie watched
// @Description  Completes the movie night and passes the turn to the next proposer
// @Tags         movies
// @Accept       json
// @Produce      json
// @Param        id path int true "Movie ID"
// @Param        request body WatchRequest false "Notes and rating"
// @Success      200 {object} response.APIResponse{data=MovieResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      503 {object} response.APIResponse
// @Router       /movies/{id}/watch [patch]
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	var req WatchRequest
	if r.ContentLength != 0 {
		if err := request.Decode(r, &req); err != nil {
			response.Fail(w, r, err)
			return
		}
	}

	movie, err := h.watcher.MarkWatched(r.Context(), callerID, id, &req)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, movie.ToResponse())
}

// Delete handles DELETE /movies/{id}
// @Summary      Withdraw a proposal
// @Tags         movies
// @Param        id path int true "Movie ID"
// @Success      204
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /movies/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.GetUserID(r.Context())

	id, err := request.IDParam(r, "id")
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), callerID, id); err != nil {
		response.Fail(w, r, err)
		return
	}

	response.NoContent(w)
}
