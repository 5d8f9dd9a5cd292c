package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/fkhayef/movienight/pkg/middleware"
	"github.com/fkhayef/movienight/pkg/request"
	"github.com/fkhayef/movienight/pkg/response"
)

// Handler handles HTTP requests for account and session operations
type Handler struct {
	service  *Service
	sessions sessions.Store
}

// NewHandler creates a new user handler with service dependency injected
func NewHandler(service *Service, store sessions.Store) *Handler {
	return &Handler{service: service, sessions: store}
}

// Routes returns the router for auth endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(middleware.RequireUser).Get("/me", h.Me)

	return r
}

// Register handles POST /auth/register
// @Summary      Register an account
// @Description  Create a user and start a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Account details"
// @Success      201 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	if err := middleware.Login(h.sessions, w, r, user.ID); err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, user.ToResponse())
}

// Login handles POST /auth/login
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := request.Decode(r, &req); err != nil {
		response.Fail(w, r, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), &req)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	if err := middleware.Login(h.sessions, w, r, user.ID); err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, user.ToResponse())
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := middleware.Logout(h.sessions, w, r); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// Me handles GET /auth/me
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, user.ToResponse())
}
