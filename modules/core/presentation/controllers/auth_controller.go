package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/campusforge/placements/modules/core/domain/user"
	"github.com/campusforge/placements/modules/core/services"
	"github.com/campusforge/placements/pkg/application"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/configuration"
	"github.com/campusforge/placements/pkg/httpapi"
	"github.com/campusforge/placements/pkg/middleware"
)

type AuthController struct {
	app       application.Application
	auth      *services.AuthService
	jwtSecret string
	basePath  string
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:       app,
		auth:      app.Service(services.AuthService{}).(*services.AuthService),
		jwtSecret: configuration.Use().Auth.JWTSecret,
		basePath:  "/api/auth",
	}
}

func (c *AuthController) Key() string {
	return c.basePath
}

func (c *AuthController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath+"/login", c.Login).Methods(http.MethodPost)

	api := r.PathPrefix(c.basePath).Subrouter()
	api.Use(middleware.Authenticate(c.jwtSecret))
	api.HandleFunc("/me", c.Me).Methods(http.MethodGet)
	api.HandleFunc("/users", middleware.RequireAdmin(c.CreateUser)).Methods(http.MethodPost)
	api.HandleFunc("/users", middleware.RequireAdmin(c.ListUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", middleware.RequireAdmin(c.DeleteUser)).Methods(http.MethodDelete)
}

type userDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	FullName  string `json:"fullName"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toUserDTO(u user.User) userDTO {
	dto := userDTO{ID: u.ID, Username: u.Username, Role: u.Role, FullName: u.FullName}
	if !u.CreatedAt.IsZero() {
		dto.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var dto struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.Username == "" || dto.Password == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "AUTH_BAD_REQUEST", "username and password are required", nil)
		return
	}

	token, u, err := c.auth.Login(r.Context(), dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS", "invalid credentials", nil)
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("login failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserDTO(u),
	})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := composables.UseUser(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"user": userDTO{ID: actor.ID, Username: actor.Username, Role: actor.Role, FullName: actor.FullName},
	})
}

func (c *AuthController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.Username == "" || dto.Password == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "AUTH_BAD_REQUEST", "username and password required", nil)
		return
	}

	u, err := c.auth.CreateUser(r.Context(), dto.Username, dto.Password, dto.Role, dto.FullName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			_ = httpapi.WriteError(w, http.StatusBadRequest, "AUTH_INVALID_ROLE", "invalid role", nil)
		case errors.Is(err, user.ErrUsernameTaken):
			_ = httpapi.WriteError(w, http.StatusConflict, "USERNAME_TAKEN", "username already exists", nil)
		default:
			composables.UseLogger(r.Context()).WithError(err).Error("create user failed")
			_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		}
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toUserDTO(u))
}

func (c *AuthController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.auth.Users(r.Context())
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("list users failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *AuthController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := composables.UseUser(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required", nil)
		return
	}
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	if err := c.auth.DeleteUser(r.Context(), id, actor.ID); err != nil {
		if errors.Is(err, services.ErrSelfDelete) {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "AUTH_SELF_DELETE", "cannot delete yourself", nil)
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("delete user failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
