package transport

import (
	"net/http"

	"honey-shop/internal/domain"
	"honey-shop/internal/middleware"
	"honey-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CredentialsRequest is the body of login, register and create-admin
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// RegisterResponse represents the bootstrap registration response
type RegisterResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserProfile `json:"user"`
}

// CreateAdminResponse represents the create-admin response
type CreateAdminResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

// UserProfile is the public view of an administrator
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  user.Role,
	}
}

// AuthHandler handles HTTP requests for administrator authentication
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth routes. Login and register go through
// rateLimit; create-admin requires an authenticated admin.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, requireAdmin)
			r.Post("/create-admin", h.CreateAdmin)
		})
	})
}

// Login handles administrator authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Admin logged in", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  newUserProfile(user),
	})
}

// Register creates the first administrator while none exists
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	token, user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Registration rejected", zap.Error(err))
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Bootstrap admin registered", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, RegisterResponse{
		Message: "admin registered successfully",
		Token:   token,
		User:    newUserProfile(user),
	})
}

// CreateAdmin adds another administrator
func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	user, err := h.authService.CreateAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	createdBy, _ := middleware.GetUserEmail(r.Context())
	h.logger.Info("Admin created",
		zap.String("user_id", user.ID.String()),
		zap.String("created_by", createdBy),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, CreateAdminResponse{
		Message: "admin created successfully",
		User:    newUserProfile(user),
	})
}
