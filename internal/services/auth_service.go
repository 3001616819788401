package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/dedovbet/backend/internal/cache"
	"github.com/dedovbet/backend/internal/middleware"
	"github.com/dedovbet/backend/internal/models"
	"github.com/dedovbet/backend/internal/store"
)

// AuthService handles registration and login against the user store.
type AuthService struct {
	store     *store.UserStore
	cache     *cache.SessionCache
	validator *validator.Validate
}

func NewAuthService(st *store.UserStore, sc *cache.SessionCache) *AuthService {
	return &AuthService{
		store:     st,
		cache:     sc,
		validator: validator.New(),
	}
}

// RegisterRequest is the registration payload
// @Description Registration request structure
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3" example:"highroller"`
	Email       string `json:"email" validate:"required,email" example:"user@example.com"`
	Password    string `json:"password" validate:"required,min=6" example:"password123"`
	Name        string `json:"name,omitempty" example:"John"`
	Surname     string `json:"surname,omitempty" example:"Doe"`
	DateOfBirth string `json:"dateOfBirth,omitempty" example:"1990-04-12"`
	Nationality string `json:"nationality,omitempty" example:"Latvian"`
}

// LoginRequest is the login payload, accepting username or email
// @Description Login request structure
type LoginRequest struct {
	LoginInput string `json:"loginInput" validate:"required" example:"highroller"`
	Password   string `json:"password" validate:"required" example:"password123"`
}

// AuthResponse is returned on successful registration or login
// @Description Authentication response structure
type AuthResponse struct {
	Success bool                 `json:"success"`
	User    models.PublicAccount `json:"user"`
	Token   string               `json:"token,omitempty"`
}

// Register handles account creation
// @Summary Register a new user
// @Description Create an account with the starting balance
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 200 {object} AuthResponse "Registration successful"
// @Failure 400 {object} APIError "Invalid request"
// @Router /api/register [post]
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Registration attempt from IP: %s", r.RemoteAddr)

	var req RegisterRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[AUTH] Registration validation failed: %v", err)
		RespondError(w, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	account, err := s.store.CreateAccount(store.CreateAccountParams{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Surname:     req.Surname,
		DateOfBirth: req.DateOfBirth,
		Nationality: req.Nationality,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			RespondError(w, http.StatusBadRequest, "Email already registered!")
		case errors.Is(err, store.ErrDuplicateUsername):
			RespondError(w, http.StatusBadRequest, "Username already taken!")
		case errors.Is(err, store.ErrMissingField):
			RespondError(w, http.StatusBadRequest, "Username, email and password are required")
		default:
			log.Printf("[AUTH] Registration failed for %s: %v", req.Username, err)
			RespondError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	token, err := generateToken(account.Username)
	if err != nil {
		log.Printf("[AUTH] Token generation failed for %s: %v", account.Username, err)
		RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.cacheSnapshot(r.Context(), account.Public())

	log.Printf("[AUTH] User registered successfully: %s", account.Username)
	RespondJSON(w, http.StatusOK, AuthResponse{Success: true, User: account.Public(), Token: token})
}

// Login handles authentication by username or email
// @Summary Login user
// @Description Authenticate with username or email plus password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse "Login successful"
// @Failure 400 {object} APIError "Invalid credentials"
// @Router /api/login [post]
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Login attempt from IP: %s", r.RemoteAddr)

	var req LoginRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if req.LoginInput == "" {
		RespondError(w, http.StatusBadRequest, "Username or email is required")
		return
	}
	if req.Password == "" {
		RespondError(w, http.StatusBadRequest, "Password is required")
		return
	}

	account, err := s.store.Authenticate(req.LoginInput, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrLoginTooShort):
			RespondError(w, http.StatusBadRequest, "Username must be at least 3 characters long")
		case errors.Is(err, store.ErrNotFound):
			log.Printf("[AUTH] User not found for login input: %s", req.LoginInput)
			RespondError(w, http.StatusBadRequest, "Email or username not found")
		case errors.Is(err, store.ErrBadPassword):
			log.Printf("[AUTH] Invalid password for: %s", req.LoginInput)
			RespondError(w, http.StatusBadRequest, "Incorrect password")
		default:
			log.Printf("[AUTH] Login failed for %s: %v", req.LoginInput, err)
			RespondError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	token, err := generateToken(account.Username)
	if err != nil {
		log.Printf("[AUTH] Token generation failed for %s: %v", account.Username, err)
		RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.cacheSnapshot(r.Context(), account.Public())

	log.Printf("[AUTH] Login successful for %s", account.Username)
	RespondJSON(w, http.StatusOK, AuthResponse{Success: true, User: account.Public(), Token: token})
}

// GetAccount returns the authenticated user's account snapshot
// @Summary Get account details
// @Description Get the authenticated user's account information
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthResponse "Account details"
// @Failure 401 {object} APIError "Unauthorized"
// @Failure 404 {object} APIError "User not found"
// @Router /api/account [get]
func (s *AuthService) GetAccount(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, err := s.store.Get(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("[AUTH] Failed to fetch account for %s: %v", username, err)
		RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	RespondJSON(w, http.StatusOK, AuthResponse{Success: true, User: account.Public()})
}

func (s *AuthService) cacheSnapshot(ctx context.Context, account models.PublicAccount) {
	if err := s.cache.PutAccount(ctx, account); err != nil {
		log.Printf("[AUTH] Failed to cache account snapshot for %s: %v", account.Username, err)
	}
}

func generateToken(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour).Unix(),
	})
	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}
