package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fortexlabs/early-warning-api/api"
	"github.com/fortexlabs/early-warning-api/config"
	"github.com/fortexlabs/early-warning-api/databases"
	"github.com/fortexlabs/early-warning-api/models"
)

type signupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string             `json:"token"`
	User  models.UserDetails `json:"user"`
}

// Auth holds the user store and signing secret for the auth routes
type Auth struct {
	DB     databases.UserDatabase
	Secret []byte
}

// SignupHandler registers a new account
func (a Auth) SignupHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, errors.New("missing credentials"))
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	switch role {
	case models.RoleStudent, models.RoleDeptAdmin, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		config.ErrorStatus("unknown role", http.StatusBadRequest, w, errors.New(role))
		return
	}

	if _, err := a.DB.FindByEmail(r.Context(), email); err == nil {
		config.ErrorStatus("user already exists", http.StatusBadRequest, w, errors.New(email))
		return
	} else if !errors.Is(err, databases.ErrNotFound) {
		config.ErrorStatus("failed to check existing user", http.StatusInternalServerError, w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	user, err := a.DB.Create(r.Context(), models.User{
		Email:      email,
		Password:   string(hashed),
		Role:       role,
		Name:       req.Name,
		Department: req.Department,
	})
	if err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("user signed up",
		"userId", user.ID,
		"role", user.Role,
	)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.MessageResponse{Message: "Signup successful"})
}

// LoginHandler checks credentials and issues a bearer token
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := a.DB.FindByEmail(r.Context(), email)
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, errors.New("unknown email"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, errors.New("password mismatch"))
		return
	}

	token, err := api.NewToken(a.Secret, user.ID, user.Role)
	if err != nil {
		config.ErrorStatus("failed to sign token", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(loginResponse{Token: token, User: user.Details()})
}
