package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"coursehub/internal/httpx"
	"coursehub/internal/validate"
)

// UserRegistry is what the registration handler needs beyond UserSource.
type UserRegistry interface {
	FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
	Create(ctx context.Context, username, email, password string, role Role) (*User, error)
}

type Handler struct {
	Users   UserRegistry
	Service *Service
	Logger  *slog.Logger
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req validate.RegisterRequest
	if err := validate.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.Users.FindByEmailOrUsername(r.Context(), req.Email, req.Username)
	if err == nil {
		if existing.Email == req.Email {
			httpx.Error(w, http.StatusConflict, "An account with this email already exists.")
			return
		}
		httpx.Error(w, http.StatusConflict, "This username is already taken.")
		return
	}
	if !errors.Is(err, ErrUserNotFound) {
		h.Logger.Error("register pre-check", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.Users.Create(r.Context(), req.Username, req.Email, req.Password, Role(req.Role))
	if err != nil {
		// The unique indexes catch registrations that raced past the pre-check.
		switch {
		case errors.Is(err, ErrEmailTaken):
			httpx.Error(w, http.StatusConflict, "An account with this email already exists.")
		case errors.Is(err, ErrUsernameTaken):
			httpx.Error(w, http.StatusConflict, "This username is already taken.")
		default:
			h.Logger.Error("create user", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user": map[string]any{
			"email":    user.Email,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req validate.LoginRequest
	if err := validate.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.Service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			httpx.JSON(w, http.StatusBadRequest, map[string]string{
				"message": "Auth failed",
				"info":    "User not found",
			})
		case errors.Is(err, ErrInvalidPassword):
			httpx.JSON(w, http.StatusBadRequest, map[string]string{
				"message": "Auth failed",
				"info":    "Invalid password",
			})
		default:
			h.Logger.Error("login", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"token":   "Bearer " + token,
		"user": map[string]any{
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// Sessions are stateless; this only clears the client-side cookie hint.
	http.SetCookie(w, &http.Cookie{
		Name:    "token",
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req validate.PasswordUpdateRequest
	if err := validate.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		httpx.Error(w, http.StatusBadRequest, "Passwords do not match.")
		return
	}

	if err := h.Service.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPassword):
			httpx.Error(w, http.StatusBadRequest, "Invalid current password.")
		case errors.Is(err, ErrUserNotFound):
			httpx.Error(w, http.StatusNotFound, "User not found.")
		default:
			h.Logger.Error("update password", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully."})
}
