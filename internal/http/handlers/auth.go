package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/employeehub/internal/config"
	"github.com/geocoder89/employeehub/internal/domain/user"
	"github.com/geocoder89/employeehub/internal/security"
	"github.com/geocoder89/employeehub/internal/validation"
	"github.com/gin-gonic/gin"
)

// Single-role model: every registered account operates as Admin. The
// insecure test endpoint can mint other roles, which then simply fail the
// role gate.
const DefaultRole = "Admin"

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username, passwordHash string) (user.User, error)
}

type TokenIssuer interface {
	GenerateToken(role, username string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

// GenerateToken mints a token asserting whatever role and username the
// caller asks for. A deliberate test affordance, not a security boundary;
// the route name says the rest.
func (h *AuthHandler) GenerateToken(ctx *gin.Context) {
	var req user.TokenRequest

	if !BindJSON(ctx, &req) {
		return
	}

	token, err := h.jwt.GenerateToken(req.Role, req.Username)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.String(http.StatusOK, token)
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// the uniqueness rule consults persisted users; the unique index is the
	// authoritative guard at insert time.
	usernameTaken := func(username string) bool {
		taken, err := h.users.UsernameExists(cctx, username)

		return err == nil && taken
	}

	if errs := req.Validate(usernameTaken); !errs.Empty() {
		RespondValidationFailed(ctx, errs)
		return
	}

	hash, err := security.HashPassword(*req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.users.Create(cctx, *req.Username, hash)

	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			// lost the race between pre-check and insert
			errs := validation.Errors{}
			errs.Add("Username", "Username already exists.")
			RespondValidationFailed(ctx, errs)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":       u.ID,
		"username": u.Username,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if errs := req.Validate(); !errs.Empty() {
		RespondValidationFailed(ctx, errs)
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, *req.Username)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, *req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Password is incorrect.")
		return
	}

	token, err := h.jwt.GenerateToken(DefaultRole, foundUser.Username)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.String(http.StatusOK, token)
}
