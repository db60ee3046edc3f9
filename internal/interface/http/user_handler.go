package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-users-api/internal/application"
	"github.com/oksasatya/go-users-api/internal/domain/entity"
	"github.com/oksasatya/go-users-api/internal/domain/repository"
	"github.com/oksasatya/go-users-api/internal/interface/middleware"
	"github.com/oksasatya/go-users-api/pkg/response"
	"github.com/oksasatya/go-users-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,pwd"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser *bool  `json:"is_superuser"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Username    *string `json:"username"`
	Password    *string `json:"password" binding:"omitempty,pwd"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWithFields(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := userapp.RegisterInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		IsActive:    true,
		IsSuperuser: false,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}
	if req.IsSuperuser != nil {
		in.IsSuperuser = *req.IsSuperuser
	}
	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			response.Err(c, http.StatusBadRequest, "email or username already registered")
			return
		}
		h.fail(c, "register failed", err)
		return
	}
	response.JSON(c, http.StatusCreated, toUserResponse(u))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWithFields(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	tok, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrInvalidCredentials):
			response.Err(c, http.StatusUnauthorized, "incorrect email or password")
		case errors.Is(err, userapp.ErrInactiveUser):
			response.Err(c, http.StatusBadRequest, "inactive user")
		default:
			h.fail(c, "login failed", err)
		}
		return
	}
	response.JSON(c, http.StatusOK, tokenResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType})
}

// Me returns the record of the token's subject. The row can vanish
// between token issuance and this call, hence the 404 branch.
func (h *UserHandler) Me(c *gin.Context) {
	email := c.GetString(middleware.CtxUserEmailKey)
	u, err := h.Svc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Err(c, http.StatusNotFound, "user not found")
			return
		}
		h.fail(c, "get current user failed", err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) List(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		response.Err(c, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil || limit < 0 {
		response.Err(c, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	users, err := h.Svc.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		h.fail(c, "list users failed", err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Err(c, http.StatusNotFound, "user not found")
			return
		}
		h.fail(c, "get user failed", err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrWithFields(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), id, userapp.UpdateInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Err(c, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrDuplicate):
			response.Err(c, http.StatusBadRequest, "email or username already exists")
		default:
			h.fail(c, "update user failed", err)
		}
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	removed, err := h.Svc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "delete user failed", err)
		return
	}
	if !removed {
		response.Err(c, http.StatusNotFound, "user not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID validates the {id} path parameter. A string that cannot be a
// UUID cannot name an existing row, so it gets the same 404 as a miss.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Err(c, http.StatusNotFound, "user not found")
		return "", false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (h *UserHandler) fail(c *gin.Context, msg string, err error) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
	}
	response.Err(c, http.StatusInternalServerError, "internal server error")
}
