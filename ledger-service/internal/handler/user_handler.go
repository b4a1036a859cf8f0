package handler

import (
	"net/http"

	"github.com/Preet1920/finebookeasyaccounting/shared/cqrs"
	"github.com/Preet1920/finebookeasyaccounting/shared/middleware"
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/gin-gonic/gin"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	Register(cqrs.RegisterCommand) (*models.UserView, error)
	Login(cqrs.LoginCommand) (*models.SessionView, error)
	Logout()
	UpdateProfile(cqrs.UpdateProfileCommand) (*models.UserView, error)
	ChangePassword(cqrs.ChangePasswordCommand) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(cqrs.GetUserQuery) (*models.UserView, error)
	Session() *models.SessionView
}

// UserHandler handles authentication, session and profile requests.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindRequest(c, &req) {
		return
	}

	user, err := h.commands.Register(cqrs.RegisterCommand{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindRequest(c, &req) {
		return
	}

	session, err := h.commands.Login(cqrs.LoginCommand{Email: req.Email, Password: req.Password})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.commands.Logout()
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.Session())
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.queries.GetUser(cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if !bindRequest(c, &req) {
		return
	}

	user, err := h.commands.UpdateProfile(cqrs.UpdateProfileCommand{
		UserID:      userID,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req ChangePasswordRequest
	if !bindRequest(c, &req) {
		return
	}

	if err := h.commands.ChangePassword(cqrs.ChangePasswordCommand{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		respondWithLedgerError(c, err, "Failed to change password")
		return
	}

	c.Status(http.StatusNoContent)
}
