package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/server/middleware"
	"github.com/mamadbah2/bakehouse/internal/service/auth"
)

// AuthHandler serves registration, login and session endpoints.
type AuthHandler struct {
	svc          *auth.Service
	cookieMaxAge int // seconds
	production   bool
	logger       *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(svc *auth.Service, cookieMaxAge int, production bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, cookieMaxAge: cookieMaxAge, production: production, logger: logger}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Role      string `json:"role"`
	AdminCode string `json:"adminCode"`
}

// Register creates an account and opens a session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), auth.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Role:      req.Role,
		AdminCode: req.AdminCode,
	})
	if err != nil {
		respondError(c, h.logger, err, h.production)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user, "token": token})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Credential mismatches are 401, unlike ownership failures elsewhere.
		if errs.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}
		respondError(c, h.logger, err, h.production)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "token": token})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", h.production, true)
	respondMessage(c, http.StatusOK, "User logged out successfully")
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, h.cookieMaxAge, "/", "", h.production, true)
}
