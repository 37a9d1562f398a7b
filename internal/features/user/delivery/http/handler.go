package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skillswap-backend/internal/common/middleware"
	"skillswap-backend/internal/features/user/models"
	"skillswap-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/current", h.getCurrentUser)
		users.POST("", h.createUser)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
	}
}

// @Summary Get current user
// @Description Returns the configured current user's full profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User "User data"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/current [get]
func (h *UserHandler) getCurrentUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Get user by ID
// @Description Returns a user's full profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User "User data"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) getUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Register a user
// @Description Creates a user with default points and empty skill lists
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserCreate true "User data"
// @Success 201 {object} models.User "Created user"
// @Failure 400 {object} map[string]string "Invalid user data"
// @Failure 409 {object} map[string]string "Username or email already taken"
// @Router /users [post]
func (h *UserHandler) createUser(c *gin.Context) {
	var input models.UserCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary Update user profile
// @Description Updates the profile fields of a user. Skill lists are replaced whole.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param updates body models.UserUpdate true "Profile updates"
// @Success 200 {object} models.User "Updated user"
// @Failure 400 {object} map[string]string "Invalid update data"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [put]
func (h *UserHandler) updateUser(c *gin.Context) {
	var input models.UserUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
