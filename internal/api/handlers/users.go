package handlers

import (
	"net/http"

	"job-board-api/internal/services"
	"job-board-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// UserHandler handles account registration, login and the current user.
type UserHandler struct {
	service   services.UserService
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{service: service, validator: validate}
}

// Register godoc
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body      dto.RegisterRequest true  "Account details"
// @Success      201  {object}  dto.UserResponse
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      409  {object}  map[string]string "Conflict - Email already registered"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) || !validate(c, h.validator, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, services.ToUserResponse(user))
}

// Login godoc
// @Summary      Exchange credentials for a bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials body dto.LoginRequest true "Email and password"
// @Success      200  {object}  dto.LoginResponse
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401  {object}  map[string]string "Invalid email or password"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) || !validate(c, h.validator, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      404  {object}  map[string]string "User Not Found"
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), &dto.GetUserByIDRequest{ID: userID})
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, services.ToUserResponse(user))
}
