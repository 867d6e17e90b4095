// controller/user_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	"github.com/dev-mohitbeniwal/keystone/middleware"
	"github.com/dev-mohitbeniwal/keystone/model"
	"github.com/dev-mohitbeniwal/keystone/service"
	"github.com/dev-mohitbeniwal/keystone/util"
	helper_util "github.com/dev-mohitbeniwal/keystone/util/helper"
)

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RegisterRoutes registers the user routes together with the role each one
// requires.
func (uc *UserController) RegisterRoutes(r *middleware.Routes) {
	users := r.Group("/users")
	{
		users.POST("/register", "", uc.Register)
		users.POST("/login", "", uc.Login)
		users.POST("/logout", model.UserRole.Value, uc.Logout)
		users.GET("/me", model.UserRole.Value, uc.Me)
		users.GET("/:id", model.AdminRole.Value, uc.GetUser)
		users.GET("", model.AdminRole.Value, uc.ListUsers)
		users.PUT("/:id/role", model.AdminRole.Value, uc.UpdateRole)
		users.POST("/delete", model.AdminRole.Value, uc.DeleteUser)
	}
}

// Register endpoint
func (uc *UserController) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid registration data", err)
		return
	}

	user, err := uc.userService.Register(c.Request.Context(), req)
	if err != nil {
		util.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login endpoint
func (uc *UserController) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid login data", err)
		return
	}

	resp, err := uc.userService.Login(c.Request.Context(), req)
	if err != nil {
		util.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout endpoint
func (uc *UserController) Logout(c *gin.Context) {
	if err := uc.userService.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		util.RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me returns the current caller's user record
func (uc *UserController) Me(c *gin.Context) {
	caller := middleware.Caller(c)
	if caller == nil {
		util.RespondWithDomainError(c, keystone_errors.ErrNotLoggedIn)
		return
	}
	uc.respondWithUser(c, caller.ID)
}

// GetUser reads any user by id. Callers reach their own record through Me.
func (uc *UserController) GetUser(c *gin.Context) {
	uc.respondWithUser(c, c.Param("id"))
}

func (uc *UserController) respondWithUser(c *gin.Context, userID string) {
	user, err := uc.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		util.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers endpoint
func (uc *UserController) ListUsers(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	users, err := uc.userService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		util.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateRole endpoint
func (uc *UserController) UpdateRole(c *gin.Context) {
	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role data", err)
		return
	}

	user, err := uc.userService.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		util.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser endpoint
func (uc *UserController) DeleteUser(c *gin.Context) {
	var req model.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid delete request", err)
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), req.ID); err != nil {
		util.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
