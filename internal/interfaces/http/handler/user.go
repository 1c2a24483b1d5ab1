package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xpro/backend/internal/application/identity"
)

// UserHandler handles account and profile HTTP requests
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func toProfileResponse(p *identity.ProfileResult) ProfileResponse {
	return ProfileResponse{
		User:          toAuthUserResponse(p.User),
		StreetAddress: p.StreetAddress,
		City:          p.City,
		State:         p.State,
		Country:       p.Country,
		PostalCode:    p.PostalCode,
		Company:       p.Company,
		JobTitle:      p.JobTitle,
		Industry:      p.Industry,
		CreatedAt:     p.CreatedAt,
	}
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} dto.Response{data=AuthUserResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), identity.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAuthUserResponse(*user))
}

// GetProfile godoc
// @Summary      Get the current user's profile
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProfileResponse(profile))
}

// UpdateProfile godoc
// @Summary      Update the current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), identity.UpdateProfileInput{
		UserID:   userID,
		Name:     req.Name,
		Company:  req.Company,
		JobTitle: req.JobTitle,
		Industry: req.Industry,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProfileResponse(profile))
}

// UpdateLegalAddress godoc
// @Summary      Update the current user's billing address
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateLegalAddressRequest true "Address fields"
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Security     BearerAuth
// @Router       /users/me/legal-address [put]
func (h *UserHandler) UpdateLegalAddress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateLegalAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.userService.UpdateLegalAddress(c.Request.Context(), identity.UpdateLegalAddressInput{
		UserID:        userID,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
		PostalCode:    req.PostalCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProfileResponse(profile))
}
