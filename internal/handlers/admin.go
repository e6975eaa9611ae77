package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tvhoang/workunit-api/internal/dto"
	apierrors "github.com/tvhoang/workunit-api/internal/errors"
	"github.com/tvhoang/workunit-api/internal/middleware"
	"github.com/tvhoang/workunit-api/internal/services"
)

// AdminHandler covers the administrator surface: the personnel roster and
// password resets.
type AdminHandler struct {
	rosterService *services.RosterService
	authService   *services.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(rosterService *services.RosterService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		rosterService: rosterService,
		authService:   authService,
	}
}

// ListUsers returns the users visible to the actor. Admin sees everyone;
// the route is also used by unit leads to populate staff pickers.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.rosterService.ListVisible(actor)
	if err != nil {
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
	})
}

// ImportRoster replaces the personnel list with an uploaded spreadsheet.
func (h *AdminHandler) ImportRoster(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A spreadsheet file is required")
		return
	}

	f, err := file.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer f.Close()

	count, err := h.rosterService.ImportRoster(f)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnreadableWorkbook),
			errors.Is(err, services.ErrEmptyRoster):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to import roster")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported": count,
	})
}

// ResetUserPassword puts a user back on the default password.
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	user, err := h.authService.ResetPassword(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
