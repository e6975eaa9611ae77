package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/tvhoang/workunit-api/internal/errors"
	"github.com/tvhoang/workunit-api/internal/models"
	"github.com/tvhoang/workunit-api/internal/repository"
)

const contextKeyActor = "actor"

// LoadActor resolves the session user ID into a full user record and stores
// it in the request context. Must run after RequireAuth.
func LoadActor(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			// Session points at a deleted account, e.g. after a roster import.
			apierrors.Unauthorized(c, "Account no longer exists")
			c.Abort()
			return
		}

		c.Set(contextKeyActor, *user)
		c.Next()
	}
}

// GetActor retrieves the resolved user record from context
func GetActor(c *gin.Context) (models.User, bool) {
	actorInterface, exists := c.Get(contextKeyActor)
	if !exists {
		return models.User{}, false
	}

	actor, ok := actorInterface.(models.User)
	return actor, ok
}

// RequireAdmin rejects requests from non-admin actors. Must run after
// LoadActor.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !actor.IsAdmin() {
			apierrors.Forbidden(c, "Administrator access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
