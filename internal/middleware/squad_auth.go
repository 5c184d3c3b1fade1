package middleware

import (
	"net/http"
	"strconv"

	"github.com/Bilal-Albezreh/sydekick-api/internal/database"
	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireSquadAccess checks if the user is a member of the squad
func RequireSquadAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get squad ID from URL parameter
		squadIDStr := c.Param("id")
		squadID, err := strconv.ParseUint(squadIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid squad ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var squad models.Squad
		if err := database.GetDB().First(&squad, squadID).Error; err != nil {
			apierrors.NotFound(c, "Squad not found")
			c.Abort()
			return
		}

		var member models.SquadMember
		err = database.GetDB().Where("squad_id = ? AND user_id = ?", squadID, userID).First(&member).Error
		if err != nil {
			// Return 404 instead of 403 to avoid leaking squad existence
			apierrors.NotFound(c, "Squad not found")
			c.Abort()
			return
		}

		c.Set("squad", squad)
		c.Set("squad_member", member)
		c.Next()
	}
}

// RequireSquadLeader checks if the user leads the squad
func RequireSquadLeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set by RequireSquadAccess
		memberInterface, exists := c.Get("squad_member")
		if !exists {
			apierrors.Forbidden(c, "Squad access required")
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.SquadMember)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Invalid squad member data"})
			c.Abort()
			return
		}

		if member.Role != models.RoleLeader {
			apierrors.Forbidden(c, "Only the squad leader can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
