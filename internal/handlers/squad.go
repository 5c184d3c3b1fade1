package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Bilal-Albezreh/sydekick-api/internal/dto"
	apierrors "github.com/Bilal-Albezreh/sydekick-api/internal/errors"
	"github.com/Bilal-Albezreh/sydekick-api/internal/middleware"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/Bilal-Albezreh/sydekick-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SquadHandler coordinates study group HTTP handlers.
type SquadHandler struct {
	squadService *services.SquadService
}

// NewSquadHandler creates a new SquadHandler.
func NewSquadHandler(squadService *services.SquadService) *SquadHandler {
	return &SquadHandler{
		squadService: squadService,
	}
}

// squadFromContext reads the squad and membership loaded by
// RequireSquadAccess.
func squadFromContext(c *gin.Context) (models.Squad, models.SquadMember, bool) {
	squadInterface, exists := c.Get("squad")
	if !exists {
		return models.Squad{}, models.SquadMember{}, false
	}
	memberInterface, exists := c.Get("squad_member")
	if !exists {
		return models.Squad{}, models.SquadMember{}, false
	}

	squad, ok := squadInterface.(models.Squad)
	if !ok {
		return models.Squad{}, models.SquadMember{}, false
	}
	member, ok := memberInterface.(models.SquadMember)
	if !ok {
		return models.Squad{}, models.SquadMember{}, false
	}
	return squad, member, true
}

// Create creates a squad with the caller as leader.
func (h *SquadHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateSquadRequest struct {
		Name string `json:"name" binding:"required,min=1,max=100"`
	}

	var req CreateSquadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	squad, err := h.squadService.Create(userID, req.Name)
	if err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "squad": dto.ToSquadDTO(*squad, true)})
}

// List returns the squads the caller belongs to.
func (h *SquadHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.squadService.ListForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list squads")
		return
	}

	squads := make([]dto.SquadWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		squads[i] = dto.ToSquadWithRoleDTO(membership)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "squads": squads})
}

// Join adds the caller to a squad behind an invite code and clones the
// squad's shared courses into their account.
func (h *SquadHandler) Join(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.squadService.Join(userID, req.InviteCode)
	if err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"squad":          dto.ToSquadDTO(*result.Squad, false),
		"cloned_courses": result.ClonedCourses,
	})
}

// Get returns a squad with its members and shared templates.
func (h *SquadHandler) Get(c *gin.Context) {
	squad, member, ok := squadFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Squad context missing")
		return
	}

	_, members, templates, err := h.squadService.GetDetail(squad.ID)
	if err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"squad":   dto.ToSquadDetailDTO(squad, members, templates, member.Role),
	})
}

// Update renames a squad. Leader only.
func (h *SquadHandler) Update(c *gin.Context) {
	squad, _, ok := squadFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Squad context missing")
		return
	}

	type UpdateSquadRequest struct {
		Name string `json:"name" binding:"required,min=1,max=100"`
	}

	var req UpdateSquadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.squadService.Rename(squad.ID, req.Name)
	if err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "squad": dto.ToSquadDTO(*updated, true)})
}

// Delete disbands a squad. Leader only.
func (h *SquadHandler) Delete(c *gin.Context) {
	squad, _, ok := squadFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Squad context missing")
		return
	}

	if err := h.squadService.Delete(squad.ID); err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Squad deleted successfully"})
}

// RegenerateCode replaces the invite code. Leader only.
func (h *SquadHandler) RegenerateCode(c *gin.Context) {
	squad, _, ok := squadFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Squad context missing")
		return
	}

	updated, err := h.squadService.RegenerateInviteCode(squad.ID)
	if err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "squad": dto.ToSquadDTO(*updated, true)})
}

// RemoveMember kicks a member out. Leader only.
func (h *SquadHandler) RemoveMember(c *gin.Context) {
	squad, _, ok := squadFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Squad context missing")
		return
	}

	memberUserID, err := strconv.ParseUint(c.Param("userID"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.squadService.RemoveMember(squad.ID, memberUserID); err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member removed"})
}

// Leave removes the caller from a squad.
func (h *SquadHandler) Leave(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	squad, _, ok := squadFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Squad context missing")
		return
	}

	if err := h.squadService.Leave(userID, squad.ID); err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Left squad successfully"})
}

// ShareCourse snapshots one of the leader's courses as a squad template.
func (h *SquadHandler) ShareCourse(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	squad, _, ok := squadFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Squad context missing")
		return
	}

	type ShareCourseRequest struct {
		CourseID uint64 `json:"course_id" binding:"required"`
	}

	var req ShareCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	template, err := h.squadService.ShareCourse(userID, squad.ID, req.CourseID)
	if err != nil {
		respondSquadError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "template": template})
}

func respondSquadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSquadNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTemplateFromOther):
		apierrors.NotFound(c, "Course not found")
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSquadNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrLeaderCannotLeave),
		errors.Is(err, services.ErrCannotRemoveLeader):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotSquadMember):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
