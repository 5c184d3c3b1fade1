package dto

import (
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
)

// SquadDTO represents a squad in API responses
type SquadDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code,omitempty"`
}

// SquadWithRoleDTO represents a squad with the user's role
type SquadWithRoleDTO struct {
	SquadDTO
	Role models.SquadRole `json:"role"`
}

// SquadMemberDTO represents a member in a squad
type SquadMemberDTO struct {
	User     UserDTO          `json:"user"`
	Role     models.SquadRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

// SquadDetailDTO represents detailed squad information
type SquadDetailDTO struct {
	SquadDTO
	Members   []SquadMemberDTO             `json:"members"`
	Templates []models.SquadCourseTemplate `json:"templates"`
	YourRole  models.SquadRole             `json:"your_role"`
}

// ToSquadDTO converts a Squad model to SquadDTO. The invite code is only
// included for the squad's leader.
func ToSquadDTO(squad models.Squad, includeInviteCode bool) SquadDTO {
	dto := SquadDTO{
		ID:   squad.ID,
		Name: squad.Name,
	}
	if includeInviteCode {
		dto.InviteCode = squad.InviteCode
	}
	return dto
}

// ToSquadWithRoleDTO converts a squad membership to DTO with role
func ToSquadWithRoleDTO(member models.SquadMember) SquadWithRoleDTO {
	return SquadWithRoleDTO{
		SquadDTO: ToSquadDTO(member.Squad, false),
		Role:     member.Role,
	}
}

// ToSquadMemberDTO converts a member to DTO
func ToSquadMemberDTO(member models.SquadMember) SquadMemberDTO {
	return SquadMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToSquadDetailDTO converts a squad with members and templates to a
// detailed DTO. The invite code is only included for the leader, who is
// the one managing it.
func ToSquadDetailDTO(squad models.Squad, members []models.SquadMember, templates []models.SquadCourseTemplate, yourRole models.SquadRole) SquadDetailDTO {
	memberDTOs := make([]SquadMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToSquadMemberDTO(member)
	}

	return SquadDetailDTO{
		SquadDTO:  ToSquadDTO(squad, yourRole == models.RoleLeader),
		Members:   memberDTOs,
		Templates: templates,
		YourRole:  yourRole,
	}
}
