package domain

import "time"

type GroupPermission string

const (
	GroupPermManageMembers      GroupPermission = "ManageMembers"
	GroupPermModerateContent    GroupPermission = "ModerateContent"
	GroupPermManageEvents       GroupPermission = "ManageEvents"
	GroupPermConfigureGroup     GroupPermission = "ConfigureGroup"
	GroupPermViewGroupAnalytics GroupPermission = "ViewGroupAnalytics"
)

// GroupAdmin delegates moderation of a single group to a principal,
// keyed by (group_id, principal).
type GroupAdmin struct {
	GroupID     uint64            `json:"group_id"`
	Principal   string            `json:"principal"`
	Name        string            `json:"name"`
	Permissions []GroupPermission `json:"permissions"`
	AddedAt     time.Time         `json:"added_at"`
	AddedBy     string            `json:"added_by"`
}

func (g *GroupAdmin) HasPermission(p GroupPermission) bool {
	for _, perm := range g.Permissions {
		if perm == p {
			return true
		}
	}

	return false
}

func ValidGroupPermission(p GroupPermission) bool {
	switch p {
	case GroupPermManageMembers, GroupPermModerateContent, GroupPermManageEvents,
		GroupPermConfigureGroup, GroupPermViewGroupAnalytics:
		return true
	}

	return false
}
