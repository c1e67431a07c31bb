package domain

import "time"

type OwnerRole string

const (
	RoleSuperAdmin OwnerRole = "SuperAdmin"
	RoleAdmin      OwnerRole = "Admin"
	RoleModerator  OwnerRole = "Moderator"
)

type Permission string

const (
	PermManageOwners        Permission = "ManageOwners"
	PermManageGroups        Permission = "ManageGroups"
	PermManageUsers         Permission = "ManageUsers"
	PermModerateContent     Permission = "ModerateContent"
	PermViewAnalytics       Permission = "ViewAnalytics"
	PermSystemConfiguration Permission = "SystemConfiguration"
)

// Owner is a platform administrator keyed by principal.
type Owner struct {
	Principal   string       `json:"principal"`
	Name        string       `json:"name"`
	Role        OwnerRole    `json:"role"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	CreatedBy   string       `json:"created_by"`
}

func (o *Owner) HasPermission(p Permission) bool {
	for _, perm := range o.Permissions {
		if perm == p {
			return true
		}
	}

	return false
}

// Bootstrap owners are self-created and can never be removed.
func (o *Owner) IsBootstrap() bool {
	return o.Role == RoleSuperAdmin && o.Principal == o.CreatedBy
}

func AllPermissions() []Permission {
	return []Permission{
		PermManageOwners,
		PermManageGroups,
		PermManageUsers,
		PermModerateContent,
		PermViewAnalytics,
		PermSystemConfiguration,
	}
}

// DefaultPermissions is the permission set granted on admin-request
// approval for each role.
func DefaultPermissions(role OwnerRole) []Permission {
	switch role {
	case RoleSuperAdmin:
		return AllPermissions()
	case RoleAdmin:
		return []Permission{PermManageGroups, PermManageUsers, PermModerateContent, PermViewAnalytics}
	case RoleModerator:
		return []Permission{PermModerateContent, PermViewAnalytics}
	default:
		return nil
	}
}
