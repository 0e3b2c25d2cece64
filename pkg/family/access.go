package family

import (
	"strings"

	"github.com/matzehuels/familytree/pkg/errors"
)

// Role is a user's access level on a shared tree.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleOwner:  3,
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRank[r]; !ok {
		return "", errors.New(errors.ErrCodeInvalidRole, "unknown role %q (must be one of: owner, editor, viewer)", s)
	}
	return r, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// CanView reports whether the role may read the tree.
func (r Role) CanView() bool { return roleRank[r] >= roleRank[RoleViewer] }

// CanEdit reports whether the role may change persons and relations.
func (r Role) CanEdit() bool { return roleRank[r] >= roleRank[RoleEditor] }

// CanManage reports whether the role may share, unshare and delete the tree.
func (r Role) CanManage() bool { return r == RoleOwner }

// Member grants a user a role on a tree.
type Member struct {
	UserID string `json:"user_id" bson:"user_id"`
	Role   Role   `json:"role" bson:"role"`
}

// RoleOf returns the role of userID among members, or "" if absent.
func RoleOf(members []Member, userID string) Role {
	for _, m := range members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return ""
}
