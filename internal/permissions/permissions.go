// Package permissions implements the role-based authorization model as a single
// table-driven evaluator. Every mutation path in the service layer consults this
// package before touching the store; there is no other authorization code path.
package permissions

import (
	"strings"

	"github.com/campuscore/user-management/internal/models"
)

// Action identifies an operation an actor may attempt on a target user
type Action string

// Actions covered by the permission table
const (
	ActionViewUsers      Action = "VIEW_USERS"
	ActionCreateUser     Action = "CREATE_USER"
	ActionEditOwnProfile Action = "EDIT_OWN_PROFILE"
	ActionEditOtherUser  Action = "EDIT_OTHER_USER"
	ActionDeleteUser     Action = "DELETE_USER"
	ActionChangeRole     Action = "CHANGE_ROLE"
	ActionToggleStatus   Action = "TOGGLE_STATUS"
)

// rule decides a single (role, action) cell of the permission table.
// targetRole is the zero value where the action has no target.
type rule func(actorRole, targetRole models.Role, isSelf bool) bool

func allow(models.Role, models.Role, bool) bool { return true }

func targetIsStudent(_ models.Role, targetRole models.Role, _ bool) bool {
	return targetRole == models.RoleStudent
}

func self(_ models.Role, _ models.Role, isSelf bool) bool { return isSelf }

// permissionTable is the explicit decision table. A missing cell means deny.
// The matrix is not a strict total order (faculty has capabilities staff lacks,
// but neither is uniformly above the other), so roles are enumerated per action
// instead of ranked.
var permissionTable = map[models.Role]map[Action]rule{
	models.RoleAdmin: {
		ActionViewUsers:      allow,
		ActionCreateUser:     allow,
		ActionEditOwnProfile: self,
		ActionEditOtherUser:  allow,
		ActionDeleteUser:     allow,
		ActionChangeRole:     allow,
		ActionToggleStatus:   allow,
	},
	models.RoleFaculty: {
		ActionViewUsers:      allow,
		ActionCreateUser:     allow,
		ActionEditOwnProfile: self,
		ActionEditOtherUser:  targetIsStudent,
		ActionToggleStatus:   targetIsStudent,
	},
	models.RoleStaff: {
		ActionViewUsers:      allow,
		ActionEditOwnProfile: self,
	},
	models.RoleStudent: {
		ActionViewUsers:      allow,
		ActionEditOwnProfile: self,
	},
}

// CanPerform reports whether an actor with actorRole may perform action on a
// target with targetRole. isSelf must be true when the actor and the target are
// the same account. The function is pure: same inputs always yield the same
// answer, default deny.
func CanPerform(actorRole models.Role, action Action, targetRole models.Role, isSelf bool) bool {
	actions, ok := permissionTable[actorRole]
	if !ok {
		return false
	}
	r, ok := actions[action]
	if !ok {
		return false
	}
	return r(actorRole, targetRole, isSelf)
}

// visibleRoles is the scope predicate data for VIEW_USERS. Non-admin roles see a
// filtered set of accounts rather than an unconditional allow:
//   - admin sees everyone
//   - faculty sees faculty, staff and students (not admins)
//   - staff sees faculty only
//   - students see faculty and other students
var visibleRoles = map[models.Role][]models.Role{
	models.RoleAdmin:   {models.RoleAdmin, models.RoleFaculty, models.RoleStaff, models.RoleStudent},
	models.RoleFaculty: {models.RoleFaculty, models.RoleStaff, models.RoleStudent},
	models.RoleStaff:   {models.RoleFaculty},
	models.RoleStudent: {models.RoleFaculty, models.RoleStudent},
}

// VisibleTo reports whether an account with candidateRole falls inside the
// visibility scope of an actor with actorRole. It is applied to every listing
// and every single-record fetch, so a write against an invisible target can be
// reported as not found rather than forbidden.
func VisibleTo(actorRole, candidateRole models.Role) bool {
	for _, r := range visibleRoles[actorRole] {
		if r == candidateRole {
			return true
		}
	}
	return false
}

// VisibleRoles returns the set of roles the actor may see, in a stable order.
func VisibleRoles(actorRole models.Role) []models.Role {
	roles := visibleRoles[actorRole]
	out := make([]models.Role, len(roles))
	copy(out, roles)
	return out
}

// AssignableRoles returns the roles the actor may assign when creating a user.
// Admins may assign any role, faculty everything below admin, everyone else none.
func AssignableRoles(actorRole models.Role) []models.Role {
	switch actorRole {
	case models.RoleAdmin:
		return []models.Role{models.RoleAdmin, models.RoleFaculty, models.RoleStaff, models.RoleStudent}
	case models.RoleFaculty:
		return []models.Role{models.RoleFaculty, models.RoleStaff, models.RoleStudent}
	}
	return nil
}

// CanAssignRole reports whether the actor may assign the given role at creation time.
func CanAssignRole(actorRole, role models.Role) bool {
	for _, r := range AssignableRoles(actorRole) {
		if r == role {
			return true
		}
	}
	return false
}

// RoleLabel returns the human-readable label for a role.
func RoleLabel(role models.Role) string {
	if role == "" {
		return ""
	}
	s := string(role)
	return strings.ToUpper(s[:1]) + s[1:]
}
