package permissions

import (
	"testing"

	"github.com/campuscore/user-management/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanPerform_Admin(t *testing.T) {
	// Admin can perform every action in the table against any target
	targets := []models.Role{models.RoleAdmin, models.RoleFaculty, models.RoleStaff, models.RoleStudent}
	actions := []Action{
		ActionViewUsers,
		ActionCreateUser,
		ActionEditOtherUser,
		ActionDeleteUser,
		ActionChangeRole,
		ActionToggleStatus,
	}

	for _, action := range actions {
		for _, target := range targets {
			assert.True(t, CanPerform(models.RoleAdmin, action, target, false),
				"admin should be allowed %s on %s", action, target)
		}
	}

	assert.True(t, CanPerform(models.RoleAdmin, ActionEditOwnProfile, models.RoleAdmin, true))
	assert.False(t, CanPerform(models.RoleAdmin, ActionEditOwnProfile, models.RoleAdmin, false))
}

func TestCanPerform_Faculty(t *testing.T) {
	tests := []struct {
		name       string
		action     Action
		targetRole models.Role
		isSelf     bool
		expected   bool
	}{
		{"view users", ActionViewUsers, "", false, true},
		{"create user", ActionCreateUser, "", false, true},
		{"edit own profile", ActionEditOwnProfile, models.RoleFaculty, true, true},
		{"edit other student", ActionEditOtherUser, models.RoleStudent, false, true},
		{"edit other faculty", ActionEditOtherUser, models.RoleFaculty, false, false},
		{"edit other staff", ActionEditOtherUser, models.RoleStaff, false, false},
		{"edit other admin", ActionEditOtherUser, models.RoleAdmin, false, false},
		{"delete user", ActionDeleteUser, models.RoleStudent, false, false},
		{"change role", ActionChangeRole, models.RoleStudent, false, false},
		{"toggle student status", ActionToggleStatus, models.RoleStudent, false, true},
		{"toggle faculty status", ActionToggleStatus, models.RoleFaculty, false, false},
		{"toggle staff status", ActionToggleStatus, models.RoleStaff, false, false},
		{"toggle admin status", ActionToggleStatus, models.RoleAdmin, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanPerform(models.RoleFaculty, tt.action, tt.targetRole, tt.isSelf))
		})
	}
}

func TestCanPerform_StaffAndStudent(t *testing.T) {
	// Staff and students can only view (scoped) and edit their own profile
	for _, actor := range []models.Role{models.RoleStaff, models.RoleStudent} {
		assert.True(t, CanPerform(actor, ActionViewUsers, "", false))
		assert.True(t, CanPerform(actor, ActionEditOwnProfile, actor, true))

		denied := []Action{
			ActionCreateUser,
			ActionEditOtherUser,
			ActionDeleteUser,
			ActionChangeRole,
			ActionToggleStatus,
		}
		for _, action := range denied {
			for _, target := range models.AllRoles {
				assert.False(t, CanPerform(actor, action, target, false),
					"%s should be denied %s on %s", actor, action, target)
			}
		}
	}
}

func TestCanPerform_UnknownRole(t *testing.T) {
	assert.False(t, CanPerform("superuser", ActionViewUsers, "", false))
	assert.False(t, CanPerform("", ActionDeleteUser, models.RoleStudent, false))
}

func TestCanPerform_UnknownAction(t *testing.T) {
	assert.False(t, CanPerform(models.RoleAdmin, Action("EXPORT_USERS"), "", false))
}

func TestCanPerform_IsPure(t *testing.T) {
	// Same inputs always yield the same answer
	for i := 0; i < 3; i++ {
		assert.True(t, CanPerform(models.RoleFaculty, ActionToggleStatus, models.RoleStudent, false))
		assert.False(t, CanPerform(models.RoleStaff, ActionToggleStatus, models.RoleStudent, false))
	}
}

func TestVisibleTo(t *testing.T) {
	tests := []struct {
		actor   models.Role
		visible []models.Role
		hidden  []models.Role
	}{
		{models.RoleAdmin, models.AllRoles, nil},
		{models.RoleFaculty, []models.Role{models.RoleFaculty, models.RoleStaff, models.RoleStudent}, []models.Role{models.RoleAdmin}},
		{models.RoleStaff, []models.Role{models.RoleFaculty}, []models.Role{models.RoleAdmin, models.RoleStaff, models.RoleStudent}},
		{models.RoleStudent, []models.Role{models.RoleFaculty, models.RoleStudent}, []models.Role{models.RoleAdmin, models.RoleStaff}},
	}

	for _, tt := range tests {
		t.Run(string(tt.actor), func(t *testing.T) {
			for _, candidate := range tt.visible {
				assert.True(t, VisibleTo(tt.actor, candidate), "%s should see %s", tt.actor, candidate)
			}
			for _, candidate := range tt.hidden {
				assert.False(t, VisibleTo(tt.actor, candidate), "%s should not see %s", tt.actor, candidate)
			}
		})
	}
}

func TestAssignableRoles(t *testing.T) {
	assert.Equal(t, models.AllRoles, AssignableRoles(models.RoleAdmin))
	assert.Equal(t,
		[]models.Role{models.RoleFaculty, models.RoleStaff, models.RoleStudent},
		AssignableRoles(models.RoleFaculty))
	assert.Empty(t, AssignableRoles(models.RoleStaff))
	assert.Empty(t, AssignableRoles(models.RoleStudent))
}

func TestCanAssignRole(t *testing.T) {
	assert.True(t, CanAssignRole(models.RoleAdmin, models.RoleAdmin))
	assert.True(t, CanAssignRole(models.RoleFaculty, models.RoleStudent))
	assert.False(t, CanAssignRole(models.RoleFaculty, models.RoleAdmin))
	assert.False(t, CanAssignRole(models.RoleStudent, models.RoleStudent))
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Admin", RoleLabel(models.RoleAdmin))
	assert.Equal(t, "Student", RoleLabel(models.RoleStudent))
	assert.Equal(t, "", RoleLabel(""))
}
