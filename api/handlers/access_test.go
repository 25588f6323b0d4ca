package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fortexlabs/early-warning-api/models"
)

func accessFixture() []models.Complaint {
	return []models.Complaint{
		{ID: 1, Category: "Hostel - Maintenance", UserID: 1},
		{ID: 2, Category: "Academics - Grading", UserID: 2},
		{ID: 3, Category: "Transport", AssignedTo: "Hostel", UserID: 1},
	}
}

func TestVisibleToAdminSeesEverything(t *testing.T) {
	for _, role := range []string{models.RoleAdmin, models.RoleSuperAdmin} {
		visible, err := visibleTo(role, "", accessFixture())
		assert.NoError(t, err)
		assert.Len(t, visible, 3)
	}
}

func TestVisibleToDeptAdminFiltersByDepartment(t *testing.T) {
	visible, err := visibleTo(models.RoleDeptAdmin, "Hostel", accessFixture())
	assert.NoError(t, err)
	assert.Len(t, visible, 2)
	assert.Equal(t, 1, visible[0].ID)
	assert.Equal(t, 3, visible[1].ID)
}

func TestVisibleToDeptAdminWithoutDepartmentSeesNothing(t *testing.T) {
	visible, err := visibleTo(models.RoleDeptAdmin, "", accessFixture())
	assert.NoError(t, err)
	assert.Empty(t, visible)
}

func TestVisibleToStudentIsDenied(t *testing.T) {
	_, err := visibleTo(models.RoleStudent, "", accessFixture())
	assert.ErrorIs(t, err, errForbidden)
}

func TestOwnedBy(t *testing.T) {
	owned := ownedBy(1, accessFixture())
	assert.Len(t, owned, 2)
	for _, c := range owned {
		assert.Equal(t, 1, c.UserID)
	}

	assert.Empty(t, ownedBy(42, accessFixture()))
}

func TestIsAdminRole(t *testing.T) {
	assert.True(t, isAdminRole(models.RoleDeptAdmin))
	assert.True(t, isAdminRole(models.RoleAdmin))
	assert.True(t, isAdminRole(models.RoleSuperAdmin))
	assert.False(t, isAdminRole(models.RoleStudent))
	assert.False(t, isAdminRole(""))
}
