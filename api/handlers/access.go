package handlers

import (
	"errors"
	"strings"

	"github.com/fortexlabs/early-warning-api/models"
)

var errForbidden = errors.New("role is not permitted to view the complaint list")

// visibleTo narrows the complaint list to what the caller's role may see.
// Admin roles see everything; a department admin sees complaints whose
// category mentions their department or that are assigned to it. A department
// admin without a department label sees nothing (fail closed). Every other
// role is denied.
func visibleTo(role, department string, complaints []models.Complaint) ([]models.Complaint, error) {
	switch role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return complaints, nil
	case models.RoleDeptAdmin:
		out := []models.Complaint{}
		if department == "" {
			return out, nil
		}
		for _, c := range complaints {
			if strings.Contains(c.Category, department) || c.AssignedTo == department {
				out = append(out, c)
			}
		}
		return out, nil
	}
	return nil, errForbidden
}

// ownedBy returns the complaints submitted by the given user
func ownedBy(userID int, complaints []models.Complaint) []models.Complaint {
	out := []models.Complaint{}
	for _, c := range complaints {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

// isAdminRole reports whether the role may read the dashboard views
func isAdminRole(role string) bool {
	switch role {
	case models.RoleDeptAdmin, models.RoleAdmin, models.RoleSuperAdmin:
		return true
	}
	return false
}
