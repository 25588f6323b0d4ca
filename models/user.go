package models

// Roles recognized by the access filter. Department admins are scoped to one
// department label; admin and super_admin both see everything.
const (
	RoleStudent    = "student"
	RoleDeptAdmin  = "dept_admin"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User holds the structure for an account in the users store
type User struct {
	ID         int    `json:"id" bson:"id"`
	Email      string `json:"email" bson:"email"`
	Password   string `json:"-" bson:"password"`
	Role       string `json:"role" bson:"role"`
	Name       string `json:"name" bson:"name"`
	Department string `json:"department,omitempty" bson:"department,omitempty"`
}

// UserDetails is the public projection of a user returned by the auth routes
type UserDetails struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// Details returns the public projection of the user
func (u User) Details() UserDetails {
	return UserDetails{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}
