package models

// UserRole enumerates campus roles.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleAdmin   UserRole = "admin"
)

// User is a registered campus account. PasswordHash never leaves the service.
type User struct {
	ID             int64    `db:"id" json:"id"`
	Username       string   `db:"username" json:"username"`
	PasswordHash   string   `db:"password" json:"-"`
	DisplayName    *string  `db:"display_name" json:"displayName"`
	AvatarInitials *string  `db:"avatar_initials" json:"avatarInitials"`
	Role           UserRole `db:"role" json:"role"`
	StudentID      *string  `db:"student_id" json:"studentId"`
	Department     *string  `db:"department" json:"department"`
	Semester       *int     `db:"semester" json:"semester"`
}

// PublicUser is the subset of user fields other students may see.
type PublicUser struct {
	ID             int64    `json:"id"`
	DisplayName    *string  `json:"displayName"`
	AvatarInitials *string  `json:"avatarInitials"`
	Role           UserRole `json:"role"`
	StudentID      *string  `json:"studentId"`
	Department     *string  `json:"department"`
}

// Public projects the user onto its shareable fields.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:             u.ID,
		DisplayName:    u.DisplayName,
		AvatarInitials: u.AvatarInitials,
		Role:           u.Role,
		StudentID:      u.StudentID,
		Department:     u.Department,
	}
}

// Profile is a user without credentials, returned by the auth endpoints.
type Profile struct {
	ID             int64    `json:"id"`
	Username       string   `json:"username"`
	DisplayName    *string  `json:"displayName"`
	AvatarInitials *string  `json:"avatarInitials"`
	Role           UserRole `json:"role"`
	StudentID      *string  `json:"studentId"`
	Department     *string  `json:"department"`
	Semester       *int     `json:"semester"`
}

// Profile strips credentials from the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		AvatarInitials: u.AvatarInitials,
		Role:           u.Role,
		StudentID:      u.StudentID,
		Department:     u.Department,
		Semester:       u.Semester,
	}
}
