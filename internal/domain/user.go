package domain

import "time"

// Role enumerates account types on the platform.
type Role string

const (
	RoleVolunteer  Role = "volunteer"
	RoleNgo        Role = "ngo"
	RoleGovernment Role = "government"
)

// Valid reports whether the role is one of the issuable account types.
func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleNgo, RoleGovernment:
		return true
	}
	return false
}

// IsOrganization reports whether the role may own projects.
func (r Role) IsOrganization() bool {
	return r == RoleNgo || r == RoleGovernment
}

// VolunteerProfile carries volunteer-specific attributes.
type VolunteerProfile struct {
	Availability string `json:"availability,omitempty"`
	Occupation   string `json:"occupation,omitempty"`
}

// NgoProfile carries NGO-specific attributes.
type NgoProfile struct {
	OrgName        string `json:"org_name,omitempty"`
	RegistrationNo string `json:"registration_no,omitempty"`
	FocusArea      string `json:"focus_area,omitempty"`
}

// GovernmentProfile carries agency-specific attributes.
type GovernmentProfile struct {
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// Profile is a tagged variant keyed by role; at most one branch is set.
type Profile struct {
	Volunteer  *VolunteerProfile  `json:"volunteer,omitempty"`
	Ngo        *NgoProfile        `json:"ngo,omitempty"`
	Government *GovernmentProfile `json:"government,omitempty"`
}

// User is the domain model for platform accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	Profile      Profile
	Location     Point
	Skills       []string
	Interests    []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the name shown next to projects and comments.
func (u *User) DisplayName() string {
	if u == nil {
		return "Anonymous"
	}
	if u.Role == RoleNgo && u.Profile.Ngo != nil && u.Profile.Ngo.OrgName != "" {
		return u.Profile.Ngo.OrgName
	}
	return u.Username
}
