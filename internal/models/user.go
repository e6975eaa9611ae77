package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleUnitLead UserRole = "unit_lead"
	RoleStaff    UserRole = "staff"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type User struct {
	ID                 string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name               string    `gorm:"type:varchar(255);not null" json:"name"`
	Position           string    `gorm:"type:varchar(255)" json:"position"`
	Unit               string    `gorm:"type:varchar(255);index" json:"unit"`
	Gender             Gender    `gorm:"type:varchar(10)" json:"gender"`
	DateOfBirth        string    `gorm:"type:varchar(20)" json:"date_of_birth"`
	Phone              string    `gorm:"type:varchar(20)" json:"phone"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"type:varchar(255);not null" json:"-"`
	Role               UserRole  `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	DelegateLevel      string    `gorm:"type:varchar(10)" json:"delegate_level"`
	Notes              string    `gorm:"type:varchar(255)" json:"notes"`
	MustChangePassword bool      `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relations
	CreatedTasks   []Task             `gorm:"foreignKey:UserID" json:"-"`
	LeadTasks      []Task             `gorm:"foreignKey:LeadID" json:"-"`
	Collaborations []TaskCollaborator `gorm:"foreignKey:UserID" json:"-"`
}

// IsAdmin reports whether the user holds the super-admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsUnitLead reports whether the user heads their organizational unit.
func (u User) IsUnitLead() bool {
	return u.Role == RoleUnitLead
}
