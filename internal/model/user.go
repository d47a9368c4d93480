package model

import (
	"time"
)

type UserRole string

const (
	Admin   UserRole = "admin"
	Faculty UserRole = "faculty"
)

type Degree string

const (
	UG Degree = "UG"
	PG Degree = "PG"
)

// swagger:model User
type User struct {
	BaseModel
	Name       string   `gorm:"size:100;not null" json:"name"`
	Email      string   `gorm:"size:100;unique;not null" json:"email"`
	Password   string   `gorm:"size:100;not null" json:"-"`
	Role       UserRole `gorm:"type:enum('admin','faculty');default:'faculty'" json:"role"`
	CourseCode string   `gorm:"size:20" json:"courseCode"`
	Degree     Degree   `gorm:"type:enum('UG','PG');default:'UG'" json:"degree"`
	// VettingID 指向负责审核该教师试题的 reviewer（users.id），每位教师只有一个
	VettingID uint      `gorm:"index" json:"vettingId"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
