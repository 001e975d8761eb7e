package models

import "gorm.io/gorm"

// User is an account in the warung. UserLevel 1 is staff, 2 is a regular
// customer; new registrations always start at 2.
type User struct {
	gorm.Model
	Nama         string `gorm:"size:255;not null" json:"nama"`
	Alamat       string `gorm:"size:255" json:"alamat"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	PhoneNumber  string `gorm:"uniqueIndex;size:32;not null" json:"phone_number"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	UserLevel    int    `gorm:"not null;default:2" json:"user_level"`
	ImageProfile string `gorm:"size:512" json:"image_profile"`
}
