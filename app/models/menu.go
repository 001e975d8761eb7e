package models

import "gorm.io/gorm"

// MenuItem is one dish on the menu. Quantity is remaining stock.
type MenuItem struct {
	gorm.Model
	Name        string      `gorm:"size:255;not null" json:"name"`
	Price       float64     `gorm:"not null" json:"price"`
	Description string      `gorm:"size:1024" json:"description"`
	Quantity    int         `gorm:"not null;default:0" json:"quantity"`
	Images      []MenuImage `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (MenuItem) TableName() string { return "menu" }

// MenuImage is one stored photo of a menu item. ImageURL is the storage
// locator, resolved to a public URL at read time.
type MenuImage struct {
	gorm.Model
	MenuID   uint   `gorm:"not null;index" json:"menu_id"`
	ImageURL string `gorm:"size:512;not null" json:"image_url"`
}

func (MenuImage) TableName() string { return "menu_images" }
