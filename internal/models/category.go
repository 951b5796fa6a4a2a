package models

// Category is a label entity referenced by posts.
type Category struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Category string `json:"category" validate:"required,max=100"`
}
