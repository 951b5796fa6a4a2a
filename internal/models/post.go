package models

import "time"

// Post represents a single blog entry.
//
// Category holds the id of a Category record. Referential integrity is not
// enforced at this layer; a post may reference a category that has since been
// deleted.
type Post struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string    `json:"title" validate:"required,max=200"`
	Body         string    `json:"body" validate:"required"`
	Category     uint      `json:"category"`
	PostDate     time.Time `json:"postDate"`
	FeatureImage *string   `json:"featureImage" validate:"omitempty,url"`
	Published    bool      `json:"published"`
}
