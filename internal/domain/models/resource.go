// internal/domain/models/resource.go
package models

type Resource struct {
	Moderation `bson:",inline"`

	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	URL         string `bson:"url" json:"url"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Type        string `bson:"type,omitempty" json:"type,omitempty"` // e.g. "article", "video", "template"
}
