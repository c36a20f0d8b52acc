// internal/domain/models/tool.go
package models

type Tool struct {
	Moderation `bson:",inline"`

	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	URL         string `bson:"url" json:"url"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Pricing     string `bson:"pricing,omitempty" json:"pricing,omitempty"` // e.g. "free", "paid"
}
