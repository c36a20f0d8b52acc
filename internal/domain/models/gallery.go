// internal/domain/models/gallery.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type GalleryItem struct {
	Moderation `bson:",inline"`

	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string               `bson:"image_url" json:"image_url"`
	Category    string               `bson:"category,omitempty" json:"category,omitempty"`
	Likes       []primitive.ObjectID `bson:"likes,omitempty" json:"likes"`
}
