// internal/domain/models/blog.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Blog is a member-authored post. Blogs may sit in draft before they are
// submitted, and go live as "published" rather than "approved".
type Blog struct {
	Moderation `bson:",inline"`

	Title      string               `bson:"title" json:"title"`
	Content    string               `bson:"content" json:"content"`
	Excerpt    string               `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Tags       []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	CoverImage string               `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Likes      []primitive.ObjectID `bson:"likes,omitempty" json:"likes"`
}
