// internal/domain/models/thread.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread is a forum topic. Replies are embedded and each carries its own
// like set, addressed by the reply _id.
type Thread struct {
	Moderation `bson:",inline"`

	Title    string   `bson:"title" json:"title"`
	Content  string   `bson:"content" json:"content"`
	Category string   `bson:"category,omitempty" json:"category,omitempty"`
	Tags     []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Pinned   bool     `bson:"pinned" json:"pinned"`
	Locked   bool     `bson:"locked" json:"locked"`
	Replies  []Reply  `bson:"replies,omitempty" json:"replies"`
}

type Reply struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Content   string               `bson:"content" json:"content"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}
