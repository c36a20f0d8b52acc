// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group member roles.
const (
	GroupRoleAdmin  = "admin"
	GroupRoleMember = "member"
)

// Group is a member-created interest group.
//
// NOTE:
//   - Members are embedded as {user_id, role, joined_at}; the creator is
//     added as the group admin on submission and can never leave.
//   - Posts are embedded and each carries its own like set.
type Group struct {
	Moderation `bson:",inline"`

	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Category    string        `bson:"category,omitempty" json:"category,omitempty"`
	IsPrivate   bool          `bson:"is_private" json:"is_private"`
	Members     []GroupMember `bson:"members,omitempty" json:"members"`
	Posts       []GroupPost   `bson:"posts,omitempty" json:"posts"`
}

type GroupMember struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

type GroupPost struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Content   string               `bson:"content" json:"content"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}
