package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Roles. RoleUser exists only in documents created before the moderation
// workflow; it grants no access to the admin surface.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// User is a console account. Password always holds a bcrypt hash.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Firstname string             `bson:"firstname" json:"firstname"`
	Lastname  string             `bson:"lastname" json:"lastname"`
}
