package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"climatemap/models"
)

// ErrNotFound is returned when no document matches the given identifier.
var ErrNotFound = errors.New("document not found")

// PostFilter narrows a post listing. Zero values mean "no constraint" for
// Tag and OptionalTags; Status is always set by callers (public reads pin it
// to approved, the console passes the status it wants or "" for all).
type PostFilter struct {
	Tag          string
	OptionalTags []string
	Status       string
}

// PostStore is the stories collection seen through a CRUD boundary.
type PostStore interface {
	Insert(ctx context.Context, post *models.Post) (primitive.ObjectID, error)
	Find(ctx context.Context, filter PostFilter) ([]models.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// Update overwrites the submitted fields of the matched post. An empty
	// post.Status leaves the stored moderation state untouched. Returns
	// ErrNotFound when nothing matched.
	Update(ctx context.Context, id primitive.ObjectID, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore is the users collection seen through a CRUD boundary.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	// Update overwrites the profile fields of the matched user. The stored
	// password hash is replaced only when user.Password is non-empty.
	Update(ctx context.Context, id primitive.ObjectID, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
