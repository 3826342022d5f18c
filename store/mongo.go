package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"climatemap/models"
)

// BuildPostQuery composes the Mongo filter for a post listing. Both the
// primary tag and optional tags present requires an exact tag match and all
// requested optional tags on the document; either alone applies just its own
// constraint.
func BuildPostQuery(f PostFilter) bson.M {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}

	switch {
	case f.Tag != "" && len(f.OptionalTags) > 0:
		query["$and"] = []bson.M{
			{"tag": f.Tag},
			{"optional_tags": bson.M{"$all": f.OptionalTags}},
		}
	case f.Tag != "":
		query["tag"] = f.Tag
	case len(f.OptionalTags) > 0:
		query["optional_tags"] = bson.M{"$all": f.OptionalTags}
	}

	return query
}

// MongoPostStore implements PostStore on the stories collection.
type MongoPostStore struct {
	coll *mongo.Collection
}

func NewMongoPostStore(coll *mongo.Collection) *MongoPostStore {
	return &MongoPostStore{coll: coll}
}

func (s *MongoPostStore) Insert(ctx context.Context, post *models.Post) (primitive.ObjectID, error) {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return post.ID, nil
}

func (s *MongoPostStore) Find(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	cursor, err := s.coll.Find(ctx, BuildPostQuery(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoPostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoPostStore) Update(ctx context.Context, id primitive.ObjectID, post *models.Post) error {
	set := bson.M{
		"title":         post.Title,
		"content":       post.Content,
		"location":      post.Location,
		"tag":           post.Tag,
		"optional_tags": post.OptionalTags,
		"story_prompt":  post.StoryPrompt,
		"updated_at":    post.UpdatedAt,
	}
	// An empty status means the edit does not transition moderation state.
	if post.Status != "" {
		set["status"] = post.Status
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoUserStore implements UserStore on the users collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{coll: coll}
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return user.ID, nil
}

func (s *MongoUserStore) Update(ctx context.Context, id primitive.ObjectID, user *models.User) error {
	set := bson.M{
		"username":  user.Username,
		"role":      user.Role,
		"firstname": user.Firstname,
		"lastname":  user.Lastname,
	}
	// An empty password on edit leaves the stored hash untouched.
	if user.Password != "" {
		set["password"] = user.Password
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
