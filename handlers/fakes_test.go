package handlers

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"climatemap/models"
	"climatemap/store"
)

// fakePostStore is an in-memory PostStore mirroring the Mongo filter
// semantics the handlers rely on.
type fakePostStore struct {
	posts   []models.Post
	failAll bool
}

var errFakeStore = errors.New("store unavailable")

func (f *fakePostStore) Insert(_ context.Context, post *models.Post) (primitive.ObjectID, error) {
	if f.failAll {
		return primitive.NilObjectID, errFakeStore
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	f.posts = append(f.posts, *post)
	return post.ID, nil
}

func (f *fakePostStore) Find(_ context.Context, filter store.PostFilter) ([]models.Post, error) {
	if f.failAll {
		return nil, errFakeStore
	}
	matched := []models.Post{}
	for _, p := range f.posts {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Tag != "" && p.Tag != filter.Tag {
			continue
		}
		if !containsAll(p.OptionalTags, filter.OptionalTags) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakePostStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	if f.failAll {
		return nil, errFakeStore
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			p := f.posts[i]
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakePostStore) Update(_ context.Context, id primitive.ObjectID, post *models.Post) error {
	if f.failAll {
		return errFakeStore
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			status := f.posts[i].Status
			if post.Status != "" {
				status = post.Status
			}
			post.ID = id
			post.CreatedAt = f.posts[i].CreatedAt
			post.Status = status
			f.posts[i] = *post
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakePostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if f.failAll {
		return errFakeStore
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users []models.User
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	return append([]models.User{}, f.users...), nil
}

func (f *fakeUserStore) Insert(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users = append(f.users, *user)
	return user.ID, nil
}

func (f *fakeUserStore) Update(_ context.Context, id primitive.ObjectID, user *models.User) error {
	for i := range f.users {
		if f.users[i].ID == id {
			password := f.users[i].Password
			if user.Password != "" {
				password = user.Password
			}
			user.ID = id
			user.Password = password
			f.users[i] = *user
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// fakeVerifier records whether it was called and answers with a fixed
// verdict.
type fakeVerifier struct {
	called bool
	err    error
}

func (v *fakeVerifier) Verify(_ context.Context, token string) error {
	v.called = true
	if token == "" {
		return errors.New("CAPTCHA token missing")
	}
	return v.err
}

// fakeUploader returns a fixed URL or error.
type fakeUploader struct {
	url    string
	err    error
	called bool
}

func (u *fakeUploader) Upload(_ context.Context, _ string, _ io.Reader) (string, error) {
	u.called = true
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}
