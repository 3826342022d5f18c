package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"climatemap/models"
	"climatemap/store"
	"climatemap/validation"
)

// UserHandler is the admin-only account management surface.
type UserHandler struct {
	Store store.UserStore
}

func NewUserHandler(s store.UserStore) *UserHandler {
	return &UserHandler{Store: s}
}

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=admin moderator"`
	Firstname string `json:"firstname" validate:"required,min=1,max=50"`
	Lastname  string `json:"lastname" validate:"required,min=1,max=50"`
}

type UpdateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password"` // empty keeps the stored hash
	Role      string `json:"role" validate:"required,oneof=admin moderator"`
	Firstname string `json:"firstname" validate:"required,min=1,max=50"`
	Lastname  string `json:"lastname" validate:"required,min=1,max=50"`
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	users, err := h.Store.List(ctx)
	if err != nil {
		log.Printf("[ListUsers] find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON data"})
		return
	}

	if fieldErrs := validation.CheckStruct(&req); fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	if err := validation.CheckPasswordComplexity(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"password": err.Error()}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if _, err := h.Store.FindByUsername(ctx, req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already in use"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[CreateUser] lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[CreateUser] hash error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:  req.Username,
		Password:  string(hash),
		Role:      req.Role,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	}

	id, err := h.Store.Insert(ctx, &user)
	if err != nil {
		log.Printf("[CreateUser] insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"user_id": id.Hex(),
	})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON data"})
		return
	}

	if fieldErrs := validation.CheckStruct(&req); fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	user := models.User{
		Username:  req.Username,
		Role:      req.Role,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	}

	// A supplied password is re-validated and re-hashed; an empty one keeps
	// the stored hash.
	if req.Password != "" {
		if err := validation.CheckPasswordComplexity(req.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"password": err.Error()}})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[UpdateUser] hash error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.Password = string(hash)
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err = h.Store.Update(ctx, id, &user)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[UpdateUser] update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err = h.Store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[DeleteUser] delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
