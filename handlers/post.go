package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"climatemap/captcha"
	"climatemap/models"
	"climatemap/store"
	"climatemap/upload"
	"climatemap/validation"
)

// PostHandler serves the public submission/listing endpoints and the
// moderation surface over the stories collection.
type PostHandler struct {
	Store    store.PostStore
	Captcha  captcha.Verifier
	Uploader upload.Uploader
}

func NewPostHandler(s store.PostStore, v captcha.Verifier, u upload.Uploader) *PostHandler {
	return &PostHandler{Store: s, Captcha: v, Uploader: u}
}

// CreatePost is the public submission pipeline: validate, verify CAPTCHA,
// optionally upload the image, persist as pending.
func (h *PostHandler) CreatePost(c *gin.Context) {
	raw, fileErr := h.submissionBody(c)
	if fileErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fileErr.Error()})
		return
	}

	payload, fieldErrs := validation.ParsePostPayload(raw)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	// The token gates the write but is never persisted.
	token := payload.CaptchaToken

	if !isLocalClient(c) {
		if err := h.Captcha.Verify(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	post := postFromPayload(payload)

	// File policy violations already rejected the request in submissionBody;
	// a failed or unconfigured upload degrades to an imageless post.
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		if url := h.uploadImage(c.Request.Context(), header.Filename, file); url != "" {
			post.Content.Image = &url
		}
	}

	post.Status = models.StatusPending
	post.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	id, err := h.Store.Insert(ctx, &post)
	if err != nil {
		log.Printf("[CreatePost] insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created",
		"post_id": id.Hex(),
	})
}

// maxSubmissionBytes caps the whole submission body: the image limit plus
// headroom for the JSON fields and multipart framing.
const maxSubmissionBytes = upload.MaxImageSize + 1<<20

// submissionBody extracts the post JSON from either a multipart form
// (postData field, optional image file) or a plain JSON body. File policy
// violations reject the submission here, before validation side effects.
// The body is capped before parsing so an oversized upload is refused
// instead of spooled to disk.
func (h *PostHandler) submissionBody(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)

	contentType := c.ContentType()
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, errors.New("failed to read request body")
		}
		return raw, nil
	}

	if err := c.Request.ParseMultipartForm(maxSubmissionBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New("request body exceeds the upload size limit")
		}
		return nil, errors.New("failed to parse form data")
	}

	if _, header, err := c.Request.FormFile("image"); err == nil {
		if err := upload.CheckImageFile(header.Filename, header.Size); err != nil {
			return nil, err
		}
	}

	postData := c.Request.FormValue("postData")
	if postData == "" {
		return nil, errors.New("postData field missing")
	}
	return []byte(postData), nil
}

func (h *PostHandler) uploadImage(ctx context.Context, filename string, file io.Reader) string {
	if h.Uploader == nil {
		log.Printf("[CreatePost] image upload skipped: no upload service configured")
		return ""
	}
	url, err := h.Uploader.Upload(ctx, filename, file)
	if err != nil {
		log.Printf("[CreatePost] image upload failed, continuing without image: %v", err)
		return ""
	}
	return url
}

func postFromPayload(p *validation.PostPayload) models.Post {
	optionalTags := []string{}
	for _, tag := range p.OptionalTags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			optionalTags = append(optionalTags, tag)
		}
	}

	var prompt *string
	if p.StoryPrompt != "" {
		sp := p.StoryPrompt
		prompt = &sp
	}

	return models.Post{
		Title: p.Title,
		Content: models.PostContent{
			Description: p.Content.Description,
			Image:       p.Content.Image,
		},
		Location: models.Location{
			Type:        p.Location.Type,
			Coordinates: p.Location.Coordinates,
		},
		Tag:          p.Tag,
		OptionalTags: optionalTags,
		StoryPrompt:  prompt,
	}
}

// ListPosts returns approved posts, optionally narrowed by tag filters.
func (h *PostHandler) ListPosts(c *gin.Context) {
	query, fieldErrs := validation.ParsePostQuery(c.Query("tag"), c.QueryArray("optionalTags"))
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	posts, err := h.Store.Find(ctx, store.PostFilter{
		Tag:          query.Tag,
		OptionalTags: query.OptionalTags,
		Status:       models.StatusApproved,
	})
	if err != nil {
		log.Printf("[ListPosts] find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single approved post by ID.
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	post, err := h.Store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[GetPost] find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	// Unapproved posts stay invisible on the public path.
	if post.Status != models.StatusApproved {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost applies a moderator edit to a post. The payload passes the same
// schema as submission; the CAPTCHA token is schema-required but not
// re-verified since the session already gates this path.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	payload, fieldErrs := validation.ParsePostPayload(raw)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	// An absent status leaves the stored moderation state untouched.
	post := postFromPayload(payload)
	post.Status = payload.Status
	now := time.Now().UTC()
	post.UpdatedAt = &now

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err = h.Store.Update(ctx, id, &post)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[UpdatePost] update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
}

// DeletePost removes a post by ID.
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err = h.Store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[DeletePost] delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// ListAllPosts is the console listing: every status, optionally narrowed to
// one for the moderation queue.
func (h *PostHandler) ListAllPosts(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != models.StatusPending && status != models.StatusApproved && status != models.StatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"status": "must be one of: pending, approved, rejected"}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	posts, err := h.Store.Find(ctx, store.PostFilter{Status: status})
	if err != nil {
		log.Printf("[ListAllPosts] find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// UpdatePostForm applies a console edit submitted in the flat form shape and
// maps it back onto the nested document.
func (h *PostHandler) UpdatePostForm(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var form models.PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	if fieldErrs := checkPostForm(form); fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	post := form.ToDocument()
	now := time.Now().UTC()
	post.UpdatedAt = &now

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err = h.Store.Update(ctx, id, &post)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[UpdatePostForm] update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
}

// GetPostForm returns a post flattened for the console edit form.
func (h *PostHandler) GetPostForm(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	post, err := h.Store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[GetPostForm] find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, models.FormFromDocument(*post))
}

func checkPostForm(form models.PostForm) map[string]string {
	errs := map[string]string{}
	if form.Title == "" {
		errs["title"] = "this field is required"
	}
	if !models.IsValidTag(form.Tag) {
		errs["tag"] = "must be one of: " + strings.Join(models.MainTags, ", ")
	}
	if form.StoryPrompt != "" && !models.IsValidStoryPrompt(form.StoryPrompt) {
		errs["story_prompt"] = "must be one of the fixed story prompts"
	}
	switch form.Status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		errs["status"] = "must be one of: pending, approved, rejected"
	}
	if form.LocationLongitude < -180 || form.LocationLongitude > 180 {
		errs["location_longitude"] = "longitude must be between -180 and 180"
	}
	if form.LocationLatitude < -90 || form.LocationLatitude > 90 {
		errs["location_latitude"] = "latitude must be between -90 and 90"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
