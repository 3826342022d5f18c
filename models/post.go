package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation statuses. New submissions always start as pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MainTags is the canonical emotion tag set. The three legacy values at the
// end are still accepted so documents written by older clients keep working.
var MainTags = []string{
	"Anxious",
	"Overwhelmed",
	"Hopeful",
	"Empowered",
	"Frustrated",
	"Angry",
	"Concerned",
	"Sad/Grief",
	"Motivated",
	"Inspired",
	"Determined",
	"Resilient",
	"Fearful",
	"Curious",
	// legacy
	"Positive",
	"Neutral",
	"Negative",
}

// StoryPrompts are the fixed prompts an author may pick when submitting.
var StoryPrompts = []string{
	"A moment that stayed with me",
	"A change I've noticed over time",
	"A challenge I'm facing",
	"Something I lost",
	"Something I'm protecting",
	"Something I'm proud of",
	"A solution I believe in",
	"A question I have",
	"Lived experience / One-time event",
	"Personal action I took",
	"Community action",
	"Something I'm worried about",
	"Something that gives me hope",
}

// IsValidTag reports whether tag is in the allowed enumeration.
func IsValidTag(tag string) bool {
	for _, t := range MainTags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsValidStoryPrompt reports whether prompt is one of the fixed prompts.
func IsValidStoryPrompt(prompt string) bool {
	for _, p := range StoryPrompts {
		if p == prompt {
			return true
		}
	}
	return false
}

// PostContent is the nested content object of a story.
type PostContent struct {
	Description string  `bson:"description" json:"description"`
	Image       *string `bson:"image" json:"image"`
}

// Location is a GeoJSON point: coordinates are [longitude, latitude].
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Post is a submitted climate story with its moderation state.
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Content      PostContent        `bson:"content" json:"content"`
	Location     Location           `bson:"location" json:"location"`
	Tag          string             `bson:"tag" json:"tag"`
	OptionalTags []string           `bson:"optional_tags" json:"optional_tags"`
	StoryPrompt  *string            `bson:"story_prompt,omitempty" json:"story_prompt,omitempty"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// SplitOptionalTags turns a comma-separated form value into the slice stored
// at rest. Entries are trimmed and empties dropped; the result is never nil.
func SplitOptionalTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// JoinOptionalTags is the inverse of SplitOptionalTags, used when filling
// the flat edit form from a stored document.
func JoinOptionalTags(tags []string) string {
	return strings.Join(tags, ", ")
}
