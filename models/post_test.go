package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTag(t *testing.T) {
	assert.True(t, IsValidTag("Hopeful"))
	assert.True(t, IsValidTag("Sad/Grief"))
	// legacy values stay accepted
	assert.True(t, IsValidTag("Positive"))
	assert.True(t, IsValidTag("Negative"))

	assert.False(t, IsValidTag(""))
	assert.False(t, IsValidTag("hopeful"))
	assert.False(t, IsValidTag("Excited"))
}

func TestIsValidStoryPrompt(t *testing.T) {
	assert.True(t, IsValidStoryPrompt("Community action"))
	assert.True(t, IsValidStoryPrompt("A question I have"))
	assert.False(t, IsValidStoryPrompt("Something else entirely"))
	assert.False(t, IsValidStoryPrompt(""))
}

func TestSplitOptionalTags(t *testing.T) {
	assert.Equal(t, []string{"flood", "river"}, SplitOptionalTags("flood, river"))
	assert.Equal(t, []string{"flood"}, SplitOptionalTags("  flood  "))
	assert.Equal(t, []string{"a", "b", "c"}, SplitOptionalTags("a,b , c,"))
	assert.Equal(t, []string{}, SplitOptionalTags(""))
	assert.Equal(t, []string{}, SplitOptionalTags(" , , "))
}

func TestJoinOptionalTags(t *testing.T) {
	assert.Equal(t, "flood, river", JoinOptionalTags([]string{"flood", "river"}))
	assert.Equal(t, "", JoinOptionalTags(nil))
}
