package models

// PostForm is the flat representation the admin console edits. The nested
// content/location objects are flattened into individual fields and the
// optional tags into one comma-separated string.
type PostForm struct {
	Title              string  `json:"title" form:"title"`
	ContentDescription string  `json:"content_description" form:"content_description"`
	ContentImage       string  `json:"content_image" form:"content_image"`
	LocationLatitude   float64 `json:"location_latitude" form:"location_latitude"`
	LocationLongitude  float64 `json:"location_longitude" form:"location_longitude"`
	Tag                string  `json:"tag" form:"tag"`
	OptionalTags       string  `json:"optionalTags" form:"optionalTags"`
	StoryPrompt        string  `json:"story_prompt" form:"story_prompt"`
	Status             string  `json:"status" form:"status"`
}

// ToDocument builds the nested persisted shape from the flat form.
func (f PostForm) ToDocument() Post {
	var image *string
	if f.ContentImage != "" {
		img := f.ContentImage
		image = &img
	}

	var prompt *string
	if f.StoryPrompt != "" {
		p := f.StoryPrompt
		prompt = &p
	}

	return Post{
		Title: f.Title,
		Content: PostContent{
			Description: f.ContentDescription,
			Image:       image,
		},
		Location: Location{
			Type:        "Point",
			Coordinates: []float64{f.LocationLongitude, f.LocationLatitude},
		},
		Tag:          f.Tag,
		OptionalTags: SplitOptionalTags(f.OptionalTags),
		StoryPrompt:  prompt,
		Status:       f.Status,
	}
}

// FormFromDocument flattens a stored post for the edit form. It is the
// inverse of ToDocument up to optional-tag whitespace.
func FormFromDocument(p Post) PostForm {
	f := PostForm{
		Title:              p.Title,
		ContentDescription: p.Content.Description,
		Tag:                p.Tag,
		OptionalTags:       JoinOptionalTags(p.OptionalTags),
		Status:             p.Status,
	}
	if p.Content.Image != nil {
		f.ContentImage = *p.Content.Image
	}
	if p.StoryPrompt != nil {
		f.StoryPrompt = *p.StoryPrompt
	}
	if len(p.Location.Coordinates) == 2 {
		f.LocationLongitude = p.Location.Coordinates[0]
		f.LocationLatitude = p.Location.Coordinates[1]
	}
	return f
}
