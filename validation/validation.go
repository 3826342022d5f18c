// Package validation turns raw request payloads into normalized records or
// per-field error maps. Invalid input never reaches the store.
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"climatemap/models"
)

var validate = validator.New()

func init() {
	// Report fields by their wire (json) names, not Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("maintag", func(fl validator.FieldLevel) bool {
		return models.IsValidTag(fl.Field().String())
	})
	validate.RegisterValidation("storyprompt", func(fl validator.FieldLevel) bool {
		return models.IsValidStoryPrompt(fl.Field().String())
	})
}

// ContentPayload mirrors the nested content object on the wire.
type ContentPayload struct {
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

// LocationPayload mirrors the GeoJSON point on the wire.
type LocationPayload struct {
	Type        string    `json:"type" validate:"required,eq=Point"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

// PostPayload is a post submission or update before normalization. Unknown
// fields in the raw JSON are ignored; declared fields with the wrong type
// fail with a field-level message.
type PostPayload struct {
	Title        string           `json:"title" validate:"required,max=200"`
	Content      *ContentPayload  `json:"content" validate:"required"`
	Location     *LocationPayload `json:"location" validate:"required"`
	Tag          string           `json:"tag" validate:"required,maintag"`
	OptionalTags []string         `json:"optionalTags"`
	StoryPrompt  string           `json:"storyPrompt" validate:"omitempty,storyprompt"`
	CaptchaToken string           `json:"captchaToken" validate:"required"`
	Status       string           `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// PostQuery is the validated listing filter.
type PostQuery struct {
	Tag          string   `json:"tag" validate:"omitempty,maintag"`
	OptionalTags []string `json:"optionalTags"`
}

// ParsePostPayload decodes and validates a raw JSON post payload. On failure
// the returned map carries one message per offending field.
func ParsePostPayload(raw []byte) (*PostPayload, map[string]string) {
	var payload PostPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, decodeErrorFields(err)
	}

	if payload.OptionalTags == nil {
		payload.OptionalTags = []string{}
	}

	if errs := CheckStruct(&payload); errs != nil {
		return nil, errs
	}

	if errs := checkCoordinates(payload.Location); errs != nil {
		return nil, errs
	}

	return &payload, nil
}

// ParsePostQuery validates listing query parameters. The optional tag list
// is free-form; only the primary tag is checked against the enumeration.
func ParsePostQuery(tag string, optionalTags []string) (*PostQuery, map[string]string) {
	query := PostQuery{Tag: tag, OptionalTags: optionalTags}
	if query.OptionalTags == nil {
		query.OptionalTags = []string{}
	}

	if errs := CheckStruct(&query); errs != nil {
		return nil, errs
	}
	return &query, nil
}

// CheckStruct runs the shared validator over any payload struct and
// translates failures into a field -> message map.
func CheckStruct(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_payload": "invalid payload"}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return fields
}

func checkCoordinates(loc *LocationPayload) map[string]string {
	if loc == nil || len(loc.Coordinates) != 2 {
		return nil // already reported by the struct rules
	}
	lon, lat := loc.Coordinates[0], loc.Coordinates[1]
	if lon < -180 || lon > 180 {
		return map[string]string{"location.coordinates": "longitude must be between -180 and 180"}
	}
	if lat < -90 || lat > 90 {
		return map[string]string{"location.coordinates": "latitude must be between -90 and 90"}
	}
	return nil
}

func decodeErrorFields(err error) map[string]string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string]string{typeErr.Field: "expected " + typeErr.Type.String() + ", got " + typeErr.Value}
	}
	return map[string]string{"_payload": "invalid JSON payload"}
}

// fieldPath strips the struct name prefix, leaving the dotted wire path.
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "maintag":
		return "must be one of: " + strings.Join(models.MainTags, ", ")
	case "storyprompt":
		return "must be one of the fixed story prompts"
	case "eq":
		return "must equal " + fe.Param()
	case "len":
		return "must have exactly " + fe.Param() + " elements"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}
