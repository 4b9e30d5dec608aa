// Package journal describes the journal page: its fields, their limits and
// the rating scale. Server validation and the client form share it.
package journal

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
)

// Field names a journal field. Names match the JSON keys on the wire.
type Field string

const (
	Affirmation      Field = "affirmation"
	PriorityWork     Field = "priorityWork"
	PriorityFamily   Field = "priorityFamily"
	PrioritySelfCare Field = "prioritySelfCare"
	Gratitude        Field = "gratitude"
	Highlights       Field = "highlights"
	Thoughts         Field = "thoughts"
	Notes            Field = "notes"
	Reflection       Field = "reflection"

	RatingWork     Field = "ratingWork"
	RatingFamily   Field = "ratingFamily"
	RatingSelfCare Field = "ratingSelfCare"
)

// MaxRating is the top of the star scale. Zero means not rated.
const MaxRating = 5

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrTooLong          = errors.New("value exceeds field limit")
	ErrRatingOutOfRange = errors.New("rating out of range")
	errNotATextField    = fmt.Errorf("%w: not a text field", ErrUnknownField)
	errNotARatingField  = fmt.Errorf("%w: not a rating field", ErrUnknownField)
)

// TextFields lists text fields in page order.
var TextFields = []Field{
	Affirmation, PriorityWork, PriorityFamily, PrioritySelfCare,
	Gratitude, Highlights, Thoughts, Notes, Reflection,
}

// RatingFields lists rating fields in page order.
var RatingFields = []Field{RatingWork, RatingFamily, RatingSelfCare}

var limits = map[Field]int{
	Affirmation:      200,
	PriorityWork:     100,
	PriorityFamily:   100,
	PrioritySelfCare: 100,
	Gratitude:        300,
	Highlights:       500,
	Thoughts:         1000,
	Notes:            300,
	Reflection:       400,
}

// Limit returns the maximum length of a text field in characters.
func Limit(f Field) (int, bool) {
	n, ok := limits[f]
	return n, ok
}

// IsRating reports whether f is one of the rating fields.
func IsRating(f Field) bool {
	return f == RatingWork || f == RatingFamily || f == RatingSelfCare
}

// Content is the editable part of a journal page.
type Content struct {
	Affirmation      string `json:"affirmation"`
	PriorityWork     string `json:"priorityWork"`
	PriorityFamily   string `json:"priorityFamily"`
	PrioritySelfCare string `json:"prioritySelfCare"`
	Gratitude        string `json:"gratitude"`
	Highlights       string `json:"highlights"`
	Thoughts         string `json:"thoughts"`
	Notes            string `json:"notes"`
	Reflection       string `json:"reflection"`
	RatingWork       int    `json:"ratingWork"`
	RatingFamily     int    `json:"ratingFamily"`
	RatingSelfCare   int    `json:"ratingSelfCare"`
}

func (c *Content) textPtr(f Field) *string {
	switch f {
	case Affirmation:
		return &c.Affirmation
	case PriorityWork:
		return &c.PriorityWork
	case PriorityFamily:
		return &c.PriorityFamily
	case PrioritySelfCare:
		return &c.PrioritySelfCare
	case Gratitude:
		return &c.Gratitude
	case Highlights:
		return &c.Highlights
	case Thoughts:
		return &c.Thoughts
	case Notes:
		return &c.Notes
	case Reflection:
		return &c.Reflection
	}
	return nil
}

func (c *Content) ratingPtr(f Field) *int {
	switch f {
	case RatingWork:
		return &c.RatingWork
	case RatingFamily:
		return &c.RatingFamily
	case RatingSelfCare:
		return &c.RatingSelfCare
	}
	return nil
}

// Text returns the value of a text field.
func (c *Content) Text(f Field) (string, error) {
	p := c.textPtr(f)
	if p == nil {
		return "", errNotATextField
	}
	return *p, nil
}

// SetText stores value exactly as given. Values longer than the field limit
// are rejected and the field keeps its previous value.
func (c *Content) SetText(f Field, value string) error {
	p := c.textPtr(f)
	if p == nil {
		return errNotATextField
	}
	if err := checkLength(f, value); err != nil {
		return err
	}
	*p = value
	return nil
}

// Rating returns the value of a rating field.
func (c *Content) Rating(f Field) (int, error) {
	p := c.ratingPtr(f)
	if p == nil {
		return 0, errNotARatingField
	}
	return *p, nil
}

// SetRating stores v when it lies in [0, MaxRating].
func (c *Content) SetRating(f Field, v int) error {
	p := c.ratingPtr(f)
	if p == nil {
		return errNotARatingField
	}
	if err := checkRating(f, v); err != nil {
		return err
	}
	*p = v
	return nil
}

// Validate checks every field against its limit and every rating against
// the scale. The returned error matches common.ErrorValidation and the
// specific journal error.
func (c Content) Validate() error {
	for _, f := range TextFields {
		v, _ := c.Text(f)
		if err := checkLength(f, v); err != nil {
			return fmt.Errorf("%w: %w", common.ErrorValidation, err)
		}
	}
	for _, f := range RatingFields {
		v, _ := c.Rating(f)
		if err := checkRating(f, v); err != nil {
			return fmt.Errorf("%w: %w", common.ErrorValidation, err)
		}
	}
	return nil
}

func checkLength(f Field, v string) error {
	limit := limits[f]
	if n := utf8.RuneCountInString(v); n > limit {
		return fmt.Errorf("%w: %s has %d characters, limit is %d", ErrTooLong, f, n, limit)
	}
	return nil
}

func checkRating(f Field, v int) error {
	if v < 0 || v > MaxRating {
		return fmt.Errorf("%w: %s must be between 0 and %d, got %d", ErrRatingOutOfRange, f, MaxRating, v)
	}
	return nil
}
