// Package frames holds the air-quality matrix frames: one fixed 4-word bitmap
// per air-quality category, and the lookup from category to frame.
//
// The table is built at package init and never written afterwards, so Lookup
// is safe for concurrent use without locking.
package frames

import (
	"errors"
	"fmt"
	"strings"
)

// Words is the number of 32-bit words in a Frame.
const Words = 4

// Category is an air-quality classification used as the lookup key.
type Category string

const (
	Good                        Category = "good"
	Moderate                    Category = "moderate"
	UnhealthyForSensitiveGroups Category = "unhealthy_for_sensitive_groups"
	Unhealthy                   Category = "unhealthy"
	VeryUnhealthy               Category = "very_unhealthy"
	Hazardous                   Category = "hazardous"
	// Unknown is a valid category with its own frame, shown when no
	// measurement is available.
	Unknown Category = "unknown"
)

// Frame is a packed bitmap of 4 words.
type Frame [Words]uint32

var (
	// ErrUnknownCategory is wrapped by every UnknownCategoryError.
	ErrUnknownCategory = errors.New("frames: unknown category")
	// ErrFrameLength is returned by NewFrame for anything but 4 words.
	ErrFrameLength = errors.New("frames: frame must have exactly 4 words")
)

// UnknownCategoryError reports a category outside the fixed set.
type UnknownCategoryError struct {
	Category Category
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("frames: unknown category %q", string(e.Category))
}

func (e *UnknownCategoryError) Unwrap() error {
	return ErrUnknownCategory
}

// order is the declared order of the table, used by Categories.
var order = [...]Category{
	Good,
	Moderate,
	UnhealthyForSensitiveGroups,
	Unhealthy,
	VeryUnhealthy,
	Hazardous,
	Unknown,
}

var table = map[Category]Frame{
	Good:                        {0x904101f0, 0x5f420212, 0x41390a28, 0x10},
	Moderate:                    {0x904101f0, 0x51420212, 0x808209c8, 0xf},
	UnhealthyForSensitiveGroups: {0x904101f0, 0x5f420212, 0x80820808, 0xf},
	Unhealthy:                   {0x904101f0, 0x4e420212, 0xc1010a28, 0x1f},
	VeryUnhealthy:               {0x904101f0, 0x4042da12, 0x808209c8, 0xf},
	Hazardous:                   {0xd04101f0, 0x44428a16, 0x80540410, 0xa},
	Unknown:                     {0x400c0000, 0x4004002, 0x40, 0x1},
}

// Lookup returns the frame for c. Categories outside the fixed set return a
// zero Frame and an *UnknownCategoryError.
func Lookup(c Category) (Frame, error) {
	f, ok := table[c]
	if !ok {
		return Frame{}, &UnknownCategoryError{Category: c}
	}
	return f, nil
}

// MustLookup is like Lookup but panics on an unknown category.
func MustLookup(c Category) Frame {
	f, err := Lookup(c)
	if err != nil {
		panic(err)
	}
	return f
}

// Categories returns every category in table order. The slice is a copy.
func Categories() []Category {
	out := make([]Category, len(order))
	copy(out, order[:])
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := table[c]
	return ok
}

func (c Category) String() string { return string(c) }

// ParseCategory maps user input such as "Very Unhealthy" or
// "unhealthy-for-sensitive-groups" to a Category.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	c := Category(norm)
	if !c.Valid() {
		return "", &UnknownCategoryError{Category: Category(s)}
	}
	return c, nil
}

// NewFrame builds a Frame from a word slice, e.g. one decoded from a header
// export or a request body.
func NewFrame(words []uint32) (Frame, error) {
	var f Frame
	if len(words) != Words {
		return f, fmt.Errorf("%w: got %d", ErrFrameLength, len(words))
	}
	copy(f[:], words)
	return f, nil
}
