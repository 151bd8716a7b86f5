package emotion

import (
	"fmt"
	"strings"

	"github.com/arloliu/emotrace/errs"
)

// Category is a primary emotion category. Its numeric value is the byte code
// stored in a QuantizedState.
type Category uint8

const (
	Happy   Category = 0x0
	Excited Category = 0x1
	Proud   Category = 0x2
	Calm    Category = 0x3
	Sad     Category = 0x4
	Anxious Category = 0x5
	Angry   Category = 0x6
	Bored   Category = 0x7

	// Unknown is the sentinel for readings that carry no category.
	Unknown Category = 0xFF
)

// NumCategories is the number of named categories in the table.
const NumCategories = 8

var categoryNames = [NumCategories]string{
	Happy:   "Happy",
	Excited: "Excited",
	Proud:   "Proud",
	Calm:    "Calm",
	Sad:     "Sad",
	Anxious: "Anxious",
	Angry:   "Angry",
	Bored:   "Bored",
}

// octants maps the VAD octant index to its category. The index is built as
// valence>0 (bit 2), arousal>0.5 (bit 1), dominance>0.5 (bit 0):
//
//	idx  valence  arousal  dominance  category
//	 7   +        high     high       Excited
//	 6   +        high     low        Happy
//	 5   +        low      high       Proud
//	 4   +        low      low        Calm
//	 3   -        high     high       Angry
//	 2   -        high     low        Anxious
//	 1   -        low      high       Bored
//	 0   -        low      low        Sad
var octants = [8]Category{
	0b000: Sad,
	0b001: Bored,
	0b010: Anxious,
	0b011: Angry,
	0b100: Calm,
	0b101: Proud,
	0b110: Happy,
	0b111: Excited,
}

// Neutral centers of the octant split.
const (
	ValenceCenter   = 0.0
	ArousalCenter   = 0.5
	DominanceCenter = 0.5
)

// Classify derives the category of a VAD reading by octant split around the
// neutral center. Boundary values fall on the low side.
func Classify(valence, arousal, dominance float64) Category {
	idx := 0
	if valence > ValenceCenter {
		idx |= 0b100
	}
	if arousal > ArousalCenter {
		idx |= 0b010
	}
	if dominance > DominanceCenter {
		idx |= 0b001
	}

	return octants[idx]
}

// Code returns the byte code of c.
func (c Category) Code() uint8 {
	return uint8(c)
}

// IsValid reports whether c is a named category or Unknown.
func (c Category) IsValid() bool {
	return c < NumCategories || c == Unknown
}

func (c Category) String() string {
	if c < NumCategories {
		return categoryNames[c]
	}
	if c == Unknown {
		return "Unknown"
	}

	return fmt.Sprintf("Category(%d)", uint8(c))
}

// CategoryFromCode maps a byte code back to its category.
//
// Returns errs.ErrUnknownEmotionCode for codes outside the table other than
// the Unknown sentinel.
func CategoryFromCode(code uint8) (Category, error) {
	c := Category(code)
	if !c.IsValid() {
		return Unknown, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownEmotionCode, code)
	}

	return c, nil
}

// ParseCategory maps a case-insensitive category name to its category.
func ParseCategory(name string) (Category, error) {
	n := strings.TrimSpace(name)
	for i, s := range categoryNames {
		if strings.EqualFold(s, n) {
			return Category(i), nil //nolint:gosec
		}
	}
	if strings.EqualFold(n, "Unknown") {
		return Unknown, nil
	}

	return Unknown, fmt.Errorf("%w: category %q", errs.ErrInvalidInput, name)
}

// Categories returns the named categories in code order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i) //nolint:gosec
	}

	return out
}
