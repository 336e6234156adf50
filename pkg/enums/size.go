package enums

import "fmt"

// Size is a garment size label.
type Size string

const (
	SizeXS   Size = "XS"
	SizeS    Size = "S"
	SizeM    Size = "M"
	SizeL    Size = "L"
	SizeXL   Size = "XL"
	SizeXXL  Size = "XXL"
	SizeXXXL Size = "XXXL"
)

// DefaultSize is applied when a cart entry or order omits the size.
const DefaultSize = SizeM

// AllSizes lists every size label in display order.
var AllSizes = []Size{
	SizeXS,
	SizeS,
	SizeM,
	SizeL,
	SizeXL,
	SizeXXL,
	SizeXXXL,
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Size.
func (s Size) IsValid() bool {
	for _, candidate := range AllSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSize converts raw input into a Size. Empty input falls back to the default.
func ParseSize(value string) (Size, error) {
	if value == "" {
		return DefaultSize, nil
	}
	for _, candidate := range AllSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size %q", value)
}
