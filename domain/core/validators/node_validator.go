package validators

import (
	"strings"
	"unicode/utf8"

	"contrastboard/domain/core/valueobjects"
	"contrastboard/pkg/errors"
)

// NodeValidator validates node field rules applied at the application edge
type NodeValidator struct {
	titleMaxLength int
}

// NewNodeValidator creates a new node validator with default rules
func NewNodeValidator() *NodeValidator {
	return &NodeValidator{
		titleMaxLength: 120,
	}
}

// ValidateTitle checks a node title. Empty titles are allowed.
func (v *NodeValidator) ValidateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n > v.titleMaxLength {
		return errors.NewValidationError("title is too long").
			WithCode("TITLE_TOO_LONG").
			WithDetails(map[string]interface{}{
				"actual_length": n,
				"max_length":    v.titleMaxLength,
			})
	}
	if strings.ContainsAny(title, "\x00\r\n") {
		return errors.NewValidationError("title must be a single line").
			WithCode("TITLE_INVALID_CHARACTERS")
	}
	return nil
}

// ValidateColor parses a committed color value
func (v *NodeValidator) ValidateColor(raw string) (valueobjects.HexColor, error) {
	return valueobjects.ParseHexColor(raw)
}

// ValidatePosition checks coordinates are finite
func (v *NodeValidator) ValidatePosition(x, y float64) (valueobjects.Position, error) {
	p, err := valueobjects.NewPosition(x, y)
	if err != nil {
		return valueobjects.Position{}, errors.NewValidationError(err.Error()).WithCode("INVALID_POSITION")
	}
	return p, nil
}
