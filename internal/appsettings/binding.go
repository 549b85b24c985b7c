package appsettings

import (
	"errors"
	"strconv"
	"strings"
)

// Kind is the declared value type of a bound setting.
type Kind int

// Supported binding kinds.
const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
)

// ErrUnknownSetting is returned when no binding exists for a name.
var ErrUnknownSetting = errors.New("no binding for setting name")

// Binding connects a setting name to a typed struct field. Get renders
// the field as a string, Set parses a string into the field.
type Binding struct {
	Kind Kind
	Get  func() string
	Set  func(value string) error
}

// StringBinding binds a string field.
func StringBinding(field *string) Binding {
	return Binding{
		Kind: KindString,
		Get:  func() string { return *field },
		Set: func(value string) error {
			*field = value
			return nil
		},
	}
}

// BoolBinding binds a bool field. Accepted true spellings are
// true, 1, yes and y (case-insensitive); everything else is false.
func BoolBinding(field *bool) Binding {
	return Binding{
		Kind: KindBool,
		Get:  func() string { return strconv.FormatBool(*field) },
		Set: func(value string) error {
			*field = ParseBool(value)
			return nil
		},
	}
}

// IntBinding binds an int field.
func IntBinding(field *int) Binding {
	return Binding{
		Kind: KindInt,
		Get:  func() string { return strconv.Itoa(*field) },
		Set: func(value string) error {
			parsed, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return err
			}

			*field = parsed

			return nil
		},
	}
}

// FloatBinding binds a float64 field.
func FloatBinding(field *float64) Binding {
	return Binding{
		Kind: KindFloat,
		Get:  func() string { return strconv.FormatFloat(*field, 'f', -1, 64) },
		Set: func(value string) error {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return err
			}

			*field = parsed

			return nil
		},
	}
}

// ParseBool parses the relaxed boolean spellings used for settings.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}
