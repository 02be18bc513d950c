package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

// Bound is a frame selection bound kept as text until the movie's frame kind
// is known. In TOML it may be written as a string, an integer or a float.
type Bound string

// UnmarshalTOML implements unstable.Unmarshaler.
func (b *Bound) UnmarshalTOML(value *unstable.Node) error {
	text := string(value.Data)
	switch value.Kind {
	case unstable.String:
		*b = Bound(text)
	case unstable.Integer:
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return fmt.Errorf("frame bound %s: %w", text, err)
		}
		*b = Bound(strconv.FormatInt(v, 10))
	case unstable.Float:
		v, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			return fmt.Errorf("frame bound %s: %w", text, err)
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("frame bound %s is not a finite number", text)
		}
		*b = Bound(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return fmt.Errorf("frame bound must be a string or a number, got %s", value.Kind)
	}
	return nil
}
