package frames

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the concrete type shared by every identifier of a run.
type Kind int

const (
	KindInt Kind = iota + 1
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "invalid"
	}
}

// ErrTypeMismatch reports identifiers of different or unsupported types.
var ErrTypeMismatch = errors.New("frame type mismatch")

// ErrIntegerOverflow reports an integer frame outside the int64 range.
var ErrIntegerOverflow = errors.New("frame integer out of range")

// ID is an immutable frame identifier.
type ID struct {
	kind Kind
	i    int64
	f    float64
}

// Int returns an integer identifier.
func Int(v int64) ID { return ID{kind: KindInt, i: v} }

// Float returns a real identifier.
func Float(v float64) ID { return ID{kind: KindFloat, f: v} }

// Kind returns the identifier kind; the zero ID has no valid kind.
func (id ID) Kind() Kind { return id.kind }

// Compare orders identifiers of the same kind, returning -1, 0 or +1.
func (id ID) Compare(other ID) int {
	if id.kind == KindFloat || other.kind == KindFloat {
		a, b := id.Float(), other.Float()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	switch {
	case id.i < other.i:
		return -1
	case id.i > other.i:
		return 1
	default:
		return 0
	}
}

// Int returns the integer value of an integer identifier.
func (id ID) Int() int64 { return id.i }

// Float returns the value of the identifier as a real.
func (id ID) Float() float64 {
	if id.kind == KindInt {
		return float64(id.i)
	}
	return id.f
}

func (id ID) String() string {
	switch id.kind {
	case KindInt:
		return strconv.FormatInt(id.i, 10)
	case KindFloat:
		s := strconv.FormatFloat(id.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	default:
		return "<nil>"
	}
}

// MarshalJSON writes the identifier as a JSON number, keeping reals
// distinguishable from integers.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.kind == KindFloat && (math.IsNaN(id.f) || math.IsInf(id.f, 0)) {
		return nil, fmt.Errorf("frame %v is not representable in JSON", id.f)
	}
	if id.kind == 0 {
		return []byte("null"), nil
	}
	return []byte(id.String()), nil
}

// UnmarshalJSON accepts a JSON number only.
func (id *ID) UnmarshalJSON(data []byte) error {
	parsed, err := decodeOne(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Decode converts the raw values a movie reported into identifiers. Anything
// that is not a JSON number, or a mix of integers and reals, is rejected.
func Decode(raw []json.RawMessage) ([]ID, error) {
	ids := make([]ID, 0, len(raw))
	for i, item := range raw {
		id, err := decodeOne(item)
		if err != nil {
			return nil, fmt.Errorf("frames[%d]: %w", i, err)
		}
		ids = append(ids, id)
	}
	if err := checkHomogeneous("frames", ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func decodeOne(data []byte) (ID, error) {
	data = bytes.TrimSpace(data)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ID{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	num, ok := v.(json.Number)
	if !ok {
		return ID{}, fmt.Errorf("%w: %s is not a number", ErrTypeMismatch, string(data))
	}
	return parseNumber(num.String())
}

// parseNumber treats literals without fraction or exponent as integers.
func parseNumber(text string) (ID, error) {
	if !strings.ContainsAny(text, ".eE") {
		v, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return Int(v), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return ID{}, fmt.Errorf("%w: %s", ErrIntegerOverflow, text)
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, text)
	}
	return Float(v), nil
}

// Coerce converts text into an identifier of the requested kind.
func Coerce(text string, kind Kind) (ID, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case KindInt:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return ID{}, fmt.Errorf("cannot convert %q to int", text)
		}
		return Int(v), nil
	case KindFloat:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(v) {
			return ID{}, fmt.Errorf("cannot convert %q to float", text)
		}
		return Float(v), nil
	default:
		return ID{}, fmt.Errorf("%w: unsupported kind %s", ErrTypeMismatch, kind)
	}
}

func checkHomogeneous(collection string, ids []ID) error {
	if len(ids) == 0 {
		return nil
	}
	first := ids[0].Kind()
	if first != KindInt && first != KindFloat {
		return fmt.Errorf("%w: %s[0] has no type", ErrTypeMismatch, collection)
	}
	for i, id := range ids[1:] {
		if id.Kind() != first {
			return fmt.Errorf("%w: %s are not all of the same type (%s[%d] is %s, expected %s)",
				ErrTypeMismatch, collection, collection, i+1, id.Kind(), first)
		}
	}
	return nil
}
