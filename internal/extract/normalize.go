// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/findoc/pkg/types"
)

var (
	// ErrEmpty means a capture was blank after trimming. The field is
	// treated as not found.
	ErrEmpty = errors.New("empty value")

	// ErrParse means a capture could not be converted to the field's kind.
	ErrParse = errors.New("unparseable value")
)

// decimalNoise lists characters removed from a decimal capture before
// parsing: thousands separators, currency symbols, percent, spaces.
var decimalNoise = strings.NewReplacer(",", "", "£", "", "$", "", "€", "", "%", "", " ", "")

// ParseValue converts a raw capture to a typed value of the given kind.
func ParseValue(kind types.ValueKind, raw string) (types.Value, error) {
	switch kind {
	case types.KindInteger:
		return parseInteger(raw)
	case types.KindDecimal:
		return parseDecimal(raw)
	case types.KindDate:
		s := strings.TrimSpace(raw)
		if s == "" {
			return types.Value{}, ErrEmpty
		}
		return types.DateValue(s), nil
	default:
		s := strings.TrimSpace(raw)
		if s == "" {
			return types.Value{}, ErrEmpty
		}
		return types.StringValue(s), nil
	}
}

// parseInteger keeps only the digits of raw.
func parseInteger(raw string) (types.Value, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return types.Value{}, fmt.Errorf("%w: integer %q", ErrParse, raw)
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return types.Value{}, fmt.Errorf("%w: integer %q: %v", ErrParse, raw, err)
	}
	return types.IntegerValue(n), nil
}

func parseDecimal(raw string) (types.Value, error) {
	s := decimalNoise.Replace(strings.TrimSpace(raw))
	if s == "" {
		return types.Value{}, fmt.Errorf("%w: decimal %q", ErrParse, raw)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return types.Value{}, fmt.Errorf("%w: decimal %q: %v", ErrParse, raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return types.Value{}, fmt.Errorf("%w: decimal %q is not finite", ErrParse, raw)
	}
	return types.DecimalValue(f), nil
}
