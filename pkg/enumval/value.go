package enumval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedValue is returned when an enumerated-value literal cannot be
// parsed in any of the decimal, hex or binary forms CMSIS-SVD allows.
var ErrMalformedValue = errors.New("enumval: malformed value literal")

// ParseValue parses one enumerated value's literal. Binary literals
// ("0b..."/"0B..."/"#...") may contain 'x'/'X' don't-care bits, in which
// case ParseValue returns one concrete integer per substitution of the
// wildcard bits with 0/1, in ascending order of the substituted pattern.
// Decimal and hex literals never carry wildcards.
func ParseValue(raw string) ([]uint64, error) {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedValue, raw, err)
		}
		return []uint64{v}, nil
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		return expandBinary(s[2:], raw)
	case strings.HasPrefix(s, "#"):
		return expandBinary(s[1:], raw)
	default:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedValue, raw, err)
		}
		return []uint64{v}, nil
	}
}

// expandBinary expands the 'x'/'X' don't-care bits in a binary string into
// every concrete value they can produce.
func expandBinary(body, raw string) ([]uint64, error) {
	lower := strings.ToLower(body)
	for _, c := range lower {
		if c != '0' && c != '1' && c != 'x' {
			return nil, fmt.Errorf("%w: %q", ErrMalformedValue, raw)
		}
	}
	if !strings.Contains(lower, "x") {
		v, err := strconv.ParseUint(lower, 2, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedValue, raw, err)
		}
		return []uint64{v}, nil
	}

	wildcardCount := strings.Count(lower, "x")
	out := make([]uint64, 0, 1<<uint(wildcardCount))
	var walk func(pattern string)
	walk = func(pattern string) {
		i := strings.IndexByte(pattern, 'x')
		if i < 0 {
			v, err := strconv.ParseUint(pattern, 2, 64)
			if err == nil {
				out = append(out, v)
			}
			return
		}
		walk(pattern[:i] + "0" + pattern[i+1:])
		walk(pattern[:i] + "1" + pattern[i+1:])
	}
	walk(lower)
	return out, nil
}
