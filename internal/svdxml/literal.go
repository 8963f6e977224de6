package svdxml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/svdkit/svdkit/pkg/model"
)

// ErrMalformedLiteral is returned when a numeric or boolean attribute/text
// value cannot be parsed in any of the forms CMSIS-SVD allows.
var ErrMalformedLiteral = errors.New("svdxml: malformed literal")

// parseUint parses a CMSIS-SVD scaledNonNegativeInteger: plain decimal,
// "0x"/"0X" hex, "#" legacy binary, or "0b"/"0B" binary. Unlike
// pkg/enumval.ParseValue, 'x'/'X' don't-care bits are never valid here —
// addresses, sizes and offsets are always concrete.
func parseUint(raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedLiteral, raw, err)
		}
		return v, nil
	case strings.HasPrefix(s, "#"):
		v, err := strconv.ParseUint(s[1:], 2, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedLiteral, raw, err)
		}
		return v, nil
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		v, err := strconv.ParseUint(s[2:], 2, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedLiteral, raw, err)
		}
		return v, nil
	default:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedLiteral, raw, err)
		}
		return v, nil
	}
}

func parseInt(raw string) (int, error) {
	v, err := parseUint(raw)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// parseBool parses a CMSIS-SVD boolean: "true"/"false"/"1"/"0".
func parseBool(raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: boolean %q", ErrMalformedLiteral, raw)
	}
}

// parseAccess parses an access token, raising a warning diagnostic (via the
// returned bool) for the legacy "read"/"write" tokens spec.md §6 still
// accepts.
func parseAccess(raw string) (model.Access, bool, error) {
	v, legacy, ok := model.ParseAccess(strings.TrimSpace(raw))
	if !ok {
		return "", false, fmt.Errorf("%w: access %q", ErrMalformedLiteral, raw)
	}
	return v, legacy, nil
}

func parseProtection(raw string) (model.Protection, error) {
	switch strings.TrimSpace(raw) {
	case string(model.ProtectionSecure), string(model.ProtectionNonSecure), string(model.ProtectionPrivileged):
		return model.Protection(raw), nil
	default:
		return "", fmt.Errorf("%w: protection %q", ErrMalformedLiteral, raw)
	}
}
