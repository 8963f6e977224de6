package dim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/svdkit/svdkit/pkg/model"
)

// Form distinguishes the two dim name-substitution grammars.
type Form int

const (
	// FormNone means name carries no dim placeholder at all.
	FormNone Form = iota
	// FormArray is the "[%s]" placeholder: the brackets are stripped and
	// the index appended directly, e.g. "Register[%s]" -> "Register0".
	FormArray
	// FormList is the bare "%s" placeholder: the index is substituted in
	// place, e.g. "GPIO_%s_CTRL" -> "GPIO_A_CTRL".
	FormList
)

var (
	// ErrPlaceholderWithoutDim is returned when a name carries a dim
	// placeholder but no dim attribute is present.
	ErrPlaceholderWithoutDim = errors.New("dim: name placeholder present without dim attribute")
	// ErrDimWithoutPlaceholder is returned when dim is present but the
	// name carries no substitutable placeholder.
	ErrDimWithoutPlaceholder = errors.New("dim: dim attribute present without name placeholder")
	// ErrZeroDim is returned when dim is zero or negative.
	ErrZeroDim = errors.New("dim: dim must be positive")
	// ErrDimIndexLength is returned when a dimIndex expansion's length
	// disagrees with dim.
	ErrDimIndexLength = errors.New("dim: dimIndex length does not match dim")
	// ErrDuplicateInstanceName is returned when two instances of the same
	// dim expansion collide on their final name.
	ErrDuplicateInstanceName = errors.New("dim: two instances produced the same name")
	// ErrFormNotAllowed is returned when the name's placeholder form is
	// not permitted at the deriving node's level.
	ErrFormNotAllowed = errors.New("dim: placeholder form not allowed at this level")
	// ErrFieldDim is returned for any Field carrying a dim attribute;
	// fields never array/list-expand (spec open question (i), resolved
	// conservatively: reject rather than guess).
	ErrFieldDim = errors.New("dim: fields may not carry a dim attribute")
)

// FormOf classifies name's placeholder.
func FormOf(name string) Form {
	switch {
	case strings.Contains(name, "[%s]"):
		return FormArray
	case strings.Contains(name, "%s"):
		return FormList
	default:
		return FormNone
	}
}

// Instance is one materialised element of a dim expansion.
type Instance struct {
	Index  string
	Name   string
	Offset int
}

// CheckPlaceholder enforces that dim presence and name-placeholder
// presence agree (spec §3: "dim without a placeholder in name ⇒ error;
// %s in name without dim ⇒ error").
func CheckPlaceholder(hasDim bool, name string) error {
	form := FormOf(name)
	switch {
	case hasDim && form == FormNone:
		return ErrDimWithoutPlaceholder
	case !hasDim && form != FormNone:
		return ErrPlaceholderWithoutDim
	default:
		return nil
	}
}

// checkFormAllowed enforces the per-level form restrictions: array form is
// required (list forbidden) for Peripherals; Fields accept list form only
// and never carry dim at all in this implementation (ErrFieldDim covers
// that case before checkFormAllowed is reached).
func checkFormAllowed(level model.Level, form Form) error {
	switch level {
	case model.LevelPeripheral:
		if form != FormArray {
			return fmt.Errorf("%w: peripherals require array form \"[%%s]\"", ErrFormNotAllowed)
		}
	case model.LevelField:
		if form != FormList {
			return fmt.Errorf("%w: fields accept list form \"%%s\" only", ErrFormNotAllowed)
		}
	}
	return nil
}

// Expand computes the ordered instance sequence for a dim group. name is
// the template (unsubstituted) name and baseOffset is the template's own
// address offset (its base address for Peripherals); instance k is placed
// at baseOffset + k*dimIncrement. dimIndex is the raw attribute text, nil
// if absent.
func Expand(level model.Level, dimVal, dimIncrement int, dimIndex *string, name string, baseOffset int) ([]Instance, error) {
	if level == model.LevelField {
		return nil, ErrFieldDim
	}
	if dimVal <= 0 {
		return nil, ErrZeroDim
	}
	if err := CheckPlaceholder(true, name); err != nil {
		return nil, err
	}
	form := FormOf(name)
	if err := checkFormAllowed(level, form); err != nil {
		return nil, err
	}

	indices, err := parseIndices(dimIndex, dimVal)
	if err != nil {
		return nil, err
	}

	instances := make([]Instance, 0, dimVal)
	seen := make(map[string]struct{}, dimVal)
	for k, idx := range indices {
		instName := substitute(form, name, idx)
		if _, dup := seen[instName]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateInstanceName, instName)
		}
		seen[instName] = struct{}{}
		instances = append(instances, Instance{
			Index:  idx,
			Name:   instName,
			Offset: baseOffset + k*dimIncrement,
		})
	}
	return instances, nil
}

func substitute(form Form, name, index string) string {
	switch form {
	case FormArray:
		return strings.Replace(name, "[%s]", index, 1)
	case FormList:
		return strings.Replace(name, "%s", index, 1)
	default:
		return name
	}
}

// parseIndices resolves a dimIndex attribute into dim ordered index
// strings. A nil dimIndex yields "0".."dim-1".
func parseIndices(dimIndex *string, dimVal int) ([]string, error) {
	if dimIndex == nil {
		out := make([]string, dimVal)
		for i := 0; i < dimVal; i++ {
			out[i] = strconv.Itoa(i)
		}
		return out, nil
	}

	raw := *dimIndex
	if lo, hi, ok := parseNumericRange(raw); ok {
		count := hi - lo + 1
		if count != dimVal {
			return nil, fmt.Errorf("%w: range %s yields %d, want %d", ErrDimIndexLength, raw, count, dimVal)
		}
		out := make([]string, count)
		for i := 0; i < count; i++ {
			out[i] = strconv.Itoa(lo + i)
		}
		return out, nil
	}

	if lo, hi, ok := parseLetterRange(raw); ok {
		count := int(hi-lo) + 1
		if count != dimVal {
			return nil, fmt.Errorf("%w: range %s yields %d, want %d", ErrDimIndexLength, raw, count, dimVal)
		}
		out := make([]string, count)
		for i := 0; i < count; i++ {
			out[i] = string(rune(int(lo) + i))
		}
		return out, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != dimVal {
		return nil, fmt.Errorf("%w: list %s yields %d, want %d", ErrDimIndexLength, raw, len(parts), dimVal)
	}
	return parts, nil
}

// parseNumericRange recognises "LO-HI" where both LO and HI are decimal
// integers and LO <= HI.
func parseNumericRange(s string) (lo, hi int, ok bool) {
	i := strings.IndexByte(s, '-')
	if i <= 0 || i == len(s)-1 {
		return 0, 0, false
	}
	loStr, hiStr := s[:i], s[i+1:]
	loVal, err := strconv.Atoi(loStr)
	if err != nil {
		return 0, 0, false
	}
	hiVal, err := strconv.Atoi(hiStr)
	if err != nil {
		return 0, 0, false
	}
	if loVal > hiVal {
		return 0, 0, false
	}
	return loVal, hiVal, true
}

// parseLetterRange recognises "A-F": single ASCII letters, lo <= hi.
func parseLetterRange(s string) (lo, hi byte, ok bool) {
	if len(s) != 3 || s[1] != '-' {
		return 0, 0, false
	}
	a, b := s[0], s[2]
	isLetter := func(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }
	if !isLetter(a) || !isLetter(b) || a > b {
		return 0, 0, false
	}
	return a, b, true
}
