package enumval

import (
	"errors"
	"fmt"

	"github.com/svdkit/svdkit/pkg/model"
)

var (
	// ErrDuplicateValue is returned when two entries of one container
	// resolve to the same numeric value after wildcard expansion.
	ErrDuplicateValue = errors.New("enumval: duplicate numeric value in container")
	// ErrDuplicateName is returned when two entries of one container share
	// a name after wildcard expansion.
	ErrDuplicateName = errors.New("enumval: duplicate name in container")
	// ErrDefaultWithValue is returned when an isDefault entry also carries
	// an explicit value.
	ErrDefaultWithValue = errors.New("enumval: isDefault entry must not carry a value")
	// ErrMultipleDefaults is returned when a container has more than one
	// isDefault entry.
	ErrMultipleDefaults = errors.New("enumval: at most one isDefault entry per container")
	// ErrUsageCombination is returned when a field's containers carry a
	// usage combination other than the single pair {read, write}.
	ErrUsageCombination = errors.New("enumval: invalid enumerated-value container usage combination")
)

// Expand processes one raw container's entries: wildcard-expands values,
// appending "_<N>" (N being the clone's concrete decimal value) to the name
// of every clone a wildcard literal produces, and
// validates duplicate names/values and isDefault constraints. It does not
// look at usage; call CheckUsageCombination separately across a field's
// full container list.
func Expand(entries []model.EnumeratedValue) ([]model.ProcessedEnumValue, error) {
	var out []model.ProcessedEnumValue
	defaults := 0
	names := make(map[string]struct{})
	values := make(map[uint64]struct{})

	for _, e := range entries {
		isDefault := e.IsDefault != nil && *e.IsDefault
		if isDefault {
			if e.Value != nil {
				return nil, fmt.Errorf("%w: %q", ErrDefaultWithValue, e.Name)
			}
			defaults++
			if defaults > 1 {
				return nil, ErrMultipleDefaults
			}
			if _, dup := names[e.Name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
			}
			names[e.Name] = struct{}{}
			out = append(out, model.ProcessedEnumValue{
				Name:        e.Name,
				Description: e.Description,
				IsDefault:   true,
			})
			continue
		}

		if e.Value == nil {
			return nil, fmt.Errorf("enumval: entry %q has neither a value nor isDefault", e.Name)
		}
		concretes, err := ParseValue(*e.Value)
		if err != nil {
			return nil, err
		}

		for _, v := range concretes {
			name := e.Name
			if len(concretes) > 1 {
				name = fmt.Sprintf("%s_%d", e.Name, v)
			}
			if _, dup := names[name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
			}
			names[name] = struct{}{}
			if _, dup := values[v]; dup {
				return nil, fmt.Errorf("%w: %d", ErrDuplicateValue, v)
			}
			values[v] = struct{}{}
			out = append(out, model.ProcessedEnumValue{
				Name:        name,
				Description: e.Description,
				Value:       v,
			})
		}
	}
	return out, nil
}

// CheckUsageCombination enforces that a field carries at most two
// enumerated-value containers, and if two, their usages are exactly the
// pair {read, write}; read-write may never coexist with anything else.
func CheckUsageCombination(containers []model.EnumeratedValueContainer) error {
	if len(containers) <= 1 {
		return nil
	}
	if len(containers) > 2 {
		return fmt.Errorf("%w: more than two containers", ErrUsageCombination)
	}

	usages := make(map[model.Usage]int, 2)
	for _, c := range containers {
		u := model.UsageReadWrite
		if c.Usage != nil {
			u = *c.Usage
		}
		usages[u]++
	}
	_, hasRead := usages[model.UsageRead]
	_, hasWrite := usages[model.UsageWrite]
	if hasRead && hasWrite && len(usages) == 2 {
		return nil
	}
	return fmt.Errorf("%w: only the pair {read, write} may coexist", ErrUsageCombination)
}
