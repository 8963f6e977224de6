package enumval

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/svdkit/svdkit/pkg/model"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestParseValue_Decimal(t *testing.T) {
	v, err := ParseValue("10")
	require.NoError(t, err)
	require.Equal(t, []uint64{10}, v)
}

func TestParseValue_Hex(t *testing.T) {
	v, err := ParseValue("0x1A")
	require.NoError(t, err)
	require.Equal(t, []uint64{0x1A}, v)
}

func TestParseValue_BinaryNoWildcard(t *testing.T) {
	v, err := ParseValue("0b101")
	require.NoError(t, err)
	require.Equal(t, []uint64{5}, v)
}

func TestParseValue_BinaryWildcard(t *testing.T) {
	v, err := ParseValue("0bx1x")
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{0b010, 0b011, 0b110, 0b111}, v)
}

func TestParseValue_HashPrefixWildcard(t *testing.T) {
	v, err := ParseValue("#1x0")
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{0b100, 0b110}, v)
}

func TestParseValue_Malformed(t *testing.T) {
	_, err := ParseValue("0byz")
	require.ErrorIs(t, err, ErrMalformedValue)
}

func TestExpand_WildcardSuffixesName(t *testing.T) {
	entries := []model.EnumeratedValue{
		{Name: "RESERVED", Value: strp("0bx1")},
	}
	out, err := Expand(entries)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "RESERVED_1", out[0].Name)
	require.Equal(t, "RESERVED_3", out[1].Name)
}

func TestExpand_DuplicateValue(t *testing.T) {
	entries := []model.EnumeratedValue{
		{Name: "A", Value: strp("1")},
		{Name: "B", Value: strp("1")},
	}
	_, err := Expand(entries)
	require.ErrorIs(t, err, ErrDuplicateValue)
}

func TestExpand_DuplicateName(t *testing.T) {
	entries := []model.EnumeratedValue{
		{Name: "A", Value: strp("1")},
		{Name: "A", Value: strp("2")},
	}
	_, err := Expand(entries)
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestExpand_DefaultWithValue(t *testing.T) {
	entries := []model.EnumeratedValue{
		{Name: "A", Value: strp("1"), IsDefault: boolp(true)},
	}
	_, err := Expand(entries)
	require.ErrorIs(t, err, ErrDefaultWithValue)
}

func TestExpand_MultipleDefaults(t *testing.T) {
	entries := []model.EnumeratedValue{
		{Name: "A", IsDefault: boolp(true)},
		{Name: "B", IsDefault: boolp(true)},
	}
	_, err := Expand(entries)
	require.ErrorIs(t, err, ErrMultipleDefaults)
}

func usagep(u model.Usage) *model.Usage { return &u }

func TestCheckUsageCombination_ReadWritePair(t *testing.T) {
	containers := []model.EnumeratedValueContainer{
		{Usage: usagep(model.UsageRead)},
		{Usage: usagep(model.UsageWrite)},
	}
	require.NoError(t, CheckUsageCombination(containers))
}

func TestCheckUsageCombination_ReadWriteExcludesOthers(t *testing.T) {
	containers := []model.EnumeratedValueContainer{
		{Usage: usagep(model.UsageReadWrite)},
		{Usage: usagep(model.UsageRead)},
	}
	err := CheckUsageCombination(containers)
	require.ErrorIs(t, err, ErrUsageCombination)
}

func TestCheckUsageCombination_DuplicateUsage(t *testing.T) {
	containers := []model.EnumeratedValueContainer{
		{Usage: usagep(model.UsageRead)},
		{Usage: usagep(model.UsageRead)},
	}
	err := CheckUsageCombination(containers)
	require.ErrorIs(t, err, ErrUsageCombination)
}

// TestParseValue_BinaryWildcardCount holds for any binary literal that the
// number of concrete values returned is exactly 2^(wildcard bit count).
func TestParseValue_BinaryWildcardCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 8).Draw(t, "width")
		pattern := make([]byte, width)
		wildcards := 0
		for i := range pattern {
			switch rapid.IntRange(0, 2).Draw(t, "bit") {
			case 0:
				pattern[i] = '0'
			case 1:
				pattern[i] = '1'
			default:
				pattern[i] = 'x'
				wildcards++
			}
		}
		v, err := ParseValue("0b" + string(pattern))
		require.NoError(t, err)
		require.Len(t, v, 1<<uint(wildcards))
	})
}
