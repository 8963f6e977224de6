package dim

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/svdkit/svdkit/pkg/model"
)

func TestExpand_ArrayForm(t *testing.T) {
	instances, err := Expand(model.LevelRegister, 4, 4, nil, "Register[%s]", 0)
	require.NoError(t, err)
	require.Len(t, instances, 4)

	wantNames := []string{"Register0", "Register1", "Register2", "Register3"}
	for k, inst := range instances {
		require.Equal(t, wantNames[k], inst.Name)
		require.Equal(t, k*4, inst.Offset)
	}
}

func TestExpand_ListForm(t *testing.T) {
	idx := "A-C"
	instances, err := Expand(model.LevelRegister, 3, 1, &idx, "GPIO_%s_CTRL", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"GPIO_A_CTRL", "GPIO_B_CTRL", "GPIO_C_CTRL"},
		namesOf(instances))
}

func TestExpand_NumericDimIndex(t *testing.T) {
	idx := "2-4"
	instances, err := Expand(model.LevelRegister, 3, 4, &idx, "R[%s]", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"R2", "R3", "R4"}, namesOf(instances))
}

func TestExpand_CommaListDimIndex(t *testing.T) {
	idx := "FOO,BAR,BAZ"
	instances, err := Expand(model.LevelRegister, 3, 4, &idx, "R[%s]", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"RFOO", "RBAR", "RBAZ"}, namesOf(instances))
}

func TestExpand_DimIndexLengthMismatch(t *testing.T) {
	idx := "0-2"
	_, err := Expand(model.LevelRegister, 4, 4, &idx, "R[%s]", 0)
	require.ErrorIs(t, err, ErrDimIndexLength)
}

func TestExpand_PeripheralRequiresArrayForm(t *testing.T) {
	_, err := Expand(model.LevelPeripheral, 2, 0x1000, nil, "UART_%s", 0)
	require.ErrorIs(t, err, ErrFormNotAllowed)
}

func TestExpand_FieldRejectsArrayForm(t *testing.T) {
	_, err := Expand(model.LevelField, 2, 1, nil, "F[%s]", 0)
	require.ErrorIs(t, err, ErrFieldDim)
}

func TestExpand_FieldDimAlwaysRejected(t *testing.T) {
	_, err := Expand(model.LevelField, 2, 1, nil, "F%s", 0)
	require.ErrorIs(t, err, ErrFieldDim)
}

func TestExpand_DuplicateNames(t *testing.T) {
	idx := "A,A"
	_, err := Expand(model.LevelRegister, 2, 4, &idx, "R[%s]", 0)
	require.ErrorIs(t, err, ErrDuplicateInstanceName)
}

func TestCheckPlaceholder_DimWithoutPlaceholder(t *testing.T) {
	err := CheckPlaceholder(true, "Register")
	require.ErrorIs(t, err, ErrDimWithoutPlaceholder)
}

func TestCheckPlaceholder_PlaceholderWithoutDim(t *testing.T) {
	err := CheckPlaceholder(false, "Register[%s]")
	require.ErrorIs(t, err, ErrPlaceholderWithoutDim)
}

func namesOf(instances []Instance) []string {
	names := make([]string, len(instances))
	for i, inst := range instances {
		names[i] = inst.Name
	}
	return names
}

// TestExpand_InstanceCountAndStride holds for any valid dim/dimIncrement
// pair that the instance count equals dim and successive offsets differ
// by exactly dimIncrement, independent of the chosen name or index scheme.
func TestExpand_InstanceCountAndStride(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dimVal := rapid.IntRange(1, 32).Draw(t, "dim")
		increment := rapid.IntRange(0, 0x100).Draw(t, "increment")

		instances, err := Expand(model.LevelRegister, dimVal, increment, nil, "R[%s]", 0)
		require.NoError(t, err)
		require.Len(t, instances, dimVal)

		for k, inst := range instances {
			require.Equal(t, k*increment, inst.Offset)
		}
		seen := make(map[string]struct{}, len(instances))
		for _, inst := range instances {
			_, dup := seen[inst.Name]
			require.False(t, dup, "instance names must be pairwise distinct")
			seen[inst.Name] = struct{}{}
		}
	})
}
