package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svdkit/svdkit/pkg/model"
)

func intp(v int) *int                      { return &v }
func strp(v string) *string                { return &v }
func accessp(v model.Access) *model.Access { return &v }
func u64p(v uint64) *uint64                { return &v }

func reg(name string, offset int) model.RegisterOrCluster {
	return model.RegisterOrCluster{Register: &model.Register{Name: name, AddressOffset: offset}}
}

func baseDevice() *model.Device {
	return &model.Device{
		Name:            "TestDevice",
		Version:         "1.0",
		AddressUnitBits: 8,
		Width:           32,
	}
}

// TestResolve_BackwardDerivation covers spec.md §8's "simple backward
// peripheral derivation": a peripheral declared after its base, inheriting
// the base's full register map.
func TestResolve_BackwardDerivation(t *testing.T) {
	dev := baseDevice()
	dev.Peripherals = []model.Peripheral{
		{
			Name:        "UART0",
			BaseAddress: 0x1000,
			RegisterPropertiesGroup: model.RegisterPropertiesGroup{
				Size: intp(32), Access: accessp(model.AccessReadWrite),
			},
			RegistersClusters: []model.RegisterOrCluster{reg("CTRL", 0), reg("DATA", 4)},
		},
		{
			Name:        "UART1",
			BaseAddress: 0x2000,
			DerivedFrom: strp("UART0"),
		},
	}

	out, warnings, err := Resolve(dev, Options{})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, out.Peripherals, 2)

	uart1 := out.Peripherals[1]
	require.Equal(t, "UART1", uart1.Name)
	require.Equal(t, uint64(0x2000), uart1.BaseAddress)
	require.Equal(t, model.AccessReadWrite, uart1.Access)
	require.Len(t, uart1.Registers, 2)
	require.Equal(t, "CTRL", uart1.Registers[0].Name)
	require.Equal(t, "DATA", uart1.Registers[1].Name)
}

// TestResolve_ForwardDerivation covers a peripheral deriving from one
// declared later in document order — order-independence (spec.md line 7).
func TestResolve_ForwardDerivation(t *testing.T) {
	dev := baseDevice()
	dev.Peripherals = []model.Peripheral{
		{Name: "UART1", BaseAddress: 0x2000, DerivedFrom: strp("UART0")},
		{
			Name:        "UART0",
			BaseAddress: 0x1000,
			RegisterPropertiesGroup: model.RegisterPropertiesGroup{
				Size: intp(32), Access: accessp(model.AccessReadWrite),
			},
			RegistersClusters: []model.RegisterOrCluster{reg("CTRL", 0)},
		},
	}

	out, _, err := Resolve(dev, Options{})
	require.NoError(t, err)

	var uart1 *model.ProcessedPeripheral
	for i := range out.Peripherals {
		if out.Peripherals[i].Name == "UART1" {
			uart1 = &out.Peripherals[i]
		}
	}
	require.NotNil(t, uart1)
	require.Len(t, uart1.Registers, 1)
	require.Equal(t, "CTRL", uart1.Registers[0].Name)
}

// TestResolve_RegisterOverlayViaDerive covers a derived peripheral that
// redeclares one register (replacing it) while inheriting the rest.
func TestResolve_RegisterOverlayViaDerive(t *testing.T) {
	dev := baseDevice()
	overlay := model.RegisterOrCluster{Register: &model.Register{
		Name: "CTRL", AddressOffset: 0,
		RegisterPropertiesGroup: model.RegisterPropertiesGroup{ResetValue: u64p(0xFF)},
	}}
	dev.Peripherals = []model.Peripheral{
		{
			Name:        "UART0",
			BaseAddress: 0x1000,
			RegisterPropertiesGroup: model.RegisterPropertiesGroup{
				Size: intp(32), Access: accessp(model.AccessReadWrite),
			},
			RegistersClusters: []model.RegisterOrCluster{reg("CTRL", 0), reg("DATA", 4)},
		},
		{
			Name:              "UART1",
			BaseAddress:       0x2000,
			DerivedFrom:       strp("UART0"),
			RegistersClusters: []model.RegisterOrCluster{overlay},
		},
	}

	out, _, err := Resolve(dev, Options{})
	require.NoError(t, err)

	var uart1 *model.ProcessedPeripheral
	for i := range out.Peripherals {
		if out.Peripherals[i].Name == "UART1" {
			uart1 = &out.Peripherals[i]
		}
	}
	require.NotNil(t, uart1)
	require.Len(t, uart1.Registers, 2)
	require.Equal(t, "CTRL", uart1.Registers[0].Name)
	require.Equal(t, uint64(0xFF), uart1.Registers[0].ResetValue)
	require.Equal(t, "DATA", uart1.Registers[1].Name)
}

// TestResolve_DimArrayRegister covers a register expanded by dim into N
// sibling instances with stride-spaced offsets.
func TestResolve_DimArrayRegister(t *testing.T) {
	dev := baseDevice()
	dev.Peripherals = []model.Peripheral{{
		Name:        "TIMER",
		BaseAddress: 0x3000,
		RegisterPropertiesGroup: model.RegisterPropertiesGroup{
			Size: intp(32), Access: accessp(model.AccessReadWrite),
		},
		RegistersClusters: []model.RegisterOrCluster{{Register: &model.Register{
			DimGroup:      model.DimGroup{Dim: intp(4), DimIncrement: intp(4)},
			Name:          "CH[%s]",
			AddressOffset: 0,
		}}},
	}}

	out, _, err := Resolve(dev, Options{})
	require.NoError(t, err)
	require.Len(t, out.Peripherals, 1)
	require.Len(t, out.Peripherals[0].Registers, 4)
	for i, r := range out.Peripherals[0].Registers {
		require.Equal(t, i*4, r.AddressOffset)
	}
}

// TestResolve_CycleDetection covers two peripherals deriving from each
// other, which must fail fatally rather than loop forever.
func TestResolve_CycleDetection(t *testing.T) {
	dev := baseDevice()
	dev.Peripherals = []model.Peripheral{
		{Name: "A", BaseAddress: 0x1000, DerivedFrom: strp("B")},
		{Name: "B", BaseAddress: 0x2000, DerivedFrom: strp("A")},
	}

	_, _, err := Resolve(dev, Options{})
	require.Error(t, err)
}

// TestResolve_UnresolvableDerivation covers a derivedFrom path that never
// matches any node in the device.
func TestResolve_UnresolvableDerivation(t *testing.T) {
	dev := baseDevice()
	dev.Peripherals = []model.Peripheral{
		{Name: "A", BaseAddress: 0x1000, DerivedFrom: strp("DoesNotExist")},
	}

	_, _, err := Resolve(dev, Options{})
	require.ErrorIs(t, err, ErrUnresolvedDerivation)
}

// TestResolve_SizeAdjustmentPropagation covers a register whose own size is
// smaller than its widest field, which must be widened at finalize time.
func TestResolve_SizeAdjustmentPropagation(t *testing.T) {
	dev := baseDevice()
	dev.Peripherals = []model.Peripheral{{
		Name:        "GPIO",
		BaseAddress: 0x4000,
		RegisterPropertiesGroup: model.RegisterPropertiesGroup{
			Size: intp(32), Access: accessp(model.AccessReadWrite),
		},
		RegistersClusters: []model.RegisterOrCluster{{Register: &model.Register{
			Name:          "MODE",
			AddressOffset: 0,
			RegisterPropertiesGroup: model.RegisterPropertiesGroup{
				Size: intp(8),
			},
			Fields: []model.Field{
				{Name: "HIGH", LSB: intp(16), MSB: intp(23)},
			},
		}}},
	}}

	out, _, err := Resolve(dev, Options{})
	require.NoError(t, err)
	require.Equal(t, 24, out.Peripherals[0].Registers[0].Size)
}

// TestResolve_EnumWildcardAndUsageConflict covers wildcard-bit expansion
// and a fatal usage-coexistence violation (two read-write containers).
func TestResolve_EnumWildcardAndUsageConflict(t *testing.T) {
	dev := baseDevice()
	rw := model.UsageReadWrite
	dev.Peripherals = []model.Peripheral{{
		Name:        "ADC",
		BaseAddress: 0x5000,
		RegisterPropertiesGroup: model.RegisterPropertiesGroup{
			Size: intp(32), Access: accessp(model.AccessReadWrite),
		},
		RegistersClusters: []model.RegisterOrCluster{{Register: &model.Register{
			Name:          "MODE",
			AddressOffset: 0,
			Fields: []model.Field{{
				Name: "SEL", LSB: intp(0), MSB: intp(1),
				EnumeratedValueContainers: []model.EnumeratedValueContainer{
					{Usage: &rw, EnumeratedValues: []model.EnumeratedValue{
						{Name: "ANY", Value: strp("0bxx")},
					}},
					{Usage: &rw, EnumeratedValues: []model.EnumeratedValue{
						{Name: "OTHER", Value: strp("0b00")},
					}},
				},
			}},
		}}},
	}}

	_, _, err := Resolve(dev, Options{})
	require.Error(t, err)
}
