package resolve

import "github.com/svdkit/svdkit/pkg/model"

// concreteProps is a fully resolved RegisterPropertiesGroup: every field is
// concrete, no nils. It is the unit the property-inheritance chain
// produces and consumes at each level (spec §4.6).
type concreteProps struct {
	Size       int
	Access     model.Access
	Protection model.Protection
	ResetValue uint64
	ResetMask  uint64
}

// deviceDefaults returns the device-wide fallback properties: size from
// the device's own width (or 32 if unset), read-write access, no
// protection, reset value 0, reset mask all-ones for that size.
func deviceDefaults(device *model.Device) concreteProps {
	size := device.Width
	if size <= 0 {
		size = 32
	}
	mask := uint64(1)<<uint(size) - 1
	if size >= 64 {
		mask = ^uint64(0)
	}
	return concreteProps{
		Size:       size,
		Access:     model.AccessReadWrite,
		Protection: "",
		ResetValue: 0,
		ResetMask:  mask,
	}
}

// resolveProperties implements "own -> base-processed -> nearest-ancestor-
// processed -> device-default", per property, independently.
func resolveProperties(own model.RegisterPropertiesGroup, base, ancestor *concreteProps, deviceDefault concreteProps) concreteProps {
	return concreteProps{
		Size:       resolveIntProp(own.Size, base, ancestor, deviceDefault, func(c concreteProps) int { return c.Size }),
		Access:     resolveAccessProp(own.Access, base, ancestor, deviceDefault),
		Protection: resolveProtectionProp(own.Protection, base, ancestor, deviceDefault),
		ResetValue: resolveU64Prop(own.ResetValue, base, ancestor, deviceDefault, func(c concreteProps) uint64 { return c.ResetValue }),
		ResetMask:  resolveU64Prop(own.ResetMask, base, ancestor, deviceDefault, func(c concreteProps) uint64 { return c.ResetMask }),
	}
}

func resolveIntProp(own *int, base, ancestor *concreteProps, def concreteProps, get func(concreteProps) int) int {
	if own != nil {
		return *own
	}
	if base != nil {
		return get(*base)
	}
	if ancestor != nil {
		return get(*ancestor)
	}
	return get(def)
}

func resolveU64Prop(own *uint64, base, ancestor *concreteProps, def concreteProps, get func(concreteProps) uint64) uint64 {
	if own != nil {
		return *own
	}
	if base != nil {
		return get(*base)
	}
	if ancestor != nil {
		return get(*ancestor)
	}
	return get(def)
}

func resolveAccessProp(own *model.Access, base, ancestor *concreteProps, def concreteProps) model.Access {
	if own != nil {
		return *own
	}
	if base != nil {
		return base.Access
	}
	if ancestor != nil {
		return ancestor.Access
	}
	return def.Access
}

func resolveProtectionProp(own *model.Protection, base, ancestor *concreteProps, def concreteProps) model.Protection {
	if own != nil {
		return *own
	}
	if base != nil {
		return base.Protection
	}
	if ancestor != nil {
		return ancestor.Protection
	}
	return def.Protection
}
