package machine

// Provider supplies the machine facts the safety checks combine with
// extracted tool metadata: the active Z work offset and the configured
// minimum-Z travel limit.
type Provider interface {
	// CurrentZOffset returns the active work offset on the Z axis.
	CurrentZOffset() float64

	// MinZLimit returns the configured minimum Z and whether the limit is
	// enabled at all.
	MinZLimit() (float64, bool)
}

// StaticProvider is a Provider with fixed values, typically read from
// configuration when no live controller connection is available.
type StaticProvider struct {
	ZOffset float64
	Limit   *float64 // nil disables the limit check
}

func (p StaticProvider) CurrentZOffset() float64 { return p.ZOffset }

func (p StaticProvider) MinZLimit() (float64, bool) {
	if p.Limit == nil {
		return 0, false
	}
	return *p.Limit, true
}
