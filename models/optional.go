package models

import "math"

// OptFloat is a float64 that may be unknown. The zero value is unknown.
// Missing or unparsable source fields are represented this way rather than
// being coerced to zero, so a free listing and a listing with no price stay
// distinguishable.
type OptFloat struct {
	Value float64
	Known bool
}

// KnownFloat wraps v as a known OptFloat.
func KnownFloat(v float64) OptFloat {
	return OptFloat{Value: v, Known: true}
}

// UnknownFloat returns the unknown sentinel.
func UnknownFloat() OptFloat {
	return OptFloat{}
}

// OrWorstPrice returns the value, or +Inf when unknown. Used as the ranking
// order for prices: an unknown price sorts as the most expensive.
func (o OptFloat) OrWorstPrice() float64 {
	if !o.Known {
		return math.Inf(1)
	}
	return o.Value
}

// OptInt is an int that may be unknown. The zero value is unknown.
type OptInt struct {
	Value int
	Known bool
}

// KnownInt wraps v as a known OptInt.
func KnownInt(v int) OptInt {
	return OptInt{Value: v, Known: true}
}

// UnknownInt returns the unknown sentinel.
func UnknownInt() OptInt {
	return OptInt{}
}

// OrWorstCount returns the value, or -1 when unknown. Used as the ranking
// order for review counts: an unknown count sorts below any real count.
func (o OptInt) OrWorstCount() int {
	if !o.Known {
		return -1
	}
	return o.Value
}
