package model

// MakeDivisible rounds v to the nearest multiple of divisor, never going
// below minValue (divisor when omitted) and never more than 10% below v.
// This is the channel rounding rule used throughout the MobileNet family
// so every layer width stays hardware-friendly.
func MakeDivisible(v float64, divisor int, minValue ...int) int {
	minV := divisor
	if len(minValue) > 0 {
		minV = minValue[0]
	}
	newV := int(v+float64(divisor)/2) / divisor * divisor
	if newV < minV {
		newV = minV
	}
	// Rounding down by more than 10% loses too much capacity; bump up.
	if float64(newV) < 0.9*v {
		newV += divisor
	}
	return newV
}

// stemDivisor returns the channel rounding divisor for a width multiplier.
// The 0.1 multiplier uses 4 so the tiny network keeps nonzero widths.
func stemDivisor(widthMult float64) int {
	if widthMult == 0.1 {
		return 4
	}
	return 8
}
