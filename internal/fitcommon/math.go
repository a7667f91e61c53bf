package fitcommon

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
