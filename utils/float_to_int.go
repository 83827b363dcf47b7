package utils

// FloatToInt16 converts a normalized sample to 16-bit PCM.
func FloatToInt16(x float64) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// FloatToInt24 converts a normalized sample to a 24-bit PCM value held in an
// int. The result fits in 3 little-endian bytes.
func FloatToInt24(x float64) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int(x * 8388607.0)
}
