package core

// The helpers below write right-aligned text into a caller-supplied buffer
// and return the index of the first byte written. They never allocate.

// formatUint writes the decimal form of n
func formatUint(buf []byte, n uint64) int {
	pos := len(buf)
	if n == 0 {
		pos--
		buf[pos] = '0'
		return pos
	}

	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return pos
}

// formatInt writes the decimal form of n, with a leading '-' when negative
func formatInt(buf []byte, n int64) int {
	if n >= 0 {
		return formatUint(buf, uint64(n))
	}

	// -(n+1)+1 keeps math.MinInt64 in range
	pos := formatUint(buf, uint64(-(n+1))+1)
	pos--
	buf[pos] = '-'
	return pos
}

// formatFixed writes f in fixed point with two fractional digits, rounding
// half away from zero. NaN becomes "nan". Infinities and magnitudes that do
// not fit a uint64 integer part become "inf" or "-inf".
func formatFixed(buf []byte, f float64) int {
	if f != f {
		return formatText(buf, "nan")
	}

	negative := f < 0
	if negative {
		f = -f
	}
	if f >= 1e19 {
		if negative {
			return formatText(buf, "-inf")
		}
		return formatText(buf, "inf")
	}

	whole := uint64(f)
	frac := uint64((f-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}

	pos := len(buf)
	pos--
	buf[pos] = byte('0' + frac%10)
	pos--
	buf[pos] = byte('0' + frac/10)
	pos--
	buf[pos] = '.'
	pos = formatUint(buf[:pos], whole)

	// No "-0.00"
	if negative && (whole != 0 || frac != 0) {
		pos--
		buf[pos] = '-'
	}
	return pos
}

// formatText right-aligns a short constant
func formatText(buf []byte, s string) int {
	pos := len(buf) - len(s)
	copy(buf[pos:], s)
	return pos
}
