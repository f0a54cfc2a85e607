package conv

// AppendInt appends the base-10 representation of n to dst and returns the
// extended slice. Negative numbers supported. No fmt/strconv dependency so
// the command path stays allocation-free on MCU builds.
func AppendInt(dst []byte, n int64) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	var tmp [20]byte // enough for int64
	i := len(tmp)
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	for u > 0 {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
	}
	if neg {
		i--
		tmp[i] = '-'
	}
	return append(dst, tmp[i:]...)
}
