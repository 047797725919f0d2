package command

import (
	"math"
	"strconv"
)

// appendFloat is a shortest-round-trip float formatter, switching
// between %f and %e the same way Redis's own double-to-string
// conversion does, to keep scores looking the way real Redis clients
// expect them to look.
func appendFloat(b []byte, v float64, bitsize int) []byte {
	fmt := byte('f')
	abs := math.Abs(v)
	if abs != 0 {
		if bitsize == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bitsize == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			fmt = 'e'
		}
	}
	return strconv.AppendFloat(b, v, fmt, -1, bitsize)
}

// formatScore renders a sorted-set score as Redis does for ZSCORE,
// ZINCRBY and ZADD INCR: the textual form of the double, emitted as-is.
func formatScore(v float64) string {
	return string(appendFloat(nil, v, 64))
}

// formatScoreInteger is like formatScore but additionally strips a
// trailing ".0", the convention ZPOPMIN/ZPOPMAX/ZSCAN and the ZRANGE
// family's WITHSCORES replies use ("1.0" -> "1").
func formatScoreInteger(v float64) string {
	s := formatScore(v)
	if len(s) > 2 && s[len(s)-2] == '.' && s[len(s)-1] == '0' {
		return s[:len(s)-2]
	}
	return s
}
