package command

import "github.com/rsms/go-bits"

// zaddFlagSet is a bitset over ZADD's six option tokens, the same
// uint64-bitset-plus-PopcountUint64 idiom fieldset.go uses to validate
// field combinations — here repurposed to validate that NX/XX/GT/LT name
// at most one comparison mode.
type zaddFlagSet uint32

const (
	zaddNX zaddFlagSet = 1 << iota
	zaddXX
	zaddGT
	zaddLT
	zaddCH
	zaddIncr
)

func (f zaddFlagSet) has(bit zaddFlagSet) bool { return f&bit != 0 }

// comparisonModeCount returns how many of NX/XX/GT/LT were named; ZADD
// rejects more than one.
func (f zaddFlagSet) comparisonModeCount() int {
	return bits.PopcountUint64(uint64(f & (zaddNX | zaddXX | zaddGT | zaddLT)))
}

func parseZaddFlagSet(args [][]byte) (zaddFlagSet, [][]byte) {
	var f zaddFlagSet
	i := 0
	for i < len(args) {
		switch {
		case eqFold(args[i], "NX"):
			f |= zaddNX
		case eqFold(args[i], "XX"):
			f |= zaddXX
		case eqFold(args[i], "GT"):
			f |= zaddGT
		case eqFold(args[i], "LT"):
			f |= zaddLT
		case eqFold(args[i], "CH"):
			f |= zaddCH
		case eqFold(args[i], "INCR"):
			f |= zaddIncr
		default:
			return f, args[i:]
		}
		i++
	}
	return f, args[i:]
}
