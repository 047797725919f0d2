package command

import (
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func init() {
	register("LPUSH", cmdLpush)
	register("RPUSH", cmdRpush)
	register("LPUSHX", cmdLpushx)
	register("RPUSHX", cmdRpushx)
	register("LPOP", cmdLpop)
	register("RPOP", cmdRpop)
	register("LLEN", cmdLlen)
	register("LRANGE", cmdLrange)
	register("LINDEX", cmdLindex)
	register("LINSERT", cmdLinsert)
	register("LREM", cmdLrem)
	register("LSET", cmdLset)
	register("LTRIM", cmdLtrim)
	register("RPOPLPUSH", cmdRpoplpush)
	register("LMOVE", cmdLmove)
	register("LPOS", cmdLpos)
}

func cloneList(v [][]byte) [][]byte {
	out := make([][]byte, len(v))
	copy(out, v)
	return out
}

// cmdLpush implements LPUSH: each value is pushed to the head in turn, so
// the arg list ends up reversed relative to its own order.
func cmdLpush(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("lpush")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := cloneList(tx.GetList(key))
	for _, v := range args[2:] {
		list = append([][]byte{append([]byte(nil), v...)}, list...)
	}
	tx.SetList(key, list)
	return reply.Int(int64(len(list)))
}

func cmdRpush(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("rpush")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := cloneList(tx.GetList(key))
	for _, v := range args[2:] {
		list = append(list, append([]byte(nil), v...))
	}
	tx.SetList(key, list)
	return reply.Int(int64(len(list)))
}

func cmdLpushx(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("lpushx")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	if tx.KindOf(key) == store.None {
		return reply.Int(0)
	}
	return cmdLpush(tx, rs, args)
}

func cmdRpushx(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("rpushx")
	}
	key := string(args[1])
	if tx.KindOf(key) == store.None {
		return reply.Int(0)
	}
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	return cmdRpush(tx, rs, args)
}

// popN implements the shared LPOP/RPOP [count] semantics: count omitted ->
// single bulk or NullBulk; count given -> array of up to count elements,
// symmetric to SPOP's count form.
func popN(tx *store.Tx, args [][]byte, name string, fromHead bool) reply.Reply {
	if len(args) < 2 || len(args) > 3 {
		return arityErr(name)
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := tx.GetList(key)

	if len(args) == 2 {
		if len(list) == 0 {
			return reply.Null()
		}
		var v []byte
		clone := cloneList(list)
		if fromHead {
			v, clone = clone[0], clone[1:]
		} else {
			last := len(clone) - 1
			v, clone = clone[last], clone[:last]
		}
		tx.SetList(key, clone)
		return reply.Bulk(v)
	}

	count, ok := parseInt(args[2])
	if !ok || count < 0 {
		return reply.Errf("value is out of range, must be positive")
	}
	n := int(count)
	if n > len(list) {
		n = len(list)
	}
	clone := cloneList(list)
	var popped [][]byte
	if fromHead {
		popped, clone = clone[:n], clone[n:]
	} else {
		popped, clone = clone[len(clone)-n:], clone[:len(clone)-n]
		reverseBytes(popped)
	}
	tx.SetList(key, clone)
	items := make([]reply.Reply, len(popped))
	for i, v := range popped {
		items[i] = reply.Bulk(v)
	}
	return reply.Arr(items)
}

func reverseBytes(s [][]byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func cmdLpop(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return popN(tx, args, "lpop", true)
}

func cmdRpop(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return popN(tx, args, "rpop", false)
}

func cmdLlen(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("llen")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	return reply.Int(int64(len(tx.GetList(key))))
}

func cmdLrange(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("lrange")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return reply.Errf("value is not an integer or out of range")
	}
	list := tx.GetList(key)
	lo, hi, ok := clampRange(start, stop, len(list))
	if !ok {
		return reply.Arr([]reply.Reply{})
	}
	items := make([]reply.Reply, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		items = append(items, reply.Bulk(list[i]))
	}
	return reply.Arr(items)
}

func cmdLindex(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("lindex")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	idx, ok := parseInt(args[2])
	if !ok {
		return reply.Errf("value is not an integer or out of range")
	}
	list := tx.GetList(key)
	i := normalizeIndex(int(idx), len(list))
	if i < 0 || i >= len(list) {
		return reply.Null()
	}
	return reply.Bulk(list[i])
}

// cmdLinsert implements LINSERT key BEFORE|AFTER pivot element: new length,
// 0 if key missing, -1 if pivot not found.
func cmdLinsert(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 5 {
		return arityErr("linsert")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	var before bool
	switch {
	case eqFold(args[2], "BEFORE"):
		before = true
	case eqFold(args[2], "AFTER"):
		before = false
	default:
		return reply.Err("ERR syntax error")
	}
	list := tx.GetList(key)
	if len(list) == 0 && tx.KindOf(key) == store.None {
		return reply.Int(0)
	}
	pivot := args[3]
	pos := -1
	for i, v := range list {
		if string(v) == string(pivot) {
			pos = i
			break
		}
	}
	if pos == -1 {
		return reply.Int(-1)
	}
	clone := cloneList(list)
	insertAt := pos
	if !before {
		insertAt = pos + 1
	}
	out := make([][]byte, 0, len(clone)+1)
	out = append(out, clone[:insertAt]...)
	out = append(out, append([]byte(nil), args[4]...))
	out = append(out, clone[insertAt:]...)
	tx.SetList(key, out)
	return reply.Int(int64(len(out)))
}

// cmdLrem implements LREM key count element: count>0 removes up to count
// from the head, count<0 from the tail, count==0 removes all occurrences.
func cmdLrem(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("lrem")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	count, ok := parseInt(args[2])
	if !ok {
		return reply.Errf("value is not an integer or out of range")
	}
	elem := args[3]
	list := tx.GetList(key)

	out := make([][]byte, 0, len(list))
	var removed int64
	if count >= 0 {
		limit := count
		for _, v := range list {
			if (limit == 0 || removed < limit) && string(v) == string(elem) {
				removed++
				continue
			}
			out = append(out, v)
		}
	} else {
		limit := -count
		for i := len(list) - 1; i >= 0; i-- {
			v := list[i]
			if removed < limit && string(v) == string(elem) {
				removed++
				continue
			}
			out = append([][]byte{v}, out...)
		}
	}
	tx.SetList(key, out)
	return reply.Int(removed)
}

// cmdLset implements LSET key index element. A negative index is resolved
// with normalizeIndex like LINDEX/LRANGE/LTRIM, so -1 is the last element.
func cmdLset(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("lset")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	idx, ok := parseInt(args[2])
	if !ok {
		return reply.Errf("value is not an integer or out of range")
	}
	list := tx.GetList(key)
	i := normalizeIndex(int(idx), len(list))
	if i < 0 || i >= len(list) {
		return reply.IndexOutOfRange()
	}
	clone := cloneList(list)
	clone[i] = append([]byte(nil), args[3]...)
	tx.SetList(key, clone)
	return reply.OK()
}

func cmdLtrim(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("ltrim")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return reply.Errf("value is not an integer or out of range")
	}
	list := tx.GetList(key)
	lo, hi, ok := clampRange(start, stop, len(list))
	if !ok {
		tx.SetList(key, [][]byte{})
		return reply.OK()
	}
	tx.SetList(key, cloneList(list[lo:hi+1]))
	return reply.OK()
}

// moveOne implements the shared core of RPOPLPUSH/LMOVE: pop from one end
// of src, push to one end of dst, atomically. src==dst is handled by
// operating on the already-updated list, so the popped element can land
// back in the same list.
func moveOne(tx *store.Tx, src, dst string, popLeft, pushLeft bool) ([]byte, bool) {
	srcList := tx.GetList(src)
	if len(srcList) == 0 {
		return nil, false
	}
	clone := cloneList(srcList)
	var v []byte
	if popLeft {
		v, clone = clone[0], clone[1:]
	} else {
		last := len(clone) - 1
		v, clone = clone[last], clone[:last]
	}
	tx.SetList(src, clone)

	var dstList [][]byte
	if src == dst {
		dstList = clone
	} else {
		dstList = cloneList(tx.GetList(dst))
	}
	if pushLeft {
		dstList = append([][]byte{v}, dstList...)
	} else {
		dstList = append(dstList, v)
	}
	tx.SetList(dst, dstList)
	return v, true
}

func cmdRpoplpush(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("rpoplpush")
	}
	src, dst := string(args[1]), string(args[2])
	if !tx.IsList(src) || !tx.IsList(dst) {
		return reply.WrongType()
	}
	v, ok := moveOne(tx, src, dst, false, true)
	if !ok {
		return reply.Null()
	}
	return reply.Bulk(v)
}

func cmdLmove(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 5 {
		return arityErr("lmove")
	}
	src, dst := string(args[1]), string(args[2])
	if !tx.IsList(src) || !tx.IsList(dst) {
		return reply.WrongType()
	}
	popLeft, ok1 := sideFlag(args[3])
	pushLeft, ok2 := sideFlag(args[4])
	if !ok1 || !ok2 {
		return reply.Err("ERR syntax error")
	}
	v, ok := moveOne(tx, src, dst, popLeft, pushLeft)
	if !ok {
		return reply.Null()
	}
	return reply.Bulk(v)
}

func sideFlag(b []byte) (left bool, ok bool) {
	switch {
	case eqFold(b, "LEFT"):
		return true, true
	case eqFold(b, "RIGHT"):
		return false, true
	default:
		return false, false
	}
}

// cmdLpos implements LPOS key element [RANK r] [COUNT c] [MAXLEN m]:
// RANK<0 searches right-to-left; with COUNT, returns an array of
// positions (possibly empty); without COUNT, a single integer or NullBulk.
// MAXLEN truncates the search window from whichever end RANK searches from.
func cmdLpos(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("lpos")
	}
	key := string(args[1])
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	elem := args[2]

	rank := int64(1)
	var count *int64
	var maxLen int64
	rest := args[3:]
	for len(rest) > 0 {
		switch {
		case eqFold(rest[0], "RANK") && len(rest) >= 2:
			n, ok := parseInt(rest[1])
			if !ok || n == 0 {
				return reply.Errf("RANK can't be zero")
			}
			rank = n
			rest = rest[2:]
		case eqFold(rest[0], "COUNT") && len(rest) >= 2:
			n, ok := parseInt(rest[1])
			if !ok || n < 0 {
				return reply.Errf("COUNT can't be negative")
			}
			count = &n
			rest = rest[2:]
		case eqFold(rest[0], "MAXLEN") && len(rest) >= 2:
			n, ok := parseInt(rest[1])
			if !ok || n < 0 {
				return reply.Errf("MAXLEN can't be negative")
			}
			maxLen = n
			rest = rest[2:]
		default:
			return reply.Err("ERR syntax error")
		}
	}

	list := tx.GetList(key)
	var positions []int64
	rightToLeft := rank < 0
	skip := rank
	if rightToLeft {
		skip = -rank
	}
	skip-- // rank is 1-based: the first match satisfies skip==0

	var scanned int64
	visit := func(i int) bool {
		if maxLen > 0 && scanned >= maxLen {
			return false
		}
		scanned++
		if string(list[i]) != string(elem) {
			return true
		}
		if skip > 0 {
			skip--
			return true
		}
		positions = append(positions, int64(i))
		return count == nil || *count == 0 || int64(len(positions)) < *count
	}

	if rightToLeft {
		for i := len(list) - 1; i >= 0; i-- {
			if !visit(i) {
				break
			}
		}
	} else {
		for i := 0; i < len(list); i++ {
			if !visit(i) {
				break
			}
		}
	}

	if count == nil {
		if len(positions) == 0 {
			return reply.Null()
		}
		return reply.Int(positions[0])
	}
	items := make([]reply.Reply, len(positions))
	for i, p := range positions {
		items[i] = reply.Int(p)
	}
	return reply.Arr(items)
}
