package command

import (
	"sort"

	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func init() {
	register("SADD", cmdSadd)
	register("SREM", cmdSrem)
	register("SCARD", cmdScard)
	register("SISMEMBER", cmdSismember)
	register("SMEMBERS", cmdSmembers)
	register("SDIFF", cmdSdiff)
	register("SDIFFSTORE", cmdSdiffstore)
	register("SINTER", cmdSinter)
	register("SINTERSTORE", cmdSinterstore)
	register("SUNION", cmdSunion)
	register("SUNIONSTORE", cmdSunionstore)
	register("SMOVE", cmdSmove)
	register("SPOP", cmdSpop)
	register("SRANDMEMBER", cmdSrandmember)
	register("SSCAN", cmdSscan)
}

func sortedSetMembers(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func cmdSadd(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("sadd")
	}
	key := string(args[1])
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	set := tx.GetSet(key)
	if set == nil {
		set = map[string]struct{}{}
	} else {
		// don't mutate the committed container in place
		clone := make(map[string]struct{}, len(set))
		for m := range set {
			clone[m] = struct{}{}
		}
		set = clone
	}
	var added int64
	for _, m := range args[2:] {
		member := string(m)
		if _, exists := set[member]; !exists {
			set[member] = struct{}{}
			added++
		}
	}
	tx.SetSet(key, set)
	return reply.Int(added)
}

func cmdSrem(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("srem")
	}
	key := string(args[1])
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	set := tx.GetSet(key)
	if len(set) == 0 {
		return reply.Int(0)
	}
	clone := make(map[string]struct{}, len(set))
	for m := range set {
		clone[m] = struct{}{}
	}
	var removed int64
	for _, m := range args[2:] {
		member := string(m)
		if _, exists := clone[member]; exists {
			delete(clone, member)
			removed++
		}
	}
	tx.SetSet(key, clone)
	return reply.Int(removed)
}

func cmdScard(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("scard")
	}
	key := string(args[1])
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	return reply.Int(int64(len(tx.GetSet(key))))
}

func cmdSismember(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("sismember")
	}
	key := string(args[1])
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	set := tx.GetSet(key)
	if _, ok := set[string(args[2])]; ok {
		return reply.Int(1)
	}
	return reply.Int(0)
}

func cmdSmembers(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("smembers")
	}
	key := string(args[1])
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	members := sortedSetMembers(tx.GetSet(key))
	items := make([]reply.Reply, len(members))
	for i, m := range members {
		items[i] = reply.BulkFromString(m)
	}
	return reply.Arr(items)
}

// foldSets implements the left-fold over a key list used by
// SDIFF/SINTER/SUNION: the first key seeds the accumulator, each
// subsequent key combines into it via op.
func foldSets(tx *store.Tx, keys [][]byte, op func(acc, next map[string]struct{}) map[string]struct{}) (map[string]struct{}, *reply.Reply) {
	var acc map[string]struct{}
	for i, k := range keys {
		key := string(k)
		if !tx.IsSet(key) {
			r := reply.WrongType()
			return nil, &r
		}
		next := tx.GetSet(key)
		if i == 0 {
			acc = make(map[string]struct{}, len(next))
			for m := range next {
				acc[m] = struct{}{}
			}
			continue
		}
		acc = op(acc, next)
	}
	if acc == nil {
		acc = map[string]struct{}{}
	}
	return acc, nil
}

func diffOp(acc, next map[string]struct{}) map[string]struct{} {
	for m := range next {
		delete(acc, m)
	}
	return acc
}

func interOp(acc, next map[string]struct{}) map[string]struct{} {
	for m := range acc {
		if _, ok := next[m]; !ok {
			delete(acc, m)
		}
	}
	return acc
}

func unionOp(acc, next map[string]struct{}) map[string]struct{} {
	for m := range next {
		acc[m] = struct{}{}
	}
	return acc
}

func setReply(members map[string]struct{}) reply.Reply {
	sorted := sortedSetMembers(members)
	items := make([]reply.Reply, len(sorted))
	for i, m := range sorted {
		items[i] = reply.BulkFromString(m)
	}
	return reply.Arr(items)
}

func cmdSdiff(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("sdiff")
	}
	result, errReply := foldSets(tx, args[1:], diffOp)
	if errReply != nil {
		return *errReply
	}
	return setReply(result)
}

func cmdSinter(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("sinter")
	}
	result, errReply := foldSets(tx, args[1:], interOp)
	if errReply != nil {
		return *errReply
	}
	return setReply(result)
}

func cmdSunion(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("sunion")
	}
	result, errReply := foldSets(tx, args[1:], unionOp)
	if errReply != nil {
		return *errReply
	}
	return setReply(result)
}

// storeFold is shared by SDIFFSTORE/SINTERSTORE/SUNIONSTORE: compute the
// fold over the source keys, write it into dst, and return its
// cardinality.
func storeFold(tx *store.Tx, name string, args [][]byte, op func(acc, next map[string]struct{}) map[string]struct{}) reply.Reply {
	if len(args) < 3 {
		return arityErr(name)
	}
	dst := string(args[1])
	if !tx.IsSet(dst) {
		return reply.WrongType()
	}
	result, errReply := foldSets(tx, args[2:], op)
	if errReply != nil {
		return *errReply
	}
	tx.SetSet(dst, result)
	return reply.Int(int64(len(result)))
}

func cmdSdiffstore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return storeFold(tx, "sdiffstore", args, diffOp)
}

func cmdSinterstore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return storeFold(tx, "sinterstore", args, interOp)
}

func cmdSunionstore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return storeFold(tx, "sunionstore", args, unionOp)
}

// cmdSmove moves member from src to dst atomically: 1 on move, 0 if
// member was absent from src, WRONGTYPE if either key holds the wrong
// kind of value.
func cmdSmove(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("smove")
	}
	src, dst, member := string(args[1]), string(args[2]), string(args[3])
	if !tx.IsSet(src) || !tx.IsSet(dst) {
		return reply.WrongType()
	}
	srcSet := tx.GetSet(src)
	if _, ok := srcSet[member]; !ok {
		return reply.Int(0)
	}
	newSrc := make(map[string]struct{}, len(srcSet))
	for m := range srcSet {
		if m != member {
			newSrc[m] = struct{}{}
		}
	}
	dstSet := tx.GetSet(dst)
	newDst := make(map[string]struct{}, len(dstSet)+1)
	for m := range dstSet {
		newDst[m] = struct{}{}
	}
	newDst[member] = struct{}{}
	tx.SetSet(src, newSrc)
	tx.SetSet(dst, newDst)
	return reply.Int(1)
}

// cmdSpop implements SPOP key [count]: no count -> single bulk or
// NullBulk; count given -> up to count distinct members removed and
// returned as an array.
func cmdSpop(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 || len(args) > 3 {
		return arityErr("spop")
	}
	key := string(args[1])
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	set := tx.GetSet(key)
	members := sortedSetMembers(set)

	if len(args) == 2 {
		m, ok := rs.SelectOne(members)
		if !ok {
			return reply.Null()
		}
		removeFromSet(tx, key, set, m)
		return reply.BulkFromString(m)
	}

	count, ok := parseInt(args[2])
	if !ok || count < 0 {
		return reply.Errf("value is out of range, must be positive")
	}
	picked := rs.SelectN(members, int(count))
	for _, m := range picked {
		set = removeFromSetAcc(set, m)
	}
	tx.SetSet(key, set)
	items := make([]reply.Reply, len(picked))
	for i, m := range picked {
		items[i] = reply.BulkFromString(m)
	}
	return reply.Arr(items)
}

func removeFromSetAcc(set map[string]struct{}, member string) map[string]struct{} {
	clone := make(map[string]struct{}, len(set))
	for m := range set {
		if m != member {
			clone[m] = struct{}{}
		}
	}
	return clone
}

func removeFromSet(tx *store.Tx, key string, set map[string]struct{}, member string) {
	tx.SetSet(key, removeFromSetAcc(set, member))
}

// cmdSrandmember implements SRANDMEMBER key [count]: count omitted ->
// single bulk or NullBulk; count>0 -> up to count distinct members;
// count<0 -> -count members with replacement.
func cmdSrandmember(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 || len(args) > 3 {
		return arityErr("srandmember")
	}
	key := string(args[1])
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	members := sortedSetMembers(tx.GetSet(key))

	if len(args) == 2 {
		m, ok := rs.SelectOne(members)
		if !ok {
			return reply.Null()
		}
		return reply.BulkFromString(m)
	}

	count, ok := parseInt(args[2])
	if !ok {
		return reply.Errf("value is not an integer or out of range")
	}
	var picked []string
	if count < 0 {
		picked = rs.SelectNWithReplacement(members, int(-count))
	} else {
		picked = rs.SelectN(members, int(count))
	}
	items := make([]reply.Reply, len(picked))
	for i, m := range picked {
		items[i] = reply.BulkFromString(m)
	}
	return reply.Arr(items)
}

func cmdSscan(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("sscan")
	}
	key := string(args[1])
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	cursor, ok := parseInt(args[2])
	if !ok || cursor < 0 {
		return reply.Errf("invalid cursor")
	}
	opts, errReply := parseScanOptions(args[3:], "sscan")
	if errReply != nil {
		return *errReply
	}
	members := sortedSetMembers(tx.GetSet(key))
	window, next, scanErr := scanWindow(members, cursor, opts.count, opts.match)
	if scanErr != nil {
		return *scanErr
	}
	items := make([]reply.Reply, len(window))
	for i, m := range window {
		items[i] = reply.BulkFromString(m)
	}
	return reply.Arr([]reply.Reply{
		reply.BulkFromString(itoa(next)),
		reply.Arr(items),
	})
}
