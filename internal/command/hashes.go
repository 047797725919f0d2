package command

import (
	"sort"

	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func init() {
	register("HSET", cmdHset)
	register("HMSET", cmdHmset)
	register("HSETNX", cmdHsetnx)
	register("HGET", cmdHget)
	register("HMGET", cmdHmget)
	register("HDEL", cmdHdel)
	register("HEXISTS", cmdHexists)
	register("HKEYS", cmdHkeys)
	register("HVALS", cmdHvals)
	register("HLEN", cmdHlen)
	register("HGETALL", cmdHgetall)
	register("HSTRLEN", cmdHstrlen)
	register("HINCRBY", cmdHincrby)
	register("HINCRBYFLOAT", cmdHincrbyfloat)
	register("HSCAN", cmdHscan)
	register("HRANDFIELD", cmdHrandfield)
}

func cloneHash(h map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// cmdHset implements both HSET and HMSET's field/value pair form; HSET
// returns the number of new fields added, HMSET always replies OK.
func cmdHset(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 4 || len(args)%2 != 0 {
		return arityErr("hset")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	h := cloneHash(tx.GetHash(key))
	var added int64
	for i := 2; i < len(args); i += 2 {
		field, value := string(args[i]), args[i+1]
		if _, exists := h[field]; !exists {
			added++
		}
		h[field] = append([]byte(nil), value...)
	}
	tx.SetHash(key, h)
	return reply.Int(added)
}

func cmdHmset(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 4 || len(args)%2 != 0 {
		return arityErr("hmset")
	}
	r := cmdHset(tx, rs, args)
	if r.IsError() {
		return r
	}
	return reply.OK()
}

func cmdHsetnx(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("hsetnx")
	}
	key, field := string(args[1]), string(args[2])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	h := tx.GetHash(key)
	if _, exists := h[field]; exists {
		return reply.Int(0)
	}
	clone := cloneHash(h)
	clone[field] = append([]byte(nil), args[3]...)
	tx.SetHash(key, clone)
	return reply.Int(1)
}

func cmdHget(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("hget")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	v, ok := tx.GetHash(key)[string(args[2])]
	if !ok {
		return reply.Null()
	}
	return reply.Bulk(v)
}

func cmdHmget(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("hmget")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	h := tx.GetHash(key)
	items := make([]reply.Reply, len(args)-2)
	for i, f := range args[2:] {
		if v, ok := h[string(f)]; ok {
			items[i] = reply.Bulk(v)
		} else {
			items[i] = reply.Null()
		}
	}
	return reply.Arr(items)
}

// cmdHdel implements HDEL: removing the last field deletes the hash
// entirely, per Tx.SetHash's documented exception for empty containers.
func cmdHdel(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("hdel")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	h := tx.GetHash(key)
	if len(h) == 0 {
		return reply.Int(0)
	}
	clone := cloneHash(h)
	var removed int64
	for _, f := range args[2:] {
		field := string(f)
		if _, ok := clone[field]; ok {
			delete(clone, field)
			removed++
		}
	}
	tx.SetHash(key, clone)
	return reply.Int(removed)
}

func cmdHexists(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("hexists")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	_, ok := tx.GetHash(key)[string(args[2])]
	if ok {
		return reply.Int(1)
	}
	return reply.Int(0)
}

func cmdHkeys(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("hkeys")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	fields := sortedHashFields(tx.GetHash(key))
	items := make([]reply.Reply, len(fields))
	for i, f := range fields {
		items[i] = reply.BulkFromString(f)
	}
	return reply.Arr(items)
}

func cmdHvals(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("hvals")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	h := tx.GetHash(key)
	fields := sortedHashFields(h)
	items := make([]reply.Reply, len(fields))
	for i, f := range fields {
		items[i] = reply.Bulk(h[f])
	}
	return reply.Arr(items)
}

func cmdHlen(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("hlen")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	return reply.Int(int64(len(tx.GetHash(key))))
}

func cmdHgetall(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("hgetall")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	h := tx.GetHash(key)
	fields := sortedHashFields(h)
	items := make([]reply.Reply, 0, len(fields)*2)
	for _, f := range fields {
		items = append(items, reply.BulkFromString(f), reply.Bulk(h[f]))
	}
	return reply.Arr(items)
}

func cmdHstrlen(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("hstrlen")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	v := tx.GetHash(key)[string(args[2])]
	return reply.Int(int64(len(v)))
}

func cmdHincrby(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("hincrby")
	}
	key, field := string(args[1]), string(args[2])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	delta, ok := parseInt(args[3])
	if !ok {
		return reply.Errf("value is not an integer or out of range")
	}
	h := tx.GetHash(key)
	var cur int64
	if v, exists := h[field]; exists {
		n, ok := parseInt(v)
		if !ok {
			return reply.Errf("hash value is not an integer")
		}
		cur = n
	}
	cur += delta
	clone := cloneHash(h)
	clone[field] = []byte(itoa(cur))
	tx.SetHash(key, clone)
	return reply.Int(cur)
}

func cmdHincrbyfloat(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("hincrbyfloat")
	}
	key, field := string(args[1]), string(args[2])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	delta, ok := parseFloat(args[3])
	if !ok {
		return reply.Errf("value is not a valid float")
	}
	h := tx.GetHash(key)
	var cur float64
	if v, exists := h[field]; exists {
		f, ok := parseFloat(v)
		if !ok {
			return reply.Errf("hash value is not a float")
		}
		cur = f
	}
	cur += delta
	clone := cloneHash(h)
	text := formatScore(cur)
	clone[field] = []byte(text)
	tx.SetHash(key, clone)
	return reply.BulkFromString(text)
}

func cmdHscan(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("hscan")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	cursor, ok := parseInt(args[2])
	if !ok || cursor < 0 {
		return reply.Errf("invalid cursor")
	}
	opts, errReply := parseScanOptions(args[3:], "hscan")
	if errReply != nil {
		return *errReply
	}
	h := tx.GetHash(key)
	fields := sortedHashFields(h)
	window, next, scanErr := scanWindow(fields, cursor, opts.count, opts.match)
	if scanErr != nil {
		return *scanErr
	}
	items := make([]reply.Reply, 0, len(window)*2)
	for _, f := range window {
		items = append(items, reply.BulkFromString(f), reply.Bulk(h[f]))
	}
	return reply.Arr([]reply.Reply{
		reply.BulkFromString(itoa(next)),
		reply.Arr(items),
	})
}

// cmdHrandfield implements HRANDFIELD key [count [WITHVALUES]]: mirrors
// SRANDMEMBER's count semantics over the hash's field set.
func cmdHrandfield(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 || len(args) > 4 {
		return arityErr("hrandfield")
	}
	key := string(args[1])
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	h := tx.GetHash(key)
	fields := sortedHashFields(h)

	if len(args) == 2 {
		f, ok := rs.SelectOne(fields)
		if !ok {
			return reply.Null()
		}
		return reply.BulkFromString(f)
	}

	count, ok := parseInt(args[2])
	if !ok {
		return reply.Errf("value is not an integer or out of range")
	}
	withValues := false
	if len(args) == 4 {
		if !eqFold(args[3], "WITHVALUES") {
			return reply.Err("ERR syntax error")
		}
		withValues = true
	}
	var picked []string
	if count < 0 {
		picked = rs.SelectNWithReplacement(fields, int(-count))
	} else {
		picked = rs.SelectN(fields, int(count))
	}
	if !withValues {
		items := make([]reply.Reply, len(picked))
		for i, f := range picked {
			items[i] = reply.BulkFromString(f)
		}
		return reply.Arr(items)
	}
	items := make([]reply.Reply, 0, len(picked)*2)
	for _, f := range picked {
		items = append(items, reply.BulkFromString(f), reply.Bulk(h[f]))
	}
	return reply.Arr(items)
}

func sortedHashFields(h map[string][]byte) []string {
	out := make([]string, 0, len(h))
	for f := range h {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
