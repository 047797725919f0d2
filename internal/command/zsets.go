package command

import (
	"sort"

	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func init() {
	register("ZADD", cmdZadd)
	register("ZCARD", cmdZcard)
	register("ZCOUNT", cmdZcount)
	register("ZSCORE", cmdZscore)
	register("ZMSCORE", cmdZmscore)
	register("ZRANK", cmdZrank)
	register("ZREVRANK", cmdZrevrank)
	register("ZINCRBY", cmdZincrby)
	register("ZRANGE", cmdZrange)
	register("ZREVRANGE", cmdZrevrange)
	register("ZRANGEBYSCORE", cmdZrangebyscore)
	register("ZREVRANGEBYSCORE", cmdZrevrangebyscore)
	register("ZRANGEBYLEX", cmdZrangebylex)
	register("ZREVRANGEBYLEX", cmdZrevrangebylex)
	register("ZLEXCOUNT", cmdZlexcount)
	register("ZREMRANGEBYLEX", cmdZremrangebylex)
	register("ZREMRANGEBYRANK", cmdZremrangebyrank)
	register("ZREMRANGEBYSCORE", cmdZremrangebyscore)
	register("ZPOPMIN", cmdZpopmin)
	register("ZPOPMAX", cmdZpopmax)
	register("ZDIFF", cmdZdiff)
	register("ZDIFFSTORE", cmdZdiffstore)
	register("ZINTER", cmdZinter)
	register("ZINTERSTORE", cmdZinterstore)
	register("ZUNION", cmdZunion)
	register("ZUNIONSTORE", cmdZunionstore)
	register("ZRANDMEMBER", cmdZrandmember)
	register("ZSCAN", cmdZscan)
}

type zEntry struct {
	member string
	score  float64
}

// sortedZSet orders entries by (score, member) ascending, the order every
// rank-based zset operation is defined against.
func sortedZSet(z map[string]float64) []zEntry {
	out := make([]zEntry, 0, len(z))
	for m, sc := range z {
		out = append(out, zEntry{m, sc})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score < out[j].score
		}
		return out[i].member < out[j].member
	})
	return out
}

func cloneZSet(z map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(z))
	for m, sc := range z {
		out[m] = sc
	}
	return out
}

// flattenZEntries renders entries as [member, score, member, score, ...] (or
// just [member, member, ...] without WITHSCORES). Scores use the
// trailing-".0"-stripped form used for pop/range replies.
func flattenZEntries(entries []zEntry, withScores bool) []reply.Reply {
	items := make([]reply.Reply, 0, len(entries))
	for _, e := range entries {
		items = append(items, reply.BulkFromString(e.member))
		if withScores {
			items = append(items, reply.BulkFromString(formatScoreInteger(e.score)))
		}
	}
	return items
}

// --- ZADD ---

// cmdZadd implements ZADD key [XX|NX|LT|GT] [CH] [INCR] score member ....
// NX/XX/GT/LT are mutually exclusive the way real Redis validates them.
// GT/LT compare only scores: an existing member is updated under GT iff
// the new score is greater than the old one, under LT iff it is smaller.
func cmdZadd(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 4 {
		return arityErr("zadd")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	flags, rest := parseZaddFlagSet(args[2:])
	if flags.comparisonModeCount() > 1 {
		return reply.Err("ERR GT, LT, and/or NX options at the same time are not compatible")
	}
	if len(rest) == 0 || len(rest)%2 != 0 {
		return arityErr("zadd")
	}
	if flags.has(zaddIncr) && len(rest) != 2 {
		return reply.Err("ERR INCR option supports a single increment-element pair")
	}

	z := cloneZSet(tx.GetZSet(key))

	if flags.has(zaddIncr) {
		scoreTok, member := rest[0], string(rest[1])
		delta, ok := parseFloat(scoreTok)
		if !ok {
			return reply.Errf("value is not a valid float")
		}
		old, exists := z[member]
		if (flags.has(zaddNX) && exists) || (flags.has(zaddXX) && !exists) {
			return reply.Null()
		}
		newScore := delta
		if exists {
			newScore = old + delta
		}
		if exists && flags.has(zaddGT) && newScore <= old {
			return reply.Null()
		}
		if exists && flags.has(zaddLT) && newScore >= old {
			return reply.Null()
		}
		z[member] = newScore
		tx.SetZSet(key, z)
		return reply.BulkFromString(formatScore(newScore))
	}

	var added, changed int64
	for i := 0; i < len(rest); i += 2 {
		score, ok := parseFloat(rest[i])
		if !ok {
			return reply.Errf("value is not a valid float")
		}
		member := string(rest[i+1])
		old, exists := z[member]
		if flags.has(zaddNX) && exists {
			continue
		}
		if flags.has(zaddXX) && !exists {
			continue
		}
		if exists {
			if flags.has(zaddGT) && score <= old {
				continue
			}
			if flags.has(zaddLT) && score >= old {
				continue
			}
			if score != old {
				changed++
			}
		} else {
			added++
			changed++
		}
		z[member] = score
	}
	tx.SetZSet(key, z)
	if flags.has(zaddCH) {
		return reply.Int(changed)
	}
	return reply.Int(added)
}

func cmdZcard(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("zcard")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	return reply.Int(int64(len(tx.GetZSet(key))))
}

func cmdZcount(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("zcount")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	min, ok1 := parseScoreBound(args[2])
	max, ok2 := parseScoreBound(args[3])
	if !ok1 || !ok2 {
		return reply.Errf("min or max is not a float")
	}
	var n int64
	for _, sc := range tx.GetZSet(key) {
		if min.satisfiesMin(sc) && max.satisfiesMax(sc) {
			n++
		}
	}
	return reply.Int(n)
}

func cmdZscore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("zscore")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	sc, ok := tx.GetZSet(key)[string(args[2])]
	if !ok {
		return reply.Null()
	}
	return reply.BulkFromString(formatScore(sc))
}

func cmdZmscore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("zmscore")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	z := tx.GetZSet(key)
	items := make([]reply.Reply, len(args)-2)
	for i, m := range args[2:] {
		if sc, ok := z[string(m)]; ok {
			items[i] = reply.BulkFromString(formatScore(sc))
		} else {
			items[i] = reply.Null()
		}
	}
	return reply.Arr(items)
}

func rankOf(z map[string]float64, member string, reverse bool) (int64, bool) {
	if _, ok := z[member]; !ok {
		return 0, false
	}
	entries := sortedZSet(z)
	if reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	for i, e := range entries {
		if e.member == member {
			return int64(i), true
		}
	}
	return 0, false
}

func cmdZrank(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("zrank")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	rank, ok := rankOf(tx.GetZSet(key), string(args[2]), false)
	if !ok {
		return reply.Null()
	}
	return reply.Int(rank)
}

func cmdZrevrank(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 3 {
		return arityErr("zrevrank")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	rank, ok := rankOf(tx.GetZSet(key), string(args[2]), true)
	if !ok {
		return reply.Null()
	}
	return reply.Int(rank)
}

func cmdZincrby(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("zincrby")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	delta, ok := parseFloat(args[2])
	if !ok {
		return reply.Errf("value is not a valid float")
	}
	member := string(args[3])
	z := cloneZSet(tx.GetZSet(key))
	z[member] += delta
	tx.SetZSet(key, z)
	return reply.BulkFromString(formatScore(z[member]))
}

// --- ZRANGE family (by rank) ---

func zrangeByRank(tx *store.Tx, args [][]byte, name string, reverse bool) reply.Reply {
	if len(args) < 4 {
		return arityErr(name)
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return reply.Errf("value is not an integer or out of range")
	}
	withScores := false
	if len(args) == 5 && eqFold(args[4], "WITHSCORES") {
		withScores = true
	} else if len(args) > 4 {
		return reply.Err("ERR syntax error")
	}
	entries := sortedZSet(tx.GetZSet(key))
	if reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	lo, hi, ok := clampRange(start, stop, len(entries))
	if !ok {
		return reply.Arr([]reply.Reply{})
	}
	return reply.Arr(flattenZEntries(entries[lo:hi+1], withScores))
}

func cmdZrange(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return zrangeByRank(tx, args, "zrange", false)
}

func cmdZrevrange(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return zrangeByRank(tx, args, "zrevrange", true)
}

// --- ZRANGEBYSCORE family ---

func zrangeByScore(tx *store.Tx, args [][]byte, name string, reverse bool) reply.Reply {
	if len(args) < 4 {
		return arityErr(name)
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	minTok, maxTok := args[2], args[3]
	if reverse {
		minTok, maxTok = args[3], args[2]
	}
	min, ok1 := parseScoreBound(minTok)
	max, ok2 := parseScoreBound(maxTok)
	if !ok1 || !ok2 {
		return reply.Errf("min or max is not a float")
	}

	withScores := false
	var limitOffset, limitCount int64 = 0, -1
	rest := args[4:]
	for len(rest) > 0 {
		switch {
		case eqFold(rest[0], "WITHSCORES"):
			withScores = true
			rest = rest[1:]
		case eqFold(rest[0], "LIMIT") && len(rest) >= 3:
			off, ok1 := parseInt(rest[1])
			cnt, ok2 := parseInt(rest[2])
			if !ok1 || !ok2 {
				return reply.Errf("value is not an integer or out of range")
			}
			limitOffset, limitCount = off, cnt
			rest = rest[3:]
		default:
			return reply.Err("ERR syntax error")
		}
	}

	entries := sortedZSet(tx.GetZSet(key))
	if reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	filtered := make([]zEntry, 0, len(entries))
	for _, e := range entries {
		if min.satisfiesMin(e.score) && max.satisfiesMax(e.score) {
			filtered = append(filtered, e)
		}
	}
	if limitCount >= 0 {
		lo := int(limitOffset)
		if lo < 0 {
			lo = 0
		}
		if lo > len(filtered) {
			lo = len(filtered)
		}
		hi := lo + int(limitCount)
		if limitCount < 0 || hi > len(filtered) {
			hi = len(filtered)
		}
		filtered = filtered[lo:hi]
	}
	return reply.Arr(flattenZEntries(filtered, withScores))
}

func cmdZrangebyscore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return zrangeByScore(tx, args, "zrangebyscore", false)
}

func cmdZrevrangebyscore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return zrangeByScore(tx, args, "zrevrangebyscore", true)
}

// --- ZRANGEBYLEX family ---

func zrangeByLex(tx *store.Tx, args [][]byte, name string, reverse bool) reply.Reply {
	if len(args) != 4 {
		return arityErr(name)
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	minTok, maxTok := args[2], args[3]
	if reverse {
		minTok, maxTok = args[3], args[2]
	}
	min, ok1 := parseLexBound(minTok)
	max, ok2 := parseLexBound(maxTok)
	if !ok1 || !ok2 {
		return reply.Err("ERR min or max not valid string range item")
	}
	entries := sortedZSet(tx.GetZSet(key))
	if reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	items := make([]reply.Reply, 0, len(entries))
	for _, e := range entries {
		if min.satisfiesMin(e.member) && max.satisfiesMax(e.member) {
			items = append(items, reply.BulkFromString(e.member))
		}
	}
	return reply.Arr(items)
}

func cmdZrangebylex(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return zrangeByLex(tx, args, "zrangebylex", false)
}

func cmdZrevrangebylex(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return zrangeByLex(tx, args, "zrevrangebylex", true)
}

func cmdZlexcount(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("zlexcount")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	min, ok1 := parseLexBound(args[2])
	max, ok2 := parseLexBound(args[3])
	if !ok1 || !ok2 {
		return reply.Err("ERR min or max not valid string range item")
	}
	var n int64
	for m := range tx.GetZSet(key) {
		if min.satisfiesMin(m) && max.satisfiesMax(m) {
			n++
		}
	}
	return reply.Int(n)
}

func cmdZremrangebylex(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("zremrangebylex")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	min, ok1 := parseLexBound(args[2])
	max, ok2 := parseLexBound(args[3])
	if !ok1 || !ok2 {
		return reply.Err("ERR min or max not valid string range item")
	}
	z := cloneZSet(tx.GetZSet(key))
	var n int64
	for m := range tx.GetZSet(key) {
		if min.satisfiesMin(m) && max.satisfiesMax(m) {
			delete(z, m)
			n++
		}
	}
	tx.SetZSet(key, z)
	return reply.Int(n)
}

func cmdZremrangebyrank(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("zremrangebyrank")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return reply.Errf("value is not an integer or out of range")
	}
	entries := sortedZSet(tx.GetZSet(key))
	lo, hi, ok := clampRange(start, stop, len(entries))
	if !ok {
		return reply.Int(0)
	}
	z := cloneZSet(tx.GetZSet(key))
	for _, e := range entries[lo : hi+1] {
		delete(z, e.member)
	}
	tx.SetZSet(key, z)
	return reply.Int(int64(hi - lo + 1))
}

func cmdZremrangebyscore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 4 {
		return arityErr("zremrangebyscore")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	min, ok1 := parseScoreBound(args[2])
	max, ok2 := parseScoreBound(args[3])
	if !ok1 || !ok2 {
		return reply.Errf("min or max is not a float")
	}
	z := cloneZSet(tx.GetZSet(key))
	var n int64
	for m, sc := range tx.GetZSet(key) {
		if min.satisfiesMin(sc) && max.satisfiesMax(sc) {
			delete(z, m)
			n++
		}
	}
	tx.SetZSet(key, z)
	return reply.Int(n)
}

// --- ZPOPMIN / ZPOPMAX ---

func zpop(tx *store.Tx, args [][]byte, name string, popMax bool) reply.Reply {
	if len(args) < 2 || len(args) > 3 {
		return arityErr(name)
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	count := int64(1)
	if len(args) == 3 {
		n, ok := parseInt(args[2])
		if !ok || n < 0 {
			return reply.Errf("value is out of range, must be positive")
		}
		count = n
	}
	entries := sortedZSet(tx.GetZSet(key))
	if popMax {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	if int64(len(entries)) > count {
		entries = entries[:count]
	}
	z := cloneZSet(tx.GetZSet(key))
	for _, e := range entries {
		delete(z, e.member)
	}
	tx.SetZSet(key, z)
	return reply.Arr(flattenZEntries(entries, true))
}

func cmdZpopmin(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return zpop(tx, args, "zpopmin", false)
}

func cmdZpopmax(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return zpop(tx, args, "zpopmax", true)
}

// --- ZDIFF/ZINTER/ZUNION family ---

func parseNumkeysAndKeys(args [][]byte, name string) ([]string, [][]byte, *reply.Reply) {
	if len(args) < 3 {
		r := arityErr(name)
		return nil, nil, &r
	}
	n, ok := parseInt(args[1])
	if !ok || n <= 0 {
		r := reply.Errf("numkeys should be greater than 0")
		return nil, nil, &r
	}
	if int64(len(args)) < 2+n {
		r := reply.Errf("number of keys does not match numkeys")
		return nil, nil, &r
	}
	keys := make([]string, n)
	for i := int64(0); i < n; i++ {
		keys[i] = string(args[2+i])
	}
	return keys, args[2+n:], nil
}

const (
	aggSum = iota
	aggMin
	aggMax
)

func parseSetOpOptions(rest [][]byte, numKeys int, supportsWeighting bool) (weights []float64, agg int, withScores bool, errReply *reply.Reply) {
	weights = make([]float64, numKeys)
	for i := range weights {
		weights[i] = 1
	}
	for len(rest) > 0 {
		switch {
		case supportsWeighting && eqFold(rest[0], "WEIGHTS") && len(rest) > numKeys:
			for i := 0; i < numKeys; i++ {
				w, ok := parseFloat(rest[1+i])
				if !ok {
					r := reply.Errf("weight value is not a float")
					return nil, 0, false, &r
				}
				weights[i] = w
			}
			rest = rest[1+numKeys:]
		case supportsWeighting && eqFold(rest[0], "AGGREGATE") && len(rest) >= 2:
			switch {
			case eqFold(rest[1], "SUM"):
				agg = aggSum
			case eqFold(rest[1], "MIN"):
				agg = aggMin
			case eqFold(rest[1], "MAX"):
				agg = aggMax
			default:
				r := reply.Err("ERR syntax error")
				return nil, 0, false, &r
			}
			rest = rest[2:]
		case eqFold(rest[0], "WITHSCORES"):
			withScores = true
			rest = rest[1:]
		default:
			r := reply.Err("ERR syntax error")
			return nil, 0, false, &r
		}
	}
	return weights, agg, withScores, nil
}

func aggregate(agg int, a, b float64) float64 {
	switch agg {
	case aggMin:
		if b < a {
			return b
		}
		return a
	case aggMax:
		if b > a {
			return b
		}
		return a
	default:
		return a + b
	}
}

// zdiff implements ZDIFF's semantics: members present in the first key and
// absent from every other key, with the first key's own (unweighted)
// score — real Redis's ZDIFF ignores WEIGHTS/AGGREGATE entirely, chosen
// here over a multi-way symmetric difference.
func zdiff(tx *store.Tx, keys []string) (map[string]float64, *reply.Reply) {
	if !tx.IsZSet(keys[0]) {
		r := reply.WrongType()
		return nil, &r
	}
	out := cloneZSet(tx.GetZSet(keys[0]))
	for _, k := range keys[1:] {
		if !tx.IsZSet(k) {
			r := reply.WrongType()
			return nil, &r
		}
		for m := range tx.GetZSet(k) {
			delete(out, m)
		}
	}
	return out, nil
}

func zsetOp(tx *store.Tx, keys []string, weights []float64, agg int, union bool) (map[string]float64, *reply.Reply) {
	out := map[string]float64{}
	for i, k := range keys {
		if !tx.IsZSet(k) {
			r := reply.WrongType()
			return nil, &r
		}
		z := tx.GetZSet(k)
		if union {
			for m, sc := range z {
				weighted := sc * weights[i]
				if cur, exists := out[m]; exists {
					out[m] = aggregate(agg, cur, weighted)
				} else {
					out[m] = weighted
				}
			}
			continue
		}
		// intersection: seed from the first key, then narrow
		if i == 0 {
			for m, sc := range z {
				out[m] = sc * weights[0]
			}
			continue
		}
		next := map[string]float64{}
		for m, cur := range out {
			if sc, ok := z[m]; ok {
				next[m] = aggregate(agg, cur, sc*weights[i])
			}
		}
		out = next
	}
	return out, nil
}

func cmdZdiff(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	keys, rest, errReply := parseNumkeysAndKeys(args, "zdiff")
	if errReply != nil {
		return *errReply
	}
	withScores := len(rest) == 1 && eqFold(rest[0], "WITHSCORES")
	if len(rest) > 0 && !withScores {
		return reply.Err("ERR syntax error")
	}
	z, errReply2 := zdiff(tx, keys)
	if errReply2 != nil {
		return *errReply2
	}
	return reply.Arr(flattenZEntries(sortedZSet(z), withScores))
}

func cmdZdiffstore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 4 {
		return arityErr("zdiffstore")
	}
	dst := string(args[1])
	if !tx.IsZSet(dst) {
		return reply.WrongType()
	}
	keys, rest, errReply := parseNumkeysAndKeys(args[1:], "zdiffstore")
	if errReply != nil {
		return *errReply
	}
	if len(rest) != 0 {
		return reply.Err("ERR syntax error")
	}
	z, errReply2 := zdiff(tx, keys)
	if errReply2 != nil {
		return *errReply2
	}
	tx.SetZSet(dst, z)
	return reply.Int(int64(len(z)))
}

func setOpCmd(tx *store.Tx, args [][]byte, name string, union bool) reply.Reply {
	keys, rest, errReply := parseNumkeysAndKeys(args, name)
	if errReply != nil {
		return *errReply
	}
	weights, agg, withScores, errReply2 := parseSetOpOptions(rest, len(keys), true)
	if errReply2 != nil {
		return *errReply2
	}
	z, errReply3 := zsetOp(tx, keys, weights, agg, union)
	if errReply3 != nil {
		return *errReply3
	}
	return reply.Arr(flattenZEntries(sortedZSet(z), withScores))
}

func cmdZinter(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return setOpCmd(tx, args, "zinter", false)
}

func cmdZunion(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return setOpCmd(tx, args, "zunion", true)
}

func setOpStoreCmd(tx *store.Tx, args [][]byte, name string, union bool) reply.Reply {
	if len(args) < 4 {
		return arityErr(name)
	}
	dst := string(args[1])
	if !tx.IsZSet(dst) {
		return reply.WrongType()
	}
	keys, rest, errReply := parseNumkeysAndKeys(args[1:], name)
	if errReply != nil {
		return *errReply
	}
	weights, agg, _, errReply2 := parseSetOpOptions(rest, len(keys), true)
	if errReply2 != nil {
		return *errReply2
	}
	z, errReply3 := zsetOp(tx, keys, weights, agg, union)
	if errReply3 != nil {
		return *errReply3
	}
	tx.SetZSet(dst, z)
	return reply.Int(int64(len(z)))
}

func cmdZinterstore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return setOpStoreCmd(tx, args, "zinterstore", false)
}

func cmdZunionstore(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	return setOpStoreCmd(tx, args, "zunionstore", true)
}

// --- ZRANDMEMBER / ZSCAN ---

func cmdZrandmember(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 || len(args) > 4 {
		return arityErr("zrandmember")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	z := tx.GetZSet(key)
	members := rnd.SortedMembers(toStructSet(z))

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
	withScores := false
	if len(args) == 4 {
		if !eqFold(args[3], "WITHSCORES") {
			return reply.Err("ERR syntax error")
		}
		withScores = true
	}
	var picked []string
	if count < 0 {
		picked = rs.SelectNWithReplacement(members, int(-count))
	} else {
		picked = rs.SelectN(members, int(count))
	}
	items := make([]reply.Reply, 0, len(picked)*2)
	for _, m := range picked {
		if withScores {
			items = append(items, reply.BulkFromString(m), reply.BulkFromString(formatScore(z[m])))
		} else {
			items = append(items, reply.BulkFromString(m))
		}
	}
	return reply.Arr(items)
}

func toStructSet(z map[string]float64) map[string]struct{} {
	out := make(map[string]struct{}, len(z))
	for m := range z {
		out[m] = struct{}{}
	}
	return out
}

func cmdZscan(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("zscan")
	}
	key := string(args[1])
	if !tx.IsZSet(key) {
		return reply.WrongType()
	}
	cursor, ok := parseInt(args[2])
	if !ok || cursor < 0 {
		return reply.Errf("invalid cursor")
	}
	opts, errReply := parseScanOptions(args[3:], "zscan")
	if errReply != nil {
		return *errReply
	}
	z := tx.GetZSet(key)
	members := rnd.SortedMembers(toStructSet(z))
	window, next, scanErr := scanWindow(members, cursor, opts.count, opts.match)
	if scanErr != nil {
		return *scanErr
	}
	items := make([]reply.Reply, 0, len(window)*2)
	for _, m := range window {
		items = append(items, reply.BulkFromString(m), reply.BulkFromString(formatScoreInteger(z[m])))
	}
	return reply.Arr([]reply.Reply{
		reply.BulkFromString(itoa(next)),
		reply.Arr(items),
	})
}
