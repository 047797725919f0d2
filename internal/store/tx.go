package store

// Tx is the single read-modify-write unit a handler body executes in: one
// non-blocking command, or one retry iteration of a blocking command.
// Every read and write a handler performs goes through Tx, so a handler
// never needs to reason about locking itself.
type Tx struct {
	scope *scope
}

// KindOf implements the type-exclusivity guard: it reports which
// namespace, if any, currently owns key. A key absent from all six maps
// reports None.
//
// Containers are not deleted merely because they become empty —
// SREM/LREM/ZREMRANGEBYSCORE etc. leave a zero-length-but-present container behind.
// HDEL is the one exception: it deletes the hash once its last field is
// removed, so an emptied hash reports None again.
func (tx *Tx) KindOf(key string) Kind {
	if _, ok := tx.scope.getString(key); ok {
		return KindString
	}
	if _, ok := tx.scope.getList(key); ok {
		return KindList
	}
	if _, ok := tx.scope.getSet(key); ok {
		return KindSet
	}
	if _, ok := tx.scope.getHash(key); ok {
		return KindHash
	}
	if _, ok := tx.scope.getZSet(key); ok {
		return KindZSet
	}
	if _, ok := tx.scope.getHLL(key); ok {
		return KindHLL
	}
	return None
}

// IsString reports whether key may be safely read or written as a string:
// it is either absent from every namespace, or already a string.
func (tx *Tx) IsString(key string) bool { k := tx.KindOf(key); return k == None || k == KindString }
func (tx *Tx) IsList(key string) bool   { k := tx.KindOf(key); return k == None || k == KindList }
func (tx *Tx) IsSet(key string) bool    { k := tx.KindOf(key); return k == None || k == KindSet }
func (tx *Tx) IsHash(key string) bool   { k := tx.KindOf(key); return k == None || k == KindHash }
func (tx *Tx) IsZSet(key string) bool   { k := tx.KindOf(key); return k == None || k == KindZSet }
func (tx *Tx) IsHLL(key string) bool    { k := tx.KindOf(key); return k == None || k == KindHLL }

// --- strings ---

// GetString returns the string at key, or (nil, false) on miss. A miss
// behaves as empty to every read path.
func (tx *Tx) GetString(key string) ([]byte, bool) { return tx.scope.getString(key) }

func (tx *Tx) SetString(key string, v []byte) {
	if v == nil {
		v = []byte{}
	}
	tx.scope.putString(key, v)
}

func (tx *Tx) DelString(key string) { tx.scope.delString(key) }

// --- lists ---

func (tx *Tx) GetList(key string) [][]byte {
	v, _ := tx.scope.getList(key)
	return v
}

func (tx *Tx) SetList(key string, v [][]byte) { tx.scope.putList(key, v) }

func (tx *Tx) DelList(key string) { tx.scope.delList(key) }

// --- sets ---

func (tx *Tx) GetSet(key string) map[string]struct{} {
	v, _ := tx.scope.getSet(key)
	return v
}

func (tx *Tx) SetSet(key string, v map[string]struct{}) { tx.scope.putSet(key, v) }

func (tx *Tx) DelSet(key string) { tx.scope.delSet(key) }

// --- hashes ---

func (tx *Tx) GetHash(key string) map[string][]byte {
	v, _ := tx.scope.getHash(key)
	return v
}

func (tx *Tx) SetHash(key string, v map[string][]byte) {
	if len(v) == 0 {
		// HDEL (and friends) deleting the last field destroys the hash —
		// the one documented exception to "retain empty containers".
		tx.scope.delHash(key)
		return
	}
	tx.scope.putHash(key, v)
}

func (tx *Tx) DelHash(key string) { tx.scope.delHash(key) }

// --- sorted sets ---

func (tx *Tx) GetZSet(key string) map[string]float64 {
	v, _ := tx.scope.getZSet(key)
	return v
}

func (tx *Tx) SetZSet(key string, v map[string]float64) { tx.scope.putZSet(key, v) }

func (tx *Tx) DelZSet(key string) { tx.scope.delZSet(key) }

// --- hyperloglogs ---

func (tx *Tx) GetHLL(key string) map[string]struct{} {
	v, _ := tx.scope.getHLL(key)
	return v
}

func (tx *Tx) SetHLL(key string, v map[string]struct{}) { tx.scope.putHLL(key, v) }

func (tx *Tx) DelHLL(key string) { tx.scope.delHLL(key) }

// Del removes key from whichever namespace currently owns it (generic DEL).
// Returns true iff the key existed.
func (tx *Tx) Del(key string) bool {
	switch tx.KindOf(key) {
	case KindString:
		tx.DelString(key)
	case KindList:
		tx.DelList(key)
	case KindSet:
		tx.DelSet(key)
	case KindHash:
		tx.DelHash(key)
	case KindZSet:
		tx.DelZSet(key)
	case KindHLL:
		tx.DelHLL(key)
	default:
		return false
	}
	return true
}

// Keys returns every key currently present across all six namespaces,
// used by the KEYS command. The scope chain is walked inner-to-outer to
// collect every key sighted in any namespace; KindOf then decides whether
// each one is present, so a local write/delete shadows the root's view
// exactly like scope.get* does per-key.
func (tx *Tx) Keys() []string {
	seen := make(map[string]Kind)
	for sc := tx.scope; sc != nil; sc = sc.outer {
		for k, v := range sc.strings {
			markSeen(seen, k, v != nil, KindString)
		}
		for k, v := range sc.lists {
			markSeen(seen, k, v != nil, KindList)
		}
		for k, v := range sc.sets {
			markSeen(seen, k, v != nil, KindSet)
		}
		for k, v := range sc.hashes {
			markSeen(seen, k, v != nil, KindHash)
		}
		for k, v := range sc.zsets {
			markSeen(seen, k, v != nil, KindZSet)
		}
		for k, v := range sc.hlls {
			markSeen(seen, k, v != nil, KindHLL)
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		if tx.KindOf(k) != None {
			keys = append(keys, k)
		}
	}
	return keys
}

// markSeen records the first (innermost-scope) sighting of key, the same
// shadow-outer-scope rule scope.get* applies per individual lookup.
func markSeen(seen map[string]Kind, key string, present bool, kind Kind) {
	if _, already := seen[key]; already {
		return
	}
	if present {
		seen[key] = kind
	} else {
		seen[key] = None
	}
}
