package store

// scope is a prototypal, per-namespace map: a local read miss falls
// through to an outer scope, while writes are always local until
// ApplyToOuter is called. Each command's transaction gets its own scope
// forked off the store's root, so a command that errors out partway
// leaves the root untouched.
type scope struct {
	outer *scope

	strings map[string][]byte
	lists   map[string][][]byte
	sets    map[string]map[string]struct{}
	hashes  map[string]map[string][]byte
	zsets   map[string]map[string]float64
	hlls    map[string]map[string]struct{}
}

func newRootScope() *scope {
	return &scope{
		strings: make(map[string][]byte),
		lists:   make(map[string][][]byte),
		sets:    make(map[string]map[string]struct{}),
		hashes:  make(map[string]map[string][]byte),
		zsets:   make(map[string]map[string]float64),
		hlls:    make(map[string]map[string]struct{}),
	}
}

// fork returns a new scope whose writes are local and whose reads fall
// through to s on a local miss.
func (s *scope) fork() *scope { return &scope{outer: s} }

// --- strings ---

func (s *scope) getString(key string) ([]byte, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sc.strings != nil {
			if v, ok := sc.strings[key]; ok {
				return v, v != nil
			}
		}
	}
	return nil, false
}

func (s *scope) putString(key string, v []byte) {
	if s.strings == nil {
		s.strings = make(map[string][]byte)
	}
	s.strings[key] = v
}

func (s *scope) delString(key string) { s.putString(key, nil) }

// --- lists ---

func (s *scope) getList(key string) ([][]byte, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sc.lists != nil {
			if v, ok := sc.lists[key]; ok {
				return v, v != nil
			}
		}
	}
	return nil, false
}

func (s *scope) putList(key string, v [][]byte) {
	if s.lists == nil {
		s.lists = make(map[string][][]byte)
	}
	if v == nil {
		v = [][]byte{}
	}
	s.lists[key] = v
}

func (s *scope) delList(key string) {
	if s.lists == nil {
		s.lists = make(map[string][][]byte)
	}
	s.lists[key] = nil
}

// --- sets ---

func (s *scope) getSet(key string) (map[string]struct{}, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sc.sets != nil {
			if v, ok := sc.sets[key]; ok {
				return v, v != nil
			}
		}
	}
	return nil, false
}

func (s *scope) putSet(key string, v map[string]struct{}) {
	if s.sets == nil {
		s.sets = make(map[string]map[string]struct{})
	}
	if v == nil {
		v = map[string]struct{}{}
	}
	s.sets[key] = v
}

func (s *scope) delSet(key string) {
	if s.sets == nil {
		s.sets = make(map[string]map[string]struct{})
	}
	s.sets[key] = nil
}

// --- hashes ---

func (s *scope) getHash(key string) (map[string][]byte, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sc.hashes != nil {
			if v, ok := sc.hashes[key]; ok {
				return v, v != nil
			}
		}
	}
	return nil, false
}

func (s *scope) putHash(key string, v map[string][]byte) {
	if s.hashes == nil {
		s.hashes = make(map[string]map[string][]byte)
	}
	if v == nil {
		v = map[string][]byte{}
	}
	s.hashes[key] = v
}

func (s *scope) delHash(key string) {
	if s.hashes == nil {
		s.hashes = make(map[string]map[string][]byte)
	}
	s.hashes[key] = nil
}

// --- sorted sets ---

func (s *scope) getZSet(key string) (map[string]float64, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sc.zsets != nil {
			if v, ok := sc.zsets[key]; ok {
				return v, v != nil
			}
		}
	}
	return nil, false
}

func (s *scope) putZSet(key string, v map[string]float64) {
	if s.zsets == nil {
		s.zsets = make(map[string]map[string]float64)
	}
	if v == nil {
		v = map[string]float64{}
	}
	s.zsets[key] = v
}

func (s *scope) delZSet(key string) {
	if s.zsets == nil {
		s.zsets = make(map[string]map[string]float64)
	}
	s.zsets[key] = nil
}

// --- hyperloglogs (modeled identically to sets, disjoint namespace) ---

func (s *scope) getHLL(key string) (map[string]struct{}, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sc.hlls != nil {
			if v, ok := sc.hlls[key]; ok {
				return v, v != nil
			}
		}
	}
	return nil, false
}

func (s *scope) putHLL(key string, v map[string]struct{}) {
	if s.hlls == nil {
		s.hlls = make(map[string]map[string]struct{})
	}
	if v == nil {
		v = map[string]struct{}{}
	}
	s.hlls[key] = v
}

func (s *scope) delHLL(key string) {
	if s.hlls == nil {
		s.hlls = make(map[string]map[string]struct{})
	}
	s.hlls[key] = nil
}

// applyToOuter copies every local entry (including deletions, represented
// as nil) into the outer scope. This is the "commit" half of a
// transaction, called once a command's handler returns without error.
func (s *scope) applyToOuter() {
	o := s.outer
	for k, v := range s.strings {
		o.putString(k, v)
	}
	for k, v := range s.lists {
		if v == nil {
			o.delList(k)
		} else {
			o.putList(k, v)
		}
	}
	for k, v := range s.sets {
		if v == nil {
			o.delSet(k)
		} else {
			o.putSet(k, v)
		}
	}
	for k, v := range s.hashes {
		if v == nil {
			o.delHash(k)
		} else {
			o.putHash(k, v)
		}
	}
	for k, v := range s.zsets {
		if v == nil {
			o.delZSet(k)
		} else {
			o.putZSet(k, v)
		}
	}
	for k, v := range s.hlls {
		if v == nil {
			o.delHLL(k)
		} else {
			o.putHLL(k, v)
		}
	}
}
