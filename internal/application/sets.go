package application

// Copy-on-write sets for expansion and collapse state. Mutating helpers
// return a fresh map so consumers can rely on reference comparison to
// detect change. The sets are bounded by visible tree size, so copying is
// cheap.

// PathSet is a set of folder paths.
type PathSet map[string]struct{}

func (s PathSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Toggle returns a new set with the path's membership flipped.
func (s PathSet) Toggle(path string) PathSet {
	next := make(PathSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	if s.Has(path) {
		delete(next, path)
	} else {
		next[path] = struct{}{}
	}
	return next
}

// With returns a new set that contains the path.
func (s PathSet) With(path string) PathSet {
	if s.Has(path) {
		return s
	}
	return s.Toggle(path)
}

// IDSet is a set of file identities.
type IDSet map[int64]struct{}

func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Toggle(id int64) IDSet {
	next := make(IDSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	if s.Has(id) {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return next
}

func (s IDSet) With(id int64) IDSet {
	if s.Has(id) {
		return s
	}
	return s.Toggle(id)
}

// KeySet is a set of heading collapse keys.
type KeySet map[string]struct{}

func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s KeySet) Toggle(key string) KeySet {
	next := make(KeySet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	if s.Has(key) {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}
	return next
}
