package snapshot

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter selects keys by glob patterns. A key passes when it matches at
// least one include pattern (or there are none) and no exclude pattern.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles include and exclude patterns. Patterns use no
// separators, so '*' spans the "::" and '=' parts of a key.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range include {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		f.include = append(f.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

// Match reports whether key passes the filter. A nil filter passes all keys.
func (f *Filter) Match(key string) bool {
	if f == nil {
		return true
	}
	for _, g := range f.exclude {
		if g.Match(key) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(key) {
			return true
		}
	}
	return false
}

// Apply returns the entries of s whose keys pass f.
func (f *Filter) Apply(s FieldSnapshot) FieldSnapshot {
	out := make(FieldSnapshot, len(s))
	for k, v := range s {
		if f.Match(k) {
			out[k] = v
		}
	}
	return out
}
