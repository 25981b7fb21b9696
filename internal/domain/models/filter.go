package models

// FilterState describes one library search: free text plus set-valued
// inclusion filters. Within a category the selected options are OR'd; across
// categories they are AND'd (a match must satisfy every non-empty category).
//
// The state is owned by the editing session that opened the picker, not by a
// package-level singleton, so it survives close/reopen of the picker within
// one session and resets with the session.
type FilterState struct {
	Search   string   `json:"search"`
	Types    []string `json:"types,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
	Stages   []string `json:"stages,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// IsZero reports whether no text and no filters are set.
func (f FilterState) IsZero() bool {
	return f.Search == "" &&
		len(f.Types) == 0 &&
		len(f.Subjects) == 0 &&
		len(f.Stages) == 0 &&
		len(f.Tags) == 0
}

// Clear returns the default (unfiltered) state, used by the explicit
// "clear filters" action.
func (f FilterState) Clear() FilterState {
	return FilterState{}
}

// Clone deep-copies the filter so a session can hand out snapshots without
// sharing slice backing arrays.
func (f FilterState) Clone() FilterState {
	return FilterState{
		Search:   f.Search,
		Types:    append([]string(nil), f.Types...),
		Subjects: append([]string(nil), f.Subjects...),
		Stages:   append([]string(nil), f.Stages...),
		Tags:     append([]string(nil), f.Tags...),
	}
}
