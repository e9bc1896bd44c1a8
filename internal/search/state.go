package search

// State tracks the matches of the active query and the current match used
// for find-next navigation. The zero value is an idle state.
// It is not safe for concurrent use.
type State struct {
	query   string
	opts    Options
	matches []Match
	current int // -1 when there are no matches
}

// NewState creates an idle search state.
func NewState() *State {
	return &State{current: -1}
}

// Update recomputes the matches of query against document.
// The first match becomes current. An empty query clears the state.
func (s *State) Update(document, query string, opts Options) []Match {
	if query == "" {
		s.Clear()

		return nil
	}

	s.query = query
	s.opts = opts
	s.matches = Find(document, query, opts)
	s.current = -1

	if len(s.matches) > 0 {
		s.current = 0
	}

	return s.Matches()
}

// Refresh recomputes the matches of the active query against document,
// keeping the current index when it is still in range.
func (s *State) Refresh(document string) {
	if s.query == "" {
		return
	}

	prev := s.current
	s.matches = Find(document, s.query, s.opts)

	switch {
	case len(s.matches) == 0:
		s.current = -1
	case prev < 0 || prev >= len(s.matches):
		s.current = 0
	default:
		s.current = prev
	}
}

// Clear drops the query and all matches.
func (s *State) Clear() {
	s.query = ""
	s.opts = Options{}
	s.matches = nil
	s.current = -1
}

// Next advances to the following match, wrapping to the first.
// Returns false if there are no matches.
func (s *State) Next() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}

	s.current = (s.current + 1) % len(s.matches)

	return s.matches[s.current], true
}

// Prev moves to the preceding match, wrapping to the last.
// Returns false if there are no matches.
func (s *State) Prev() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}

	s.current = (s.current - 1 + len(s.matches)) % len(s.matches)

	return s.matches[s.current], true
}

// Current returns the current match.
func (s *State) Current() (Match, bool) {
	if s.current < 0 || s.current >= len(s.matches) {
		return Match{}, false
	}

	return s.matches[s.current], true
}

// Matches returns a copy of the matches in document order.
func (s *State) Matches() []Match {
	result := make([]Match, len(s.matches))
	copy(result, s.matches)

	return result
}

// Query returns the active query, or "" when idle.
func (s *State) Query() string {
	return s.query
}

// Options returns the options of the active query.
func (s *State) Options() Options {
	return s.opts
}

// Index returns the current match index, or -1 when there is none.
func (s *State) Index() int {
	if len(s.matches) == 0 {
		return -1
	}

	return s.current
}

// Len returns the number of matches.
func (s *State) Len() int {
	return len(s.matches)
}

// Active reports whether a query is set, even if it has no matches.
func (s *State) Active() bool {
	return s.query != ""
}
