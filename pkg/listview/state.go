package listview

// State tracks view parameters across user interactions. Changing the
// query, a filter or the sort resets the page to 1; page navigation alone
// does not, and is clamped at the boundaries.
type State struct {
	params Params
}

func NewState(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &State{params: Params{
		Filters:  map[string]string{},
		Page:     1,
		PageSize: pageSize,
	}}
}

// Params returns a copy of the current parameters.
func (s *State) Params() Params {
	p := s.params
	p.Filters = make(map[string]string, len(s.params.Filters))
	for k, v := range s.params.Filters {
		p.Filters[k] = v
	}
	return p
}

func (s *State) SetQuery(query string) {
	if s.params.Query == query {
		return
	}
	s.params.Query = query
	s.params.Page = 1
}

func (s *State) SetFilter(field, value string) {
	if s.params.Filters[field] == value {
		return
	}
	s.params.Filters[field] = value
	s.params.Page = 1
}

func (s *State) SetSort(key string, descending bool) {
	if s.params.SortKey == key && s.params.Descending == descending {
		return
	}
	s.params.SortKey = key
	s.params.Descending = descending
	s.params.Page = 1
}

// NextPage advances one page, clamped to the last page of a result set
// with totalPages pages.
func (s *State) NextPage(totalPages int) {
	if s.params.Page < totalPages {
		s.params.Page++
	}
}

// PrevPage goes back one page, clamped to page 1.
func (s *State) PrevPage() {
	if s.params.Page > 1 {
		s.params.Page--
	}
}
