package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// Parámetros de query string que describen el estado de una vista.
//
//	q=<texto>  sort=<clave>:<asc|desc>  page=<n>  edit=<id>
//	f.<filtro>=<valor> (repetible)  min.<filtro>=<n>  max.<filtro>=<n>
const (
	paramSearch = "q"
	paramSort   = "sort"
	paramPage   = "page"
	paramEdit   = "edit"
	prefixSet   = "f."
	prefixMin   = "min."
	prefixMax   = "max."
)

// State estado serializable de una vista. Vive en la URL: cada enlace de la
// tabla (orden, página, filtro) es un State modificado.
type State struct {
	Filters listview.FilterState
	Sort    listview.SortState
	Page    int
	Editing string
}

// ParseState lee el estado desde una query string. Valores inválidos se
// ignoran.
func ParseState(q url.Values) State {
	s := State{Filters: listview.NewFilterState()}
	s.Filters.SetSearch(q.Get(paramSearch))
	s.Sort = listview.ParseSort(q.Get(paramSort))
	if n, err := strconv.Atoi(q.Get(paramPage)); err == nil && n > 0 {
		s.Page = n
	}
	s.Editing = strings.TrimSpace(q.Get(paramEdit))

	mins := map[string]string{}
	maxs := map[string]string{}
	for key, values := range q {
		switch {
		case strings.HasPrefix(key, prefixSet):
			s.Filters.SetMembers(strings.TrimPrefix(key, prefixSet), nonEmpty(values)...)
		case strings.HasPrefix(key, prefixMin) && len(values) > 0:
			mins[strings.TrimPrefix(key, prefixMin)] = values[0]
		case strings.HasPrefix(key, prefixMax) && len(values) > 0:
			maxs[strings.TrimPrefix(key, prefixMax)] = values[0]
		}
	}
	for name := range mergeKeys(mins, maxs) {
		s.Filters.SetRange(name, listview.ParseRange(mins[name], maxs[name]))
	}
	return s
}

// Values codifica el estado. Omite valores por defecto para que las URLs
// queden cortas.
func (s State) Values() url.Values {
	q := url.Values{}
	if s.Filters.Search != "" {
		q.Set(paramSearch, s.Filters.Search)
	}
	if s.Sort.Active() {
		q.Set(paramSort, s.Sort.String())
	}
	if s.Page > 1 {
		q.Set(paramPage, strconv.Itoa(s.Page))
	}
	if s.Editing != "" {
		q.Set(paramEdit, s.Editing)
	}
	for name := range s.Filters.Sets {
		vals := s.Filters.Members(name)
		sort.Strings(vals)
		for _, v := range vals {
			q.Add(prefixSet+name, v)
		}
	}
	for name, r := range s.Filters.Ranges {
		if r.Min != nil {
			q.Set(prefixMin+name, strconv.FormatFloat(*r.Min, 'f', -1, 64))
		}
		if r.Max != nil {
			q.Set(prefixMax+name, strconv.FormatFloat(*r.Max, 'f', -1, 64))
		}
	}
	return q
}

// Encode query string lista para concatenar tras "?".
func (s State) Encode() string { return s.Values().Encode() }

// WithSort estado tras un clic en la cabecera key; vuelve a la página 1.
func (s State) WithSort(key string) State {
	s.Sort = s.Sort.Toggle(key)
	s.Page = 1
	s.Editing = ""
	return s
}

// WithPage estado en la página n.
func (s State) WithPage(n int) State {
	s.Page = n
	s.Editing = ""
	return s
}

// WithEdit estado con la fila id en edición.
func (s State) WithEdit(id string) State {
	s.Editing = id
	return s
}

// WithToggle estado tras marcar o desmarcar value en el filtro name. Copia los
// mapas para no alterar el estado original.
func (s State) WithToggle(name, value string) State {
	s.Filters = cloneFilters(s.Filters)
	s.Filters.ToggleMember(name, value)
	s.Page = 1
	s.Editing = ""
	return s
}

func cloneFilters(f listview.FilterState) listview.FilterState {
	out := listview.NewFilterState()
	out.Search = f.Search
	for name := range f.Sets {
		out.SetMembers(name, f.Members(name)...)
	}
	for name, r := range f.Ranges {
		out.Ranges[name] = r
	}
	return out
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func mergeKeys(a, b map[string]string) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
