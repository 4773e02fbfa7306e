package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// peopleSort identifies the active sort column.
type peopleSort int

const (
	sortByName peopleSort = iota
	sortByCountry
	sortByCredibility
	sortByInnovation
	sortByInfluence
	peopleSortCount
)

func (s peopleSort) String() string {
	switch s {
	case sortByName:
		return "name"
	case sortByCountry:
		return "country"
	case sortByCredibility:
		return "credibility"
	case sortByInnovation:
		return "innovation"
	case sortByInfluence:
		return "influence"
	}
	return "unknown"
}

// Next cycles to the following sort column.
func (s peopleSort) Next() peopleSort { return (s + 1) % peopleSortCount }

// peopleView is the flat curated-people table: filter, sort, paginate. It
// shares the graph views' selection by handle.
type peopleView struct {
	all      []model.Person
	filtered []model.Person

	table     table.Model
	search    textinput.Model
	searching bool

	sortField peopleSort
	sortDesc  bool
}

func newPeopleView(people []model.Person) peopleView {
	search := textinput.New()
	search.Placeholder = "name, handle, country, category"
	search.CharLimit = 64

	columns := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Handle", Width: 16},
		{Title: "Country", Width: 10},
		{Title: "Cred", Width: 5},
		{Title: "Innov", Width: 5},
		{Title: "Infl", Width: 5},
		{Title: "Categories", Width: 24},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	pv := peopleView{
		all:       people,
		table:     t,
		search:    search,
		sortField: sortByCredibility,
		sortDesc:  true,
	}
	pv.rebuild()
	return pv
}

func (pv *peopleView) setSize(width, height int) {
	pv.table.SetWidth(width)
	if height > 4 {
		pv.table.SetHeight(height - 4)
	}
}

// rebuild refilters and resorts, then refreshes the table rows.
func (pv *peopleView) rebuild() {
	query := strings.ToLower(strings.TrimSpace(pv.search.Value()))
	pv.filtered = pv.filtered[:0]
	for _, p := range pv.all {
		if query == "" || personMatches(p, query) {
			pv.filtered = append(pv.filtered, p)
		}
	}

	field, desc := pv.sortField, pv.sortDesc
	sort.SliceStable(pv.filtered, func(i, j int) bool {
		a, b := pv.filtered[i], pv.filtered[j]
		var less bool
		switch field {
		case sortByCountry:
			less = a.Country < b.Country
		case sortByCredibility:
			less = a.Credibility < b.Credibility
		case sortByInnovation:
			less = a.Innovation < b.Innovation
		case sortByInfluence:
			less = a.Influence < b.Influence
		default:
			less = a.Name < b.Name
		}
		if desc {
			return !less && !equalOn(field, a, b)
		}
		return less
	})

	rows := make([]table.Row, len(pv.filtered))
	for i, p := range pv.filtered {
		rows[i] = table.Row{
			truncate(p.Name, 22),
			"@" + truncate(p.Handle, 15),
			truncate(p.Country, 10),
			fmt.Sprintf("%.1f", p.Credibility),
			fmt.Sprintf("%.1f", p.Innovation),
			fmt.Sprintf("%.1f", p.Influence),
			truncate(strings.Join(p.Categories, ", "), 24),
		}
	}
	pv.table.SetRows(rows)
	if pv.table.Cursor() >= len(rows) {
		pv.table.SetCursor(0)
	}
}

func equalOn(field peopleSort, a, b model.Person) bool {
	switch field {
	case sortByCountry:
		return a.Country == b.Country
	case sortByCredibility:
		return a.Credibility == b.Credibility
	case sortByInnovation:
		return a.Innovation == b.Innovation
	case sortByInfluence:
		return a.Influence == b.Influence
	}
	return a.Name == b.Name
}

func personMatches(p model.Person, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Handle), query) ||
		strings.Contains(strings.ToLower(p.Country), query) {
		return true
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c), query) {
			return true
		}
	}
	return false
}

// selectedHandle returns the handle under the table cursor, or "".
func (pv *peopleView) selectedHandle() string {
	i := pv.table.Cursor()
	if i < 0 || i >= len(pv.filtered) {
		return ""
	}
	return pv.filtered[i].Handle
}

// update handles people-view key input. It reports whether the selection
// should toggle to the row under the cursor.
func (pv *peopleView) update(msg tea.Msg) (toggleSelect bool, cmd tea.Cmd) {
	if pv.searching {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "enter", "esc":
				pv.searching = false
				pv.search.Blur()
				pv.rebuild()
				return false, nil
			}
		}
		pv.search, cmd = pv.search.Update(msg)
		pv.rebuild()
		return false, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "/":
			pv.searching = true
			pv.search.Focus()
			return false, textinput.Blink
		case "s":
			pv.sortField = pv.sortField.Next()
			pv.rebuild()
			return false, nil
		case "r":
			pv.sortDesc = !pv.sortDesc
			pv.rebuild()
			return false, nil
		case "enter":
			return true, nil
		}
	}
	pv.table, cmd = pv.table.Update(msg)
	return false, cmd
}

func (pv *peopleView) view(width int) string {
	header := fmt.Sprintf("%d people  sort: %s", len(pv.filtered), pv.sortField)
	if pv.sortDesc {
		header += " ↓"
	} else {
		header += " ↑"
	}
	lines := []string{statusStyle.Render(truncate(header, width))}
	if pv.searching || pv.search.Value() != "" {
		lines = append(lines, "filter: "+pv.search.View())
	}
	lines = append(lines, pv.table.View())
	return strings.Join(lines, "\n")
}
