package datasource

import (
	"database/sql"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// PeopleReader reads people records from the pipeline's SQLite cache.
// The database is opened read-only; hubgraph never writes anything.
type PeopleReader struct {
	db *sql.DB
}

// OpenPeople opens the cache at path read-only with conservative pragmas.
func OpenPeople(path string) (*PeopleReader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open people cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("people cache unreadable: %w", err)
	}
	return &PeopleReader{db: db}, nil
}

// Close releases the database handle.
func (r *PeopleReader) Close() error { return r.db.Close() }

// People loads every record. Null columns decode as zero values; a
// categories column holding a JSON array is parsed, anything else is
// treated as a comma-separated list.
func (r *PeopleReader) People() ([]model.Person, error) {
	rows, err := r.db.Query(`
		SELECT id, name, handle, country,
		       credibility_score, innovation_score, influence_score,
		       categories, achievement, notes, funding
		FROM people
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var (
			p          model.Person
			id         sql.NullString
			country    sql.NullString
			cred       sql.NullFloat64
			innov      sql.NullFloat64
			infl       sql.NullFloat64
			categories sql.NullString
			achieve    sql.NullString
			notes      sql.NullString
			funding    sql.NullString
		)
		if err := rows.Scan(&id, &p.Name, &p.Handle, &country,
			&cred, &innov, &infl,
			&categories, &achieve, &notes, &funding); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		p.ID = id.String
		p.Country = country.String
		p.Credibility = cred.Float64
		p.Innovation = innov.Float64
		p.Influence = infl.Float64
		p.Categories = parseCategories(categories.String)
		p.Achievement = achieve.String
		p.Notes = notes.String
		p.Funding = funding.String
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return people, nil
}

// parseCategories accepts either a JSON string array or a comma-separated
// list; both shapes exist in caches from different pipeline versions.
func parseCategories(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var cats []string
		if err := json.Unmarshal([]byte(raw), &cats); err == nil {
			return cats
		}
	}
	parts := strings.Split(raw, ",")
	cats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cats = append(cats, p)
		}
	}
	return cats
}
