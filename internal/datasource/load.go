package datasource

import (
	"context"

	"github.com/hubgraph/hubgraph/pkg/loader"
	"github.com/hubgraph/hubgraph/pkg/model"
)

// Load reads both datasets for a resolved source, routing the people side
// through SQLite or JSON by file extension.
func Load(ctx context.Context, src Source, opts *loader.Options) (*model.GraphData, []model.Person, error) {
	if src.PeoplePath != "" && IsSQLite(src.PeoplePath) {
		data, err := loader.LoadGraphFile(src.GraphPath, opts)
		if err != nil {
			return nil, nil, err
		}
		r, err := OpenPeople(src.PeoplePath)
		if err != nil {
			return nil, nil, err
		}
		defer r.Close()
		people, err := r.People()
		if err != nil {
			return nil, nil, err
		}
		return data, people, nil
	}
	return loader.LoadAll(ctx, src.GraphPath, src.PeoplePath, opts)
}
