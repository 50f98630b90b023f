package pipeline

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// SetAccessMode returns a copy of cfg where the Database (SQL) entity id reads its data
// either from a table or from a custom query. table_name and sql_query are never both set.
func SetAccessMode(cfg *model.PipelineConfig, coll model.Collection, id string, mode model.AccessMode) (*model.PipelineConfig, error) {
	if mode != model.TableMode && mode != model.QueryMode {
		return nil, errors.Wrapf(model.ErrInvalidConfigValue, "access mode %s", mode)
	}

	toggle := func(settings model.Settings) error {
		db, ok := settings.(*model.DatabaseSettings)
		if !ok {
			return model.ErrNotDatabase
		}
		db.SetAccess(mode)

		return nil
	}

	return mutate(cfg, coll, id, entityMutation{
		source:         func(s *model.Source) error { return toggle(s.Settings) },
		transformation: func(*model.Transformation) error { return model.ErrNotDatabase },
		sink:           func(s *model.Sink) error { return toggle(s.Settings) },
	})
}

// ParseAccessMode maps the editor selector labels to an access mode.
func ParseAccessMode(label string) (model.AccessMode, error) {
	switch label {
	case model.TableMode.String():
		return model.TableMode, nil
	case model.QueryMode.String():
		return model.QueryMode, nil
	}

	return model.NoAccessMode, errors.Wrapf(model.ErrInvalidConfigValue, "access mode %q", label)
}
