package pipeline

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// AddEntity returns a copy of cfg with entity appended to coll. The entity is stored in its
// canonical form, so it exports and imports back unchanged.
func AddEntity(cfg *model.PipelineConfig, coll model.Collection, entity model.Entity) (*model.PipelineConfig, error) {
	if cfg == nil {
		return nil, ErrConfigMustBeSet
	}
	if entity == nil {
		return nil, ErrEntityMustBeSet
	}
	if entity.Collection() != coll {
		return nil, errors.Wrapf(model.ErrCollectionMismatch, "%s into %s", entity.Collection(), coll)
	}
	if entity.EntityID() == "" {
		return nil, errors.Wrapf(model.ErrEmptyID, "unable to add to %s", coll)
	}

	next := cfg.Clone()

	switch e := entity.(type) {
	case model.Source:
		if indexOf(next.Sources, e.ID) >= 0 {
			return nil, errors.Wrapf(model.ErrDuplicateID, "source %s", e.ID)
		}
		canonical, err := e.Clone().Canonical()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid source %s", e.ID)
		}
		next.Sources = append(next.Sources, canonical)
	case model.Transformation:
		if indexOf(next.Transformations, e.ID) >= 0 {
			return nil, errors.Wrapf(model.ErrDuplicateID, "transformation %s", e.ID)
		}
		canonical, err := e.Clone().Canonical()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid transformation %s", e.ID)
		}
		next.Transformations = append(next.Transformations, canonical)
	case model.Sink:
		if indexOf(next.Sinks, e.ID) >= 0 {
			return nil, errors.Wrapf(model.ErrDuplicateID, "sink %s", e.ID)
		}
		canonical, err := e.Clone().Canonical()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid sink %s", e.ID)
		}
		next.Sinks = append(next.Sinks, canonical)
	default:
		return nil, errors.Wrapf(model.ErrCollectionMismatch, "unsupported entity %T", entity)
	}

	return next, nil
}

// UpdateEntity returns a copy of cfg where the entity id of coll has patch merged in.
// Changing the kind resets the entity settings to the defaults of the new kind.
func UpdateEntity(cfg *model.PipelineConfig, coll model.Collection, id string, patch model.Patch) (*model.PipelineConfig, error) {
	return mutate(cfg, coll, id, entityMutation{
		source:         func(s *model.Source) error { return patchSource(s, patch) },
		transformation: func(t *model.Transformation) error { return patchTransformation(t, patch) },
		sink:           func(s *model.Sink) error { return patchSink(s, patch) },
	})
}

// RemoveEntity returns a copy of cfg without the entity id of coll. Removing an unknown id
// is a no-op.
func RemoveEntity(cfg *model.PipelineConfig, coll model.Collection, id string) (*model.PipelineConfig, error) {
	if cfg == nil {
		return nil, ErrConfigMustBeSet
	}

	next := cfg.Clone()

	switch coll {
	case model.SourcesCollection:
		next.Sources = without(next.Sources, id)
	case model.TransformationsCollection:
		next.Transformations = without(next.Transformations, id)
	case model.SinksCollection:
		next.Sinks = without(next.Sinks, id)
	default:
		return nil, errors.Wrapf(model.ErrUnknownCollection, "%q", coll)
	}

	return next, nil
}

// SetConfigField returns a copy of cfg where key of the entity config is set to value,
// leaving the other keys untouched.
func SetConfigField(cfg *model.PipelineConfig, coll model.Collection, id, key string, value any) (*model.PipelineConfig, error) {
	return mutate(cfg, coll, id, entityMutation{
		source: func(s *model.Source) error {
			*s = s.Normalize()

			return s.Settings.Set(key, value)
		},
		transformation: func(t *model.Transformation) error {
			*t = t.Normalize()

			return t.Settings.Set(key, value)
		},
		sink: func(s *model.Sink) error {
			return s.Set(key, value)
		},
	})
}

// SetSchema returns a copy of cfg where the entity schema is replaced by schema.
func SetSchema(cfg *model.PipelineConfig, coll model.Collection, id string, schema []model.Column) (*model.PipelineConfig, error) {
	if err := model.ValidateSchema(schema); err != nil {
		return nil, errors.Wrap(err, "unable to set schema")
	}

	cols := make([]model.Column, len(schema))
	copy(cols, schema)

	return mutate(cfg, coll, id, entityMutation{
		source: func(s *model.Source) error {
			s.Schema = cols
			return nil
		},
		transformation: func(t *model.Transformation) error {
			t.Schema = cols
			*t = t.Normalize()

			return nil
		},
	})
}

// SetPipelineName returns a copy of cfg with a new pipeline name.
func SetPipelineName(cfg *model.PipelineConfig, name string) (*model.PipelineConfig, error) {
	if cfg == nil {
		return nil, ErrConfigMustBeSet
	}

	next := cfg.Clone()
	next.Name = name

	return next, nil
}

// SetDescription returns a copy of cfg with a new description.
func SetDescription(cfg *model.PipelineConfig, description string) (*model.PipelineConfig, error) {
	if cfg == nil {
		return nil, ErrConfigMustBeSet
	}

	next := cfg.Clone()
	next.Description = description

	return next, nil
}

// entityMutation holds the per-collection change applied by mutate. A nil function means the
// change does not apply to that collection.
type entityMutation struct {
	source         func(*model.Source) error
	transformation func(*model.Transformation) error
	sink           func(*model.Sink) error
}

func mutate(cfg *model.PipelineConfig, coll model.Collection, id string, m entityMutation) (*model.PipelineConfig, error) {
	if cfg == nil {
		return nil, ErrConfigMustBeSet
	}

	next := cfg.Clone()

	var err error

	switch coll {
	case model.SourcesCollection:
		err = apply(next.Sources, id, m.source)
	case model.TransformationsCollection:
		err = apply(next.Transformations, id, m.transformation)
	case model.SinksCollection:
		err = apply(next.Sinks, id, m.sink)
	default:
		err = errors.Wrapf(model.ErrUnknownCollection, "%q", coll)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "unable to update %s %s", coll, id)
	}

	return next, nil
}

func apply[E model.Entity](list []E, id string, fn func(*E) error) error {
	if fn == nil {
		return model.ErrFieldNotApplicable
	}

	idx := indexOf(list, id)
	if idx < 0 {
		return model.ErrNotFound
	}

	return fn(&list[idx])
}

func indexOf[E model.Entity](list []E, id string) int {
	for i, e := range list {
		if e.EntityID() == id {
			return i
		}
	}

	return -1
}

func without[E model.Entity](list []E, id string) []E {
	res := make([]E, 0, len(list))
	for _, e := range list {
		if e.EntityID() != id {
			res = append(res, e)
		}
	}

	return res
}

func patchSource(s *model.Source, patch model.Patch) error {
	if patch.InputDataset != nil || patch.OutputDataset != nil {
		return model.ErrFieldNotApplicable
	}

	if patch.Kind != nil && *patch.Kind != string(s.Kind) {
		kind, err := model.ParseDatasetKind(*patch.Kind)
		if err != nil {
			return err
		}
		s.Kind = kind
		s.Settings = model.NewDatasetSettings(kind)
	}

	if patch.Name != nil {
		s.Name = *patch.Name
	}

	return nil
}

func patchTransformation(t *model.Transformation, patch model.Patch) error {
	if patch.Kind != nil && *patch.Kind != string(t.Kind) {
		kind, err := model.ParseTransformKind(*patch.Kind)
		if err != nil {
			return err
		}
		t.Kind = kind
		t.Settings = model.NewTransformSettings(kind)
	}

	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.InputDataset != nil {
		t.InputDataset = *patch.InputDataset
	}
	if patch.OutputDataset != nil {
		t.OutputDataset = *patch.OutputDataset
	}

	return nil
}

func patchSink(s *model.Sink, patch model.Patch) error {
	if patch.OutputDataset != nil {
		return model.ErrFieldNotApplicable
	}

	if patch.Kind != nil && *patch.Kind != string(s.Kind) {
		kind, err := model.ParseDatasetKind(*patch.Kind)
		if err != nil {
			return err
		}
		s.Kind = kind
		s.Settings = model.NewDefaultSinkSettings(kind)
		*s = s.Normalize()
	}

	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.InputDataset != nil {
		s.InputDataset = *patch.InputDataset
	}

	return nil
}
