package model

// DefaultPipelineName is the name given to a new pipeline.
const DefaultPipelineName = "My New Data Pipeline"

// PipelineConfig is the canonical representation of a pipeline. Each list exclusively
// owns its members and keeps insertion order as display order.
type PipelineConfig struct {
	Name            string
	Description     string
	Sources         []Source
	Transformations []Transformation
	Sinks           []Sink
}

// NewPipelineConfig returns an empty pipeline with the default name.
func NewPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Name:            DefaultPipelineName,
		Sources:         []Source{},
		Transformations: []Transformation{},
		Sinks:           []Sink{},
	}
}

// Clone returns a deep copy sharing no slice or map with cfg.
func (cfg *PipelineConfig) Clone() *PipelineConfig {
	c := &PipelineConfig{
		Name:            cfg.Name,
		Description:     cfg.Description,
		Sources:         make([]Source, 0, len(cfg.Sources)),
		Transformations: make([]Transformation, 0, len(cfg.Transformations)),
		Sinks:           make([]Sink, 0, len(cfg.Sinks)),
	}

	for _, s := range cfg.Sources {
		c.Sources = append(c.Sources, s.Clone())
	}

	for _, t := range cfg.Transformations {
		c.Transformations = append(c.Transformations, t.Clone())
	}

	for _, s := range cfg.Sinks {
		c.Sinks = append(c.Sinks, s.Clone())
	}

	return c
}

// Empty reports whether the pipeline has no entity at all.
func (cfg *PipelineConfig) Empty() bool {
	return len(cfg.Sources) == 0 && len(cfg.Transformations) == 0 && len(cfg.Sinks) == 0
}

// Len returns the number of entities in coll.
func (cfg *PipelineConfig) Len(coll Collection) int {
	switch coll {
	case SourcesCollection:
		return len(cfg.Sources)
	case TransformationsCollection:
		return len(cfg.Transformations)
	case SinksCollection:
		return len(cfg.Sinks)
	}

	return 0
}
