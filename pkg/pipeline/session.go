package pipeline

import (
	"context"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/codec"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// MutationFunc produces the next version of a configuration.
type MutationFunc func(cfg *model.PipelineConfig) (*model.PipelineConfig, error)

// Session owns the configuration being edited and the view state attached to it.
// Every change replaces the configuration with a new version; a failed change leaves the
// current version untouched. A Session is not safe for concurrent use.
type Session struct {
	config   *model.PipelineConfig
	expanded map[string]bool
}

// NewSession returns a session editing an empty pipeline.
func NewSession() *Session {
	return NewSessionFrom(model.NewPipelineConfig())
}

// NewSessionFrom returns a session editing a copy of cfg.
func NewSessionFrom(cfg *model.PipelineConfig) *Session {
	return &Session{
		config:   cfg.Clone(),
		expanded: make(map[string]bool),
	}
}

// Config returns a copy of the current configuration.
func (s *Session) Config() *model.PipelineConfig {
	return s.config.Clone()
}

// Apply replaces the current configuration with the result of fn.
func (s *Session) Apply(fn MutationFunc) error {
	next, err := fn(s.config)
	if err != nil {
		return err
	}
	s.config = next

	return nil
}

func (s *Session) SetPipelineName(name string) error {
	return s.Apply(func(cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
		return SetPipelineName(cfg, name)
	})
}

func (s *Session) SetDescription(description string) error {
	return s.Apply(func(cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
		return SetDescription(cfg, description)
	})
}

func (s *Session) Add(coll model.Collection, entity model.Entity) error {
	return s.Apply(func(cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
		return AddEntity(cfg, coll, entity)
	})
}

func (s *Session) Update(coll model.Collection, id string, patch model.Patch) error {
	return s.Apply(func(cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
		return UpdateEntity(cfg, coll, id, patch)
	})
}

// Remove deletes the entity id from coll together with its view state.
func (s *Session) Remove(coll model.Collection, id string) error {
	err := s.Apply(func(cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
		return RemoveEntity(cfg, coll, id)
	})
	if err != nil {
		return err
	}

	delete(s.expanded, id)

	return nil
}

func (s *Session) SetConfigField(coll model.Collection, id, key string, value any) error {
	return s.Apply(func(cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
		return SetConfigField(cfg, coll, id, key, value)
	})
}

func (s *Session) SetSchema(coll model.Collection, id string, schema []model.Column) error {
	return s.Apply(func(cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
		return SetSchema(cfg, coll, id, schema)
	})
}

func (s *Session) SetAccessMode(coll model.Collection, id string, mode model.AccessMode) error {
	return s.Apply(func(cfg *model.PipelineConfig) (*model.PipelineConfig, error) {
		return SetAccessMode(cfg, coll, id, mode)
	})
}

// AvailableDatasets returns the datasets of the current configuration.
func (s *Session) AvailableDatasets() []string {
	return AvailableDatasets(s.config.Sources, s.config.Transformations)
}

// Warnings lints the current configuration.
func (s *Session) Warnings() []Warning {
	return Lint(s.config)
}

// SetExpanded records whether the entity id is expanded in the editor.
func (s *Session) SetExpanded(id string, expanded bool) {
	if !expanded {
		delete(s.expanded, id)
		return
	}
	s.expanded[id] = true
}

// Expanded reports whether the entity id is expanded in the editor.
func (s *Session) Expanded(id string) bool {
	return s.expanded[id]
}

// Import replaces the current configuration with the JSON document data. On failure the
// current configuration is kept and the malformed-input error is returned.
func (s *Session) Import(data []byte) error {
	cfg, err := codec.Import(data)
	if err != nil {
		glog.Warningf("invalid pipeline configuration: %v", err)
		return err
	}

	s.replace(cfg)

	return nil
}

// Load replaces the current configuration with the document read from r.
func (s *Session) Load(ctx context.Context, r io.Reader, yamlInput bool) error {
	cfg, err := codec.Read(ctx, r, yamlInput)
	if err != nil {
		glog.Warningf("unable to load pipeline configuration: %v", err)
		return err
	}

	s.replace(cfg)

	return nil
}

func (s *Session) replace(cfg *model.PipelineConfig) {
	s.config = cfg
	s.expanded = make(map[string]bool)

	for _, w := range Lint(cfg) {
		glog.Warningf("loaded pipeline configuration: %s", w)
	}

	glog.Infof("pipeline configuration %q loaded: %d sources, %d transformations, %d sinks",
		cfg.Name, len(cfg.Sources), len(cfg.Transformations), len(cfg.Sinks))
}

// Export returns the download file name and the JSON document of the current configuration.
func (s *Session) Export() (string, []byte, error) {
	data, err := codec.Export(s.config)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to export pipeline configuration")
	}

	return codec.Filename(s.config.Name), data, nil
}

// Run submits the current configuration for a simulated execution.
func (s *Session) Run() ([]byte, error) {
	return SimulateRun(s.config)
}
