package codec

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// document mirrors the JSON exchanged with the editor. Field order follows the export layout.
type document struct {
	PipelineName    string              `json:"pipeline_name"`
	Description     string              `json:"description"`
	Sources         []sourceDoc         `json:"sources"`
	Transformations []transformationDoc `json:"transformations"`
	Sinks           []sinkDoc           `json:"sinks"`
}

type sourceDoc struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
	Schema []model.Column `json:"schema"`
}

type transformationDoc struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	InputDataset  string         `json:"input_dataset"`
	OutputDataset string         `json:"output_dataset"`
	Config        map[string]any `json:"config"`
	Schema        []model.Column `json:"schema,omitempty"`
}

type sinkDoc struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	InputDataset string         `json:"input_dataset"`
	Config       map[string]any `json:"config"`
}

func fromModel(cfg *model.PipelineConfig) document {
	doc := document{
		PipelineName:    cfg.Name,
		Description:     cfg.Description,
		Sources:         make([]sourceDoc, 0, len(cfg.Sources)),
		Transformations: make([]transformationDoc, 0, len(cfg.Transformations)),
		Sinks:           make([]sinkDoc, 0, len(cfg.Sinks)),
	}

	for _, s := range cfg.Sources {
		schema := s.Schema
		if schema == nil {
			schema = []model.Column{}
		}
		doc.Sources = append(doc.Sources, sourceDoc{
			ID:     s.ID,
			Name:   s.Name,
			Type:   string(s.Kind),
			Config: s.Config(),
			Schema: schema,
		})
	}

	for _, t := range cfg.Transformations {
		doc.Transformations = append(doc.Transformations, transformationDoc{
			ID:            t.ID,
			Name:          t.Name,
			Type:          string(t.Kind),
			InputDataset:  t.InputDataset,
			OutputDataset: t.OutputDataset,
			Config:        t.Config(),
			Schema:        t.Schema,
		})
	}

	for _, s := range cfg.Sinks {
		doc.Sinks = append(doc.Sinks, sinkDoc{
			ID:           s.ID,
			Name:         s.Name,
			Type:         string(s.Kind),
			InputDataset: s.InputDataset,
			Config:       s.Config(),
		})
	}

	return doc
}

func (doc document) toModel() (*model.PipelineConfig, error) {
	cfg := model.NewPipelineConfig()
	cfg.Name = doc.PipelineName
	cfg.Description = doc.Description

	for i, sd := range doc.Sources {
		field := fmt.Sprintf("sources[%d]", i)

		kind, err := model.ParseDatasetKind(sd.Type)
		if err != nil {
			return nil, &SchemaError{Field: field + ".type", Msg: err.Error()}
		}

		if err := model.ValidateSchema(sd.Schema); err != nil {
			return nil, &SchemaError{Field: field + ".schema", Msg: err.Error()}
		}

		src := model.Source{
			ID:       sd.ID,
			Name:     sd.Name,
			Kind:     kind,
			Settings: model.NewDatasetSettings(kind),
			Schema:   sd.Schema,
		}

		ignored, err := model.ApplyConfig(src.Settings, sd.Config)
		if err != nil {
			return nil, &SchemaError{Field: field + ".config", Msg: err.Error()}
		}
		logIgnored(field, ignored)

		cfg.Sources = append(cfg.Sources, src.Normalize())
	}

	for i, td := range doc.Transformations {
		field := fmt.Sprintf("transformations[%d]", i)

		kind, err := model.ParseTransformKind(td.Type)
		if err != nil {
			return nil, &SchemaError{Field: field + ".type", Msg: err.Error()}
		}

		if err := model.ValidateSchema(td.Schema); err != nil {
			return nil, &SchemaError{Field: field + ".schema", Msg: err.Error()}
		}

		t := model.Transformation{
			ID:            td.ID,
			Name:          td.Name,
			Kind:          kind,
			InputDataset:  td.InputDataset,
			OutputDataset: td.OutputDataset,
			Settings:      model.NewTransformSettings(kind),
			Schema:        td.Schema,
		}

		ignored, err := model.ApplyConfig(t.Settings, td.Config)
		if err != nil {
			return nil, &SchemaError{Field: field + ".config", Msg: err.Error()}
		}
		logIgnored(field, ignored)

		cfg.Transformations = append(cfg.Transformations, t.Normalize())
	}

	for i, sd := range doc.Sinks {
		field := fmt.Sprintf("sinks[%d]", i)

		kind, err := model.ParseDatasetKind(sd.Type)
		if err != nil {
			return nil, &SchemaError{Field: field + ".type", Msg: err.Error()}
		}

		sink := model.Sink{
			ID:           sd.ID,
			Name:         sd.Name,
			Kind:         kind,
			InputDataset: sd.InputDataset,
			Settings:     model.NewDatasetSettings(kind),
			Write:        model.WriteOptions{Mode: model.OverwriteMode},
		}

		ignored, err := model.ApplyConfig(sinkSetter{&sink}, sd.Config)
		if err != nil {
			return nil, &SchemaError{Field: field + ".config", Msg: err.Error()}
		}
		logIgnored(field, ignored)

		cfg.Sinks = append(cfg.Sinks, sink.Normalize())
	}

	return cfg, nil
}

// sinkSetter lets ApplyConfig route sink keys through Sink.Set.
type sinkSetter struct {
	sink *model.Sink
}

func (s sinkSetter) Config() map[string]any          { return s.sink.Config() }
func (s sinkSetter) Set(key string, value any) error { return s.sink.Set(key, value) }
func (s sinkSetter) Clone() model.Settings           { return s.sink.Settings.Clone() }

func logIgnored(field string, keys []string) {
	if len(keys) > 0 {
		glog.Warningf("%s: ignoring config keys %v that do not apply to its type", field, keys)
	}
}
