package model

import (
	"reflect"

	"github.com/pkg/errors"
)

// Column describes one column of a declared schema.
type Column struct {
	ColumnName string   `json:"column_name"`
	DataType   DataType `json:"data_type"`
	Nullable   bool     `json:"nullable"`
}

// Entity is implemented by Source, Transformation and Sink.
type Entity interface {
	EntityID() string
	Collection() Collection
}

// Source describes where input data originates. Its Name is the dataset name other
// stages reference.
type Source struct {
	ID       string
	Name     string
	Kind     DatasetKind
	Settings Settings
	Schema   []Column
}

func (s Source) EntityID() string       { return s.ID }
func (s Source) Collection() Collection { return SourcesCollection }

// Config returns the document form of the source settings.
func (s Source) Config() map[string]any {
	if s.Settings == nil {
		return NewDatasetSettings(s.Kind).Config()
	}

	return s.Settings.Config()
}

// Normalize fills missing settings and schema with the defaults of the source kind.
func (s Source) Normalize() Source {
	if s.Settings == nil {
		s.Settings = NewDatasetSettings(s.Kind)
	}
	if s.Schema == nil {
		s.Schema = []Column{}
	}

	return s
}

// Canonical returns s normalized, with its settings rebuilt from their document form. It fails
// when s holds a kind, a settings variant, a config value or a column type the document
// cannot carry.
func (s Source) Canonical() (Source, error) {
	s = s.Normalize()

	kind, err := ParseDatasetKind(string(s.Kind))
	if err != nil {
		return s, err
	}

	s.Settings, err = canonicalSettings(NewDatasetSettings(kind), s.Settings)
	if err != nil {
		return s, err
	}

	return s, ValidateSchema(s.Schema)
}

// Clone returns a deep copy of the source.
func (s Source) Clone() Source {
	c := s
	if s.Settings != nil {
		c.Settings = s.Settings.Clone()
	}
	c.Schema = cloneColumns(s.Schema)

	return c
}

// Transformation is a named step with one input dataset reference and one output dataset name.
type Transformation struct {
	ID            string
	Name          string
	Kind          TransformKind
	InputDataset  string
	OutputDataset string
	Settings      Settings
	Schema        []Column
}

func (t Transformation) EntityID() string       { return t.ID }
func (t Transformation) Collection() Collection { return TransformationsCollection }

// Config returns the document form of the transformation settings.
func (t Transformation) Config() map[string]any {
	if t.Settings == nil {
		return NewTransformSettings(t.Kind).Config()
	}

	return t.Settings.Config()
}

// Inputs returns every dataset the transformation reads, the join right-hand side included.
func (t Transformation) Inputs() []string {
	inputs := []string{}
	if t.InputDataset != "" {
		inputs = append(inputs, t.InputDataset)
	}

	if join, ok := t.Settings.(*JoinSettings); ok && join.RightDataset != "" && join.RightDataset != t.InputDataset {
		inputs = append(inputs, join.RightDataset)
	}

	return inputs
}

// Normalize fills missing settings with the defaults of the transformation kind.
// An empty schema is stored as nil since transformations do not always declare one.
func (t Transformation) Normalize() Transformation {
	if t.Settings == nil {
		t.Settings = NewTransformSettings(t.Kind)
	}
	if len(t.Schema) == 0 {
		t.Schema = nil
	}

	return t
}

// Canonical returns t normalized, with its settings rebuilt from their document form.
func (t Transformation) Canonical() (Transformation, error) {
	t = t.Normalize()

	kind, err := ParseTransformKind(string(t.Kind))
	if err != nil {
		return t, err
	}

	t.Settings, err = canonicalSettings(NewTransformSettings(kind), t.Settings)
	if err != nil {
		return t, err
	}

	return t, ValidateSchema(t.Schema)
}

// Clone returns a deep copy of the transformation.
func (t Transformation) Clone() Transformation {
	c := t
	if t.Settings != nil {
		c.Settings = t.Settings.Clone()
	}
	c.Schema = cloneColumns(t.Schema)

	return c
}

// WriteOptions holds the sink-only keys sharing the sink config object.
type WriteOptions struct {
	Mode WriteMode
	// PartitionBy is a comma-separated column list, unused by database sinks.
	PartitionBy string
}

// Sink describes where final data is written.
type Sink struct {
	ID           string
	Name         string
	Kind         DatasetKind
	InputDataset string
	Settings     Settings
	Write        WriteOptions
}

func (s Sink) EntityID() string       { return s.ID }
func (s Sink) Collection() Collection { return SinksCollection }

// Config returns the document form of the sink settings merged with its write options.
func (s Sink) Config() map[string]any {
	settings := s.Settings
	if settings == nil {
		settings = NewDatasetSettings(s.Kind)
	}

	cfg := settings.Config()
	cfg["mode"] = string(s.Write.Mode)
	if s.Kind != DatabaseKind {
		cfg["partition_by"] = s.Write.PartitionBy
	}

	return cfg
}

// Set assigns a single config key, routing write options away from the dataset settings.
func (s *Sink) Set(key string, value any) error {
	switch key {
	case "mode":
		var mode string
		if err := setString(&mode, key, value); err != nil {
			return err
		}
		if !contains(WriteModes, WriteMode(mode)) {
			return errors.Wrapf(ErrInvalidConfigValue, "mode %q", mode)
		}
		s.Write.Mode = WriteMode(mode)

		return nil
	case "partition_by":
		if s.Kind == DatabaseKind {
			return unknownKey(s.Kind, key)
		}

		return setString(&s.Write.PartitionBy, key, value)
	}

	if s.Settings == nil {
		s.Settings = NewDatasetSettings(s.Kind)
	}

	return s.Settings.Set(key, value)
}

// Normalize fills missing settings and write options with their defaults.
// Database sinks start in TableMode since they always write to a table.
func (s Sink) Normalize() Sink {
	if s.Settings == nil {
		s.Settings = NewDefaultSinkSettings(s.Kind)
	}
	if s.Write.Mode == "" {
		s.Write.Mode = OverwriteMode
	}
	if s.Kind == DatabaseKind {
		s.Write.PartitionBy = ""
	}

	return s
}

// Canonical returns s normalized, with its settings rebuilt from their document form.
func (s Sink) Canonical() (Sink, error) {
	s = s.Normalize()

	kind, err := ParseDatasetKind(string(s.Kind))
	if err != nil {
		return s, err
	}

	if !contains(WriteModes, s.Write.Mode) {
		return s, errors.Wrapf(ErrInvalidConfigValue, "mode %q", s.Write.Mode)
	}

	s.Settings, err = canonicalSettings(NewDatasetSettings(kind), s.Settings)

	return s, err
}

// Clone returns a deep copy of the sink.
func (s Sink) Clone() Sink {
	c := s
	if s.Settings != nil {
		c.Settings = s.Settings.Clone()
	}

	return c
}

// NewDefaultSinkSettings returns the default settings of a sink kind.
func NewDefaultSinkSettings(kind DatasetKind) Settings {
	settings := NewDatasetSettings(kind)
	if db, ok := settings.(*DatabaseSettings); ok {
		db.SetAccess(TableMode)
	}

	return settings
}

// Patch holds the entity fields to merge in an update. Nil fields are left untouched.
type Patch struct {
	Name          *string
	Kind          *string
	InputDataset  *string
	OutputDataset *string
}

func cloneColumns(cols []Column) []Column {
	if cols == nil {
		return nil
	}

	res := make([]Column, len(cols))
	copy(res, cols)

	return res
}

// canonicalSettings replays the document form of settings onto defaults, which must be the
// same variant.
func canonicalSettings(defaults, settings Settings) (Settings, error) {
	if settings == nil {
		return defaults, nil
	}
	if reflect.TypeOf(defaults) != reflect.TypeOf(settings) {
		return nil, errors.Wrapf(ErrSettingsMismatch, "got %T, want %T", settings, defaults)
	}

	ignored, err := ApplyConfig(defaults, settings.Config())
	if err != nil {
		return nil, err
	}
	if len(ignored) > 0 {
		return nil, errors.Wrapf(ErrSettingsMismatch, "keys %v", ignored)
	}

	return defaults, nil
}

// ValidateSchema checks every column data type.
func ValidateSchema(cols []Column) error {
	for i, c := range cols {
		if _, err := ParseDataType(string(c.DataType)); err != nil {
			return errors.Wrapf(err, "column %d (%s)", i, c.ColumnName)
		}
	}

	return nil
}
