package pipeline

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// NewSource returns a CSV source with a fresh id, named after its position in the list
// (position starts at 1) and holding one empty string column.
func NewSource(position int) model.Source {
	return model.Source{
		ID:       uuid.NewString(),
		Name:     "source_" + strconv.Itoa(position),
		Kind:     model.CSVKind,
		Settings: model.NewDatasetSettings(model.CSVKind),
		Schema:   []model.Column{{DataType: model.StringType, Nullable: true}},
	}
}

// NewTransformation returns a Filter Rows transformation with a fresh id and no dataset wired.
func NewTransformation(position int) model.Transformation {
	return model.Transformation{
		ID:       uuid.NewString(),
		Name:     "transform_" + strconv.Itoa(position),
		Kind:     model.FilterRowsKind,
		Settings: model.NewTransformSettings(model.FilterRowsKind),
	}
}

// NewSink returns a Parquet sink with a fresh id and no input dataset.
func NewSink(position int) model.Sink {
	return model.Sink{
		ID:       uuid.NewString(),
		Name:     "sink_" + strconv.Itoa(position),
		Kind:     model.ParquetKind,
		Settings: model.NewDefaultSinkSettings(model.ParquetKind),
		Write:    model.WriteOptions{Mode: model.OverwriteMode},
	}
}
