package model

import "github.com/pkg/errors"

// Collection names one of the three ordered entity lists of a pipeline.
type Collection string

const (
	SourcesCollection         Collection = "sources"
	TransformationsCollection Collection = "transformations"
	SinksCollection           Collection = "sinks"
)

// DatasetKind is the storage format of a source or a sink.
type DatasetKind string

const (
	CSVKind       DatasetKind = "CSV"
	ParquetKind   DatasetKind = "Parquet"
	JSONKind      DatasetKind = "JSON"
	DatabaseKind  DatasetKind = "Database (SQL)"
	DeltaLakeKind DatasetKind = "Delta Lake"
)

// DatasetKinds lists every dataset kind in display order.
var DatasetKinds = []DatasetKind{CSVKind, ParquetKind, JSONKind, DatabaseKind, DeltaLakeKind}

// ParseDatasetKind returns the dataset kind matching s.
func ParseDatasetKind(s string) (DatasetKind, error) {
	for _, k := range DatasetKinds {
		if string(k) == s {
			return k, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownKind, "dataset kind %q", s)
}

// TransformKind is the operation performed by a transformation.
type TransformKind string

const (
	FilterRowsKind    TransformKind = "Filter Rows"
	SelectColumnsKind TransformKind = "Select/Rename Columns"
	AggregateKind     TransformKind = "Aggregate Data (Group By)"
	JoinKind          TransformKind = "Join Datasets"
	CustomSQLKind     TransformKind = "Custom SQL"
)

// TransformKinds lists every transformation kind in display order.
var TransformKinds = []TransformKind{FilterRowsKind, SelectColumnsKind, AggregateKind, JoinKind, CustomSQLKind}

// ParseTransformKind returns the transformation kind matching s.
func ParseTransformKind(s string) (TransformKind, error) {
	for _, k := range TransformKinds {
		if string(k) == s {
			return k, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownKind, "transformation kind %q", s)
}

// DataType is the declared type of a schema column.
type DataType string

const (
	StringType    DataType = "string"
	IntegerType   DataType = "integer"
	DoubleType    DataType = "double"
	BooleanType   DataType = "boolean"
	DateType      DataType = "date"
	TimestampType DataType = "timestamp"
)

var DataTypes = []DataType{StringType, IntegerType, DoubleType, BooleanType, DateType, TimestampType}

// ParseDataType returns the column data type matching s.
func ParseDataType(s string) (DataType, error) {
	for _, dt := range DataTypes {
		if string(dt) == s {
			return dt, nil
		}
	}

	return "", errors.Wrapf(ErrInvalidDataType, "%q", s)
}

// JoinType is the join strategy of a Join Datasets transformation.
type JoinType string

const (
	InnerJoin JoinType = "inner"
	LeftJoin  JoinType = "left"
	RightJoin JoinType = "right"
	FullJoin  JoinType = "full"
)

var JoinTypes = []JoinType{InnerJoin, LeftJoin, RightJoin, FullJoin}

// WriteMode controls how a sink behaves when its target already holds data.
type WriteMode string

const (
	OverwriteMode     WriteMode = "overwrite"
	AppendMode        WriteMode = "append"
	IgnoreMode        WriteMode = "ignore"
	ErrorIfExistsMode WriteMode = "errorIfExists"
)

var WriteModes = []WriteMode{OverwriteMode, AppendMode, IgnoreMode, ErrorIfExistsMode}

// DBTypes lists the database engines a Database (SQL) entity may target.
// Hive is only offered for sinks by the editor but is accepted everywhere.
var DBTypes = []string{"PostgreSQL", "MySQL", "SQL Server", "Oracle", "Hive"}

// AccessMode is how a Database (SQL) entity reads its data.
type AccessMode int

const (
	// NoAccessMode means neither table_name nor sql_query has been chosen yet.
	NoAccessMode AccessMode = iota
	TableMode
	QueryMode
)

func (m AccessMode) String() string {
	switch m {
	case TableMode:
		return "Table Name"
	case QueryMode:
		return "Custom SQL Query"
	default:
		return "None"
	}
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}

	return false
}
