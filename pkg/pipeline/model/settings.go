package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// DefaultSQLQuery is the query a Database (SQL) entity gets when switched to QueryMode.
const DefaultSQLQuery = "SELECT * FROM my_table"

// Settings is the typed configuration attached to an entity. Each kind has its own variant;
// the generic key/value form only exists at the document boundary.
type Settings interface {
	// Config returns the document form of the settings.
	Config() map[string]any
	// Set assigns a single document key, coercing value to the field type.
	Set(key string, value any) error
	// Clone returns a deep copy.
	Clone() Settings
}

// CSVSettings configures a CSV source or sink.
type CSVSettings struct {
	Path        string
	Delimiter   string
	Header      bool
	InferSchema bool
}

func (s *CSVSettings) Config() map[string]any {
	return map[string]any{
		"path":         s.Path,
		"delimiter":    s.Delimiter,
		"header":       s.Header,
		"infer_schema": s.InferSchema,
	}
}

func (s *CSVSettings) Set(key string, value any) error {
	switch key {
	case "path":
		return setString(&s.Path, key, value)
	case "delimiter":
		return setString(&s.Delimiter, key, value)
	case "header":
		return setBool(&s.Header, key, value)
	case "infer_schema":
		return setBool(&s.InferSchema, key, value)
	}

	return unknownKey(CSVKind, key)
}

func (s *CSVSettings) Clone() Settings {
	c := *s
	return &c
}

// FileSettings configures the path-only kinds: Parquet, JSON and Delta Lake.
type FileSettings struct {
	Path string
}

func (s *FileSettings) Config() map[string]any {
	return map[string]any{"path": s.Path}
}

func (s *FileSettings) Set(key string, value any) error {
	if key == "path" {
		return setString(&s.Path, key, value)
	}

	return unknownKey("file", key)
}

func (s *FileSettings) Clone() Settings {
	c := *s
	return &c
}

// DatabaseSettings configures a Database (SQL) entity.
// TableName and SQLQuery are only meaningful in TableMode and QueryMode respectively.
type DatabaseSettings struct {
	DBType     string
	Host       string
	Port       int
	Database   string
	SchemaName string
	Username   string
	Password   string
	Access     AccessMode
	TableName  string
	SQLQuery   string
}

func (s *DatabaseSettings) Config() map[string]any {
	cfg := map[string]any{
		"db_type":  s.DBType,
		"host":     s.Host,
		"port":     s.Port,
		"database": s.Database,
		"username": s.Username,
		"password": s.Password,
	}
	if s.SchemaName != "" {
		cfg["schema_name"] = s.SchemaName
	}

	switch s.Access {
	case TableMode:
		cfg["table_name"] = s.TableName
	case QueryMode:
		cfg["sql_query"] = s.SQLQuery
	case NoAccessMode:
	}

	return cfg
}

func (s *DatabaseSettings) Set(key string, value any) error {
	switch key {
	case "db_type":
		var dbType string
		if err := setString(&dbType, key, value); err != nil {
			return err
		}
		if !contains(DBTypes, dbType) {
			return errors.Wrapf(ErrInvalidConfigValue, "db_type %q", dbType)
		}
		s.DBType = dbType

		return nil
	case "host":
		return setString(&s.Host, key, value)
	case "port":
		port, err := parsePort(value)
		if err != nil || port < 0 || port > 65535 {
			return errors.Wrapf(ErrInvalidConfigValue, "port %v", value)
		}
		s.Port = port

		return nil
	case "database":
		return setString(&s.Database, key, value)
	case "schema_name":
		return setString(&s.SchemaName, key, value)
	case "username":
		return setString(&s.Username, key, value)
	case "password":
		return setString(&s.Password, key, value)
	case "table_name":
		if s.Access == QueryMode {
			return errors.Wrap(ErrAccessModeConflict, "switch to table mode before setting table_name")
		}
		s.Access = TableMode

		return setString(&s.TableName, key, value)
	case "sql_query":
		if s.Access == TableMode {
			return errors.Wrap(ErrAccessModeConflict, "switch to query mode before setting sql_query")
		}
		s.Access = QueryMode

		return setString(&s.SQLQuery, key, value)
	}

	return unknownKey(DatabaseKind, key)
}

// SetAccess moves the settings to mode. Leaving a mode drops its key; entering a mode keeps
// the existing value or falls back to the default. Reapplying the current mode is a no-op.
func (s *DatabaseSettings) SetAccess(mode AccessMode) {
	if s.Access == mode {
		return
	}

	switch mode {
	case TableMode:
		s.SQLQuery = ""
		s.TableName = ""
	case QueryMode:
		s.TableName = ""
		s.SQLQuery = DefaultSQLQuery
	case NoAccessMode:
		s.TableName = ""
		s.SQLQuery = ""
	}

	s.Access = mode
}

func (s *DatabaseSettings) Clone() Settings {
	c := *s
	return &c
}

// FilterSettings configures a Filter Rows transformation.
type FilterSettings struct {
	Condition string
}

func (s *FilterSettings) Config() map[string]any {
	return map[string]any{"condition": s.Condition}
}

func (s *FilterSettings) Set(key string, value any) error {
	if key == "condition" {
		return setString(&s.Condition, key, value)
	}

	return unknownKey(FilterRowsKind, key)
}

func (s *FilterSettings) Clone() Settings {
	c := *s
	return &c
}

// ColumnRename is one entry of a Select/Rename Columns transformation.
type ColumnRename struct {
	OriginalName string `json:"original_name"`
	NewName      string `json:"new_name"`
}

// SelectSettings configures a Select/Rename Columns transformation.
type SelectSettings struct {
	Columns []ColumnRename
}

func (s *SelectSettings) Config() map[string]any {
	columns := make([]any, 0, len(s.Columns))
	for _, c := range s.Columns {
		columns = append(columns, map[string]any{
			"original_name": c.OriginalName,
			"new_name":      c.NewName,
		})
	}

	return map[string]any{"columns": columns}
}

func (s *SelectSettings) Set(key string, value any) error {
	if key != "columns" {
		return unknownKey(SelectColumnsKind, key)
	}

	columns, err := toColumnRenames(value)
	if err != nil {
		return err
	}
	s.Columns = columns

	return nil
}

func (s *SelectSettings) Clone() Settings {
	c := &SelectSettings{Columns: make([]ColumnRename, len(s.Columns))}
	copy(c.Columns, s.Columns)

	return c
}

func toColumnRenames(value any) ([]ColumnRename, error) {
	switch v := value.(type) {
	case []ColumnRename:
		res := make([]ColumnRename, len(v))
		copy(res, v)

		return res, nil
	case nil:
		return []ColumnRename{}, nil
	case []any:
		res := make([]ColumnRename, 0, len(v))
		for i, item := range v {
			entry, err := cast.ToStringMapE(item)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidConfigValue, "columns[%d]: %v", i, err)
			}
			rename := ColumnRename{}
			if err := setString(&rename.OriginalName, "original_name", entry["original_name"]); err != nil {
				return nil, errors.Wrapf(err, "columns[%d]", i)
			}
			if err := setString(&rename.NewName, "new_name", entry["new_name"]); err != nil {
				return nil, errors.Wrapf(err, "columns[%d]", i)
			}
			res = append(res, rename)
		}

		return res, nil
	}

	return nil, errors.Wrapf(ErrInvalidConfigValue, "columns: unexpected %T", value)
}

// AggregateSettings configures an Aggregate Data (Group By) transformation.
type AggregateSettings struct {
	// GroupBy is a comma-separated column list.
	GroupBy      string
	Aggregations string
}

func (s *AggregateSettings) Config() map[string]any {
	return map[string]any{
		"group_by":     s.GroupBy,
		"aggregations": s.Aggregations,
	}
}

func (s *AggregateSettings) Set(key string, value any) error {
	switch key {
	case "group_by":
		return setString(&s.GroupBy, key, value)
	case "aggregations":
		return setString(&s.Aggregations, key, value)
	}

	return unknownKey(AggregateKind, key)
}

func (s *AggregateSettings) Clone() Settings {
	c := *s
	return &c
}

// JoinSettings configures a Join Datasets transformation.
type JoinSettings struct {
	RightDataset  string
	JoinType      JoinType
	JoinCondition string
}

func (s *JoinSettings) Config() map[string]any {
	return map[string]any{
		"right_dataset":  s.RightDataset,
		"join_type":      string(s.JoinType),
		"join_condition": s.JoinCondition,
	}
}

func (s *JoinSettings) Set(key string, value any) error {
	switch key {
	case "right_dataset":
		return setString(&s.RightDataset, key, value)
	case "join_type":
		var joinType string
		if err := setString(&joinType, key, value); err != nil {
			return err
		}
		if !contains(JoinTypes, JoinType(joinType)) {
			return errors.Wrapf(ErrInvalidConfigValue, "join_type %q", joinType)
		}
		s.JoinType = JoinType(joinType)

		return nil
	case "join_condition":
		return setString(&s.JoinCondition, key, value)
	}

	return unknownKey(JoinKind, key)
}

func (s *JoinSettings) Clone() Settings {
	c := *s
	return &c
}

// CustomSQLSettings configures a Custom SQL transformation.
type CustomSQLSettings struct {
	Query string
}

func (s *CustomSQLSettings) Config() map[string]any {
	return map[string]any{"query": s.Query}
}

func (s *CustomSQLSettings) Set(key string, value any) error {
	if key == "query" {
		return setString(&s.Query, key, value)
	}

	return unknownKey(CustomSQLKind, key)
}

func (s *CustomSQLSettings) Clone() Settings {
	c := *s
	return &c
}

// NewDatasetSettings returns the default settings of a source or sink kind.
func NewDatasetSettings(kind DatasetKind) Settings {
	switch kind {
	case CSVKind:
		return &CSVSettings{Delimiter: ",", Header: true, InferSchema: true}
	case DatabaseKind:
		return &DatabaseSettings{DBType: "PostgreSQL", Port: 5432}
	case ParquetKind, JSONKind, DeltaLakeKind:
		return &FileSettings{}
	}

	return &FileSettings{}
}

// NewTransformSettings returns the default settings of a transformation kind.
func NewTransformSettings(kind TransformKind) Settings {
	switch kind {
	case FilterRowsKind:
		return &FilterSettings{}
	case SelectColumnsKind:
		return &SelectSettings{Columns: []ColumnRename{}}
	case AggregateKind:
		return &AggregateSettings{}
	case JoinKind:
		return &JoinSettings{JoinType: InnerJoin}
	case CustomSQLKind:
		return &CustomSQLSettings{}
	}

	return &FilterSettings{}
}

// ApplyConfig sets every key of cfg on s in key order. Keys that do not belong to the
// settings variant are skipped and returned, any other failure aborts.
func ApplyConfig(s Settings, cfg map[string]any) ([]string, error) {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ignored []string

	for _, k := range keys {
		err := s.Set(k, cfg[k])
		if errors.Is(err, ErrUnknownConfigKey) {
			ignored = append(ignored, k)
			continue
		}
		if err != nil {
			return ignored, err
		}
	}

	return ignored, nil
}

// AccessModeOf reports the access mode of Database (SQL) settings.
func AccessModeOf(s Settings) (AccessMode, error) {
	db, ok := s.(*DatabaseSettings)
	if !ok {
		return NoAccessMode, ErrNotDatabase
	}

	return db.Access, nil
}

func setString(dst *string, key string, value any) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return errors.Wrapf(ErrInvalidConfigValue, "%s: %v", key, err)
	}
	*dst = s

	return nil
}

func setBool(dst *bool, key string, value any) error {
	b, err := cast.ToBoolE(value)
	if err != nil {
		return errors.Wrapf(ErrInvalidConfigValue, "%s: %v", key, err)
	}
	*dst = b

	return nil
}

func unknownKey[K ~string](kind K, key string) error {
	return errors.Wrapf(ErrUnknownConfigKey, "%q for %s", key, string(kind))
}

// parsePort reads strings as plain decimal so "010" is 10 and hex or octal prefixes are refused.
func parsePort(value any) (int, error) {
	if str, ok := value.(string); ok {
		return strconv.Atoi(strings.TrimSpace(str))
	}

	return cast.ToIntE(value)
}
