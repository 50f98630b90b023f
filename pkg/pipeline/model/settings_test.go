package model_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

func TestNewDatasetSettings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		kind     model.DatasetKind
		expected map[string]any
	}{
		"csv": {
			kind:     model.CSVKind,
			expected: map[string]any{"path": "", "delimiter": ",", "header": true, "infer_schema": true},
		},
		"parquet": {
			kind:     model.ParquetKind,
			expected: map[string]any{"path": ""},
		},
		"delta lake": {
			kind:     model.DeltaLakeKind,
			expected: map[string]any{"path": ""},
		},
		"database": {
			kind: model.DatabaseKind,
			expected: map[string]any{
				"db_type":  "PostgreSQL",
				"host":     "",
				"port":     5432,
				"database": "",
				"username": "",
				"password": "",
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, model.NewDatasetSettings(tc.kind).Config())
		})
	}
}

func TestNewTransformSettings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		kind     model.TransformKind
		expected map[string]any
	}{
		"filter":     {kind: model.FilterRowsKind, expected: map[string]any{"condition": ""}},
		"select":     {kind: model.SelectColumnsKind, expected: map[string]any{"columns": []any{}}},
		"aggregate":  {kind: model.AggregateKind, expected: map[string]any{"group_by": "", "aggregations": ""}},
		"custom sql": {kind: model.CustomSQLKind, expected: map[string]any{"query": ""}},
		"join": {
			kind:     model.JoinKind,
			expected: map[string]any{"right_dataset": "", "join_type": "inner", "join_condition": ""},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, model.NewTransformSettings(tc.kind).Config())
		})
	}
}

func TestDatabaseSettingsSet(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		access      model.AccessMode
		key         string
		value       any
		expectedErr error
		check       func(t *testing.T, s *model.DatabaseSettings)
	}{
		"port from float": {
			key:   "port",
			value: float64(3306),
			check: func(t *testing.T, s *model.DatabaseSettings) { assert.Equal(t, 3306, s.Port) },
		},
		"port from string": {
			key:   "port",
			value: "1521",
			check: func(t *testing.T, s *model.DatabaseSettings) { assert.Equal(t, 1521, s.Port) },
		},
		"port with leading zero": {
			key:   "port",
			value: "010",
			check: func(t *testing.T, s *model.DatabaseSettings) { assert.Equal(t, 10, s.Port) },
		},
		"port padded string": {
			key:   "port",
			value: " 5432 ",
			check: func(t *testing.T, s *model.DatabaseSettings) { assert.Equal(t, 5432, s.Port) },
		},
		"port hex string":   {key: "port", value: "0x1F90", expectedErr: model.ErrInvalidConfigValue},
		"port octal string": {key: "port", value: "0o17", expectedErr: model.ErrInvalidConfigValue},
		"port not a number": {key: "port", value: "abc", expectedErr: model.ErrInvalidConfigValue},
		"port out of range": {key: "port", value: 70000, expectedErr: model.ErrInvalidConfigValue},
		"hive db type": {
			key:   "db_type",
			value: "Hive",
			check: func(t *testing.T, s *model.DatabaseSettings) { assert.Equal(t, "Hive", s.DBType) },
		},
		"unknown db type": {key: "db_type", value: "MongoDB", expectedErr: model.ErrInvalidConfigValue},
		"table name picks table mode": {
			key:   "table_name",
			value: "orders",
			check: func(t *testing.T, s *model.DatabaseSettings) {
				assert.Equal(t, model.TableMode, s.Access)
				assert.Equal(t, "orders", s.TableName)
			},
		},
		"table name in query mode": {
			access:      model.QueryMode,
			key:         "table_name",
			value:       "orders",
			expectedErr: model.ErrAccessModeConflict,
		},
		"query in table mode": {
			access:      model.TableMode,
			key:         "sql_query",
			value:       "SELECT 1",
			expectedErr: model.ErrAccessModeConflict,
		},
		"unknown key": {key: "path", value: "/tmp", expectedErr: model.ErrUnknownConfigKey},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s, ok := model.NewDatasetSettings(model.DatabaseKind).(*model.DatabaseSettings)
			require.True(t, ok)
			s.SetAccess(tc.access)

			err := s.Set(tc.key, tc.value)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			tc.check(t, s)
		})
	}
}

func TestDatabaseSettingsSetAccess(t *testing.T) {
	t.Parallel()

	s := &model.DatabaseSettings{DBType: "PostgreSQL", Port: 5432}
	assert.NotContains(t, s.Config(), "table_name")
	assert.NotContains(t, s.Config(), "sql_query")

	s.SetAccess(model.TableMode)
	require.NoError(t, s.Set("table_name", "orders"))

	once := s.Clone().Config()
	s.SetAccess(model.TableMode)
	assert.Equal(t, once, s.Config())
	assert.Equal(t, "orders", s.Config()["table_name"])

	s.SetAccess(model.QueryMode)
	assert.Equal(t, model.DefaultSQLQuery, s.Config()["sql_query"])
	assert.NotContains(t, s.Config(), "table_name")

	s.SetAccess(model.TableMode)
	assert.Equal(t, "", s.Config()["table_name"])
	assert.NotContains(t, s.Config(), "sql_query")
}

func TestSelectSettingsSet(t *testing.T) {
	t.Parallel()

	s := &model.SelectSettings{}
	err := s.Set("columns", []any{
		map[string]any{"original_name": "id", "new_name": "order_id"},
		map[string]any{"original_name": "amount", "new_name": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ColumnRename{
		{OriginalName: "id", NewName: "order_id"},
		{OriginalName: "amount", NewName: ""},
	}, s.Columns)

	clone, ok := s.Clone().(*model.SelectSettings)
	require.True(t, ok)
	clone.Columns[0].NewName = "changed"
	assert.Equal(t, "order_id", s.Columns[0].NewName)

	err = s.Set("columns", "id")
	assert.ErrorIs(t, err, model.ErrInvalidConfigValue)
}

func TestJoinSettingsSet(t *testing.T) {
	t.Parallel()

	s := &model.JoinSettings{JoinType: model.InnerJoin}
	require.NoError(t, s.Set("join_type", "left"))
	assert.Equal(t, model.LeftJoin, s.JoinType)
	assert.ErrorIs(t, s.Set("join_type", "cross"), model.ErrInvalidConfigValue)
}

func TestApplyConfig(t *testing.T) {
	t.Parallel()

	s := model.NewDatasetSettings(model.CSVKind)
	ignored, err := model.ApplyConfig(s, map[string]any{
		"path":      "/data/orders.csv",
		"delimiter": ";",
		"header":    false,
		"table":     "stale",
		"db_type":   "MySQL",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"db_type", "table"}, ignored)
	assert.Equal(t, map[string]any{
		"path":         "/data/orders.csv",
		"delimiter":    ";",
		"header":       false,
		"infer_schema": true,
	}, s.Config())

	_, err = model.ApplyConfig(model.NewDatasetSettings(model.DatabaseKind), map[string]any{"port": "nope"})
	assert.True(t, errors.Is(err, model.ErrInvalidConfigValue))
}

func TestAccessModeOf(t *testing.T) {
	t.Parallel()

	mode, err := model.AccessModeOf(model.NewDefaultSinkSettings(model.DatabaseKind))
	require.NoError(t, err)
	assert.Equal(t, model.TableMode, mode)

	_, err = model.AccessModeOf(model.NewDatasetSettings(model.CSVKind))
	assert.ErrorIs(t, err, model.ErrNotDatabase)
}
