package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-config/pkg/pipeline"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

func databaseConfig(t *testing.T) *model.PipelineConfig {
	t.Helper()

	cfg, err := pipeline.AddEntity(model.NewPipelineConfig(), model.SourcesCollection, model.Source{
		ID:   "db",
		Name: "orders",
		Kind: model.DatabaseKind,
	})
	require.NoError(t, err)

	return cfg
}

func TestSetAccessModeIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, mode := range []model.AccessMode{model.TableMode, model.QueryMode} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			once, err := pipeline.SetAccessMode(databaseConfig(t), model.SourcesCollection, "db", mode)
			require.NoError(t, err)

			twice, err := pipeline.SetAccessMode(once, model.SourcesCollection, "db", mode)
			require.NoError(t, err)

			assert.Equal(t, once, twice)
		})
	}
}

func TestSetAccessModeRoundTrip(t *testing.T) {
	t.Parallel()

	cfg, err := pipeline.SetAccessMode(databaseConfig(t), model.SourcesCollection, "db", model.TableMode)
	require.NoError(t, err)
	cfg, err = pipeline.SetConfigField(cfg, model.SourcesCollection, "db", "table_name", "orders")
	require.NoError(t, err)

	cfg, err = pipeline.SetAccessMode(cfg, model.SourcesCollection, "db", model.QueryMode)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSQLQuery, cfg.Sources[0].Config()["sql_query"])
	assert.NotContains(t, cfg.Sources[0].Config(), "table_name")

	_, err = pipeline.SetConfigField(cfg, model.SourcesCollection, "db", "table_name", "orders")
	assert.ErrorIs(t, err, model.ErrAccessModeConflict)

	cfg, err = pipeline.SetAccessMode(cfg, model.SourcesCollection, "db", model.TableMode)
	require.NoError(t, err)
	assert.Contains(t, cfg.Sources[0].Config(), "table_name")
	assert.NotContains(t, cfg.Sources[0].Config(), "sql_query")
}

func TestSetAccessModeErrors(t *testing.T) {
	t.Parallel()

	cfg := ordersConfig(t)

	tcs := map[string]struct {
		coll        model.Collection
		id          string
		mode        model.AccessMode
		expectedErr error
	}{
		"csv source":     {coll: model.SourcesCollection, id: "src-1", mode: model.TableMode, expectedErr: model.ErrNotDatabase},
		"transformation": {coll: model.TransformationsCollection, id: "tr-1", mode: model.QueryMode, expectedErr: model.ErrNotDatabase},
		"no mode":        {coll: model.SourcesCollection, id: "src-1", mode: model.NoAccessMode, expectedErr: model.ErrInvalidConfigValue},
		"unknown id":     {coll: model.SinksCollection, id: "nope", mode: model.TableMode, expectedErr: model.ErrNotFound},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := pipeline.SetAccessMode(cfg, tc.coll, tc.id, tc.mode)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestParseAccessMode(t *testing.T) {
	t.Parallel()

	mode, err := pipeline.ParseAccessMode("Custom SQL Query")
	require.NoError(t, err)
	assert.Equal(t, model.QueryMode, mode)

	mode, err = pipeline.ParseAccessMode("Table Name")
	require.NoError(t, err)
	assert.Equal(t, model.TableMode, mode)

	_, err = pipeline.ParseAccessMode("Stored Procedure")
	assert.ErrorIs(t, err, model.ErrInvalidConfigValue)
}
