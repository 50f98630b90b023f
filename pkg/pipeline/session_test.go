package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-config/pkg/pipeline"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/codec"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

func TestNewSession(t *testing.T) {
	t.Parallel()

	session := pipeline.NewSession()
	cfg := session.Config()

	assert.Equal(t, model.DefaultPipelineName, cfg.Name)
	assert.True(t, cfg.Empty())
	assert.Empty(t, session.AvailableDatasets())
	assert.Empty(t, session.Warnings())

	// The returned configuration is a copy.
	cfg.Name = "changed"
	assert.Equal(t, model.DefaultPipelineName, session.Config().Name)
}

func TestSessionFailedMutationKeepsConfig(t *testing.T) {
	t.Parallel()

	session := pipeline.NewSessionFrom(ordersConfig(t))
	before := session.Config()

	err := session.Add(model.SourcesCollection, model.Source{ID: "src-1", Name: "dup", Kind: model.CSVKind})
	require.ErrorIs(t, err, model.ErrDuplicateID)

	err = session.SetConfigField(model.SinksCollection, "snk-1", "mode", "merge")
	require.ErrorIs(t, err, model.ErrInvalidConfigValue)

	assert.Equal(t, before, session.Config())
}

func TestSessionExpanded(t *testing.T) {
	t.Parallel()

	session := pipeline.NewSessionFrom(ordersConfig(t))
	session.SetExpanded("tr-1", true)
	session.SetExpanded("snk-1", true)
	session.SetExpanded("snk-1", false)

	assert.True(t, session.Expanded("tr-1"))
	assert.False(t, session.Expanded("snk-1"))

	require.NoError(t, session.Remove(model.TransformationsCollection, "tr-1"))
	assert.False(t, session.Expanded("tr-1"))

	// View state never reaches the document.
	session.SetExpanded("src-1", true)
	_, data, err := session.Export()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "isExpanded")
}

func TestSessionImportMissingKeys(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"no pipeline_name":    `{"sources": [], "transformations": [], "sinks": []}`,
		"no sources":          `{"pipeline_name": "x", "transformations": [], "sinks": []}`,
		"no transformations":  `{"pipeline_name": "x", "sources": [], "sinks": []}`,
		"no sinks":            `{"pipeline_name": "x", "sources": [], "transformations": []}`,
		"null sinks":          `{"pipeline_name": "x", "sources": [], "transformations": [], "sinks": null}`,
		"not json":            `{"pipeline_name": `,
		"not an object":       `[]`,
		"entity without type": `{"pipeline_name": "x", "sources": [{"id": "a", "name": "a", "config": {}}], "transformations": [], "sinks": []}`,
	}

	for name, doc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			session := pipeline.NewSessionFrom(ordersConfig(t))
			session.SetExpanded("src-1", true)
			before := session.Config()

			err := session.Import([]byte(doc))
			require.ErrorIs(t, err, codec.ErrMalformed)

			assert.Equal(t, before, session.Config())
			assert.True(t, session.Expanded("src-1"))
		})
	}
}

func TestSessionImportResetsViewState(t *testing.T) {
	t.Parallel()

	session := pipeline.NewSessionFrom(ordersConfig(t))
	session.SetExpanded("src-1", true)

	err := session.Import([]byte(`{"pipeline_name": "", "description": null, "sources": [], "transformations": [], "sinks": []}`))
	require.NoError(t, err)

	assert.True(t, session.Config().Empty())
	assert.False(t, session.Expanded("src-1"))

	name, _, err := session.Export()
	require.NoError(t, err)
	assert.Equal(t, "pipeline.json", name)
}

func TestSessionLoad(t *testing.T) {
	t.Parallel()

	doc := `
pipeline_name: Orders
sources:
  - id: s1
    name: orders
    type: CSV
    config:
      path: /data/orders.csv
    schema: []
transformations: []
sinks: []
`

	session := pipeline.NewSession()
	require.NoError(t, session.Load(context.Background(), strings.NewReader(doc), true))
	assert.Equal(t, []string{"orders"}, session.AvailableDatasets())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := session.Load(ctx, blockingReader{}, false)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Orders", session.Config().Name)
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

func TestSessionOrdersScenario(t *testing.T) {
	t.Parallel()

	session := pipeline.NewSession()

	require.NoError(t, session.Add(model.SourcesCollection, model.Source{ID: "s", Name: "orders", Kind: model.CSVKind}))
	require.NoError(t, session.Add(model.TransformationsCollection, model.Transformation{
		ID:            "t",
		Kind:          model.FilterRowsKind,
		InputDataset:  "orders",
		OutputDataset: "orders_clean",
	}))
	assert.ElementsMatch(t, []string{"orders", "orders_clean"}, session.AvailableDatasets())

	require.NoError(t, session.Add(model.SinksCollection, model.Sink{ID: "k", Kind: model.ParquetKind, InputDataset: "orders_clean"}))

	name, data, err := session.Export()
	require.NoError(t, err)
	assert.Equal(t, "my_new_data_pipeline.json", name)

	reloaded := pipeline.NewSession()
	require.NoError(t, reloaded.Import(data))

	cfg := reloaded.Config()
	assert.Len(t, cfg.Sources, 1)
	assert.Len(t, cfg.Transformations, 1)
	require.Len(t, cfg.Sinks, 1)
	assert.Equal(t, "orders_clean", cfg.Sinks[0].InputDataset)
	assert.Equal(t, session.Config(), cfg)
}

func TestSimulateRun(t *testing.T) {
	t.Parallel()

	_, err := pipeline.SimulateRun(model.NewPipelineConfig())
	require.ErrorIs(t, err, pipeline.ErrEmptyPipeline)
	assert.Equal(t,
		"please define at least one source, transformation, or sink before running the pipeline",
		err.Error())

	_, err = pipeline.SimulateRun(nil)
	require.ErrorIs(t, err, pipeline.ErrConfigMustBeSet)

	session := pipeline.NewSessionFrom(ordersConfig(t))
	payload, err := session.Run()
	require.NoError(t, err)

	exported, err := codec.Export(session.Config())
	require.NoError(t, err)
	assert.Equal(t, exported, payload)
}
