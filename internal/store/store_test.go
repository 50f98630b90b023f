package store_test

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipeline-config/internal/store"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

func newGraph(t *testing.T, ids ...string) (graph.Graph[string, model.Node], *store.NodeStore) {
	t.Helper()

	st := store.NewNodeStore()
	g := graph.NewWithStore(func(n model.Node) string { return n.ID }, st, graph.Directed(), graph.PreventCycles())

	for _, id := range ids {
		require.NoError(t, g.AddVertex(model.Node{ID: id, Type: model.TransformNode}))
	}

	return g, st
}

func TestNodeStoreOrder(t *testing.T) {
	t.Parallel()

	g, st := newGraph(t, "c", "a", "b")
	require.NoError(t, g.AddEdge("c", "b"))
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("c", "a"))

	vertices, err := st.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, vertices)

	edges, err := st.ListEdges()
	require.NoError(t, err)

	got := make([][2]string, 0, len(edges))
	for _, e := range edges {
		got = append(got, [2]string{e.Source, e.Target})
	}
	assert.Equal(t, [][2]string{{"c", "b"}, {"a", "b"}, {"c", "a"}}, got)

	require.NoError(t, g.RemoveEdge("a", "b"))

	edges, err = st.ListEdges()
	require.NoError(t, err)
	assert.Len(t, edges, 2)

	count, err := st.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNodeStoreVertex(t *testing.T) {
	t.Parallel()

	g, st := newGraph(t)
	require.NoError(t, g.AddVertex(model.Node{ID: "a", Type: model.InputNode}, graph.VertexAttribute("label", "orders")))

	err := g.AddVertex(model.Node{ID: "a", Type: model.OutputNode})
	assert.ErrorIs(t, err, graph.ErrVertexAlreadyExists)

	n, props, err := st.Vertex("a")
	require.NoError(t, err)
	assert.Equal(t, model.InputNode, n.Type)
	assert.Equal(t, "orders", props.Attributes["label"])

	require.NoError(t, st.UpdateVertex("a", graph.VertexAttribute("label", "customers")))
	_, props, err = st.Vertex("a")
	require.NoError(t, err)
	assert.Equal(t, "customers", props.Attributes["label"])

	_, _, err = st.Vertex("missing")
	assert.ErrorIs(t, err, graph.ErrVertexNotFound)
	assert.ErrorIs(t, st.UpdateVertex("missing"), graph.ErrVertexNotFound)
}

func TestNodeStoreRemoveVertex(t *testing.T) {
	t.Parallel()

	g, st := newGraph(t, "a", "b", "c")
	require.NoError(t, g.AddEdge("a", "b"))

	tcs := map[string]struct {
		id          string
		expectedErr error
	}{
		"has edges": {id: "a", expectedErr: graph.ErrVertexHasEdges},
		"missing":   {id: "z", expectedErr: graph.ErrVertexNotFound},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, st.RemoveVertex(tc.id), tc.expectedErr)
		})
	}

	require.NoError(t, st.RemoveVertex("c"))

	vertices, err := st.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, vertices)
}

func TestNodeStoreEdge(t *testing.T) {
	t.Parallel()

	g, st := newGraph(t, "a", "b")
	require.NoError(t, g.AddEdge("a", "b", graph.EdgeAttribute("handle", "orders")))

	e, err := st.Edge("a", "b")
	require.NoError(t, err)
	assert.Equal(t, "orders", e.Properties.Attributes["handle"])

	_, err = st.Edge("b", "a")
	assert.ErrorIs(t, err, graph.ErrEdgeNotFound)

	assert.ErrorIs(t, g.AddEdge("a", "b"), graph.ErrEdgeAlreadyExists)

	e.Properties.Attributes["handle"] = "customers"
	require.NoError(t, st.UpdateEdge("a", "b", e))

	e, err = st.Edge("a", "b")
	require.NoError(t, err)
	assert.Equal(t, "customers", e.Properties.Attributes["handle"])

	assert.ErrorIs(t, st.UpdateEdge("b", "a", e), graph.ErrEdgeNotFound)
}

func TestNodeStoreCreatesCycle(t *testing.T) {
	t.Parallel()

	g, st := newGraph(t, "a", "b", "c", "d")
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	tcs := map[string]struct {
		source, target string
		expected       bool
		expectedErr    error
	}{
		"closes a path":  {source: "c", target: "a", expected: true},
		"closes an edge": {source: "b", target: "a", expected: true},
		"self loop":      {source: "d", target: "d", expected: true},
		"forward":        {source: "a", target: "c"},
		"unrelated":      {source: "d", target: "a"},
		"missing source": {source: "z", target: "a", expectedErr: graph.ErrVertexNotFound},
		"missing target": {source: "a", target: "z", expectedErr: graph.ErrVertexNotFound},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := st.CreatesCycle(tc.source, tc.target)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	assert.ErrorIs(t, g.AddEdge("c", "a"), graph.ErrEdgeCreatesCycle)
}
