// Package diagram projects pipelines into node/edge documents for the diagram viewer.
//
// A View is only ever built from a consistent document: every edge joins two known nodes through
// handles they declare, flows from input towards output nodes and no cycle exists. Load never
// fails; when a document cannot be fetched or is inconsistent, it returns an empty view carrying
// a Banner describing the problem.
package diagram

import (
	"context"

	"github.com/dominikbraun/graph"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/internal/store"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// View is a validated diagram ready to be rendered.
type View struct {
	Document *model.Document
	// Banner is the message to display when the diagram could not be loaded. Empty on success.
	Banner string
	// Err is the cause of the fallback behind Banner.
	Err error

	graph graph.Graph[string, model.Node]
	store *store.NodeStore
}

// Load fetches a document with loader and builds its view. Any failure is reported through the
// Banner of an empty view, including a missing loader.
func Load(ctx context.Context, loader Loader) *View {
	if loader == nil {
		return fallback(errors.Wrap(ErrNoDocument, "no diagram loader"))
	}

	doc, err := loader.Load(ctx)
	if err != nil {
		return fallback(errors.Wrap(err, "unable to load pipeline diagram"))
	}

	view, err := Build(doc)
	if err != nil {
		return fallback(errors.Wrap(err, "invalid pipeline diagram"))
	}

	return view
}

func fallback(err error) *View {
	glog.Warningf("showing an empty diagram: %v", err)

	view := newView(&model.Document{Nodes: []model.Node{}, Edges: []model.Edge{}})
	view.Banner = err.Error()
	view.Err = err

	return view
}

func newView(doc *model.Document) *View {
	st := store.NewNodeStore()

	return &View{
		Document: doc,
		graph:    graph.NewWithStore(nodeHash, st, graph.Directed(), graph.PreventCycles()),
		store:    st,
	}
}

func nodeHash(n model.Node) string {
	return n.ID
}

type handleKey struct {
	node, handle string
}

// Build checks doc and returns its view. The document is kept as is, edges included.
func Build(doc *model.Document) (*View, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	view := newView(doc)

	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, errors.Wrapf(ErrInvalidNode, "nodes[%d]: empty id", i)
		}

		switch n.Type {
		case model.InputNode, model.TransformNode, model.OutputNode:
		default:
			return nil, errors.Wrapf(ErrInvalidNode, "node %s: type %q", n.ID, n.Type)
		}

		err := view.graph.AddVertex(n, graph.VertexAttribute("label", label(n)))
		if errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, errors.Wrapf(ErrDuplicateNode, "%q", n.ID)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add node %s", n.ID)
		}
	}

	edgeIDs := map[string]struct{}{}
	targets := map[handleKey]string{}

	for _, e := range doc.Edges {
		if e.ID != "" {
			if _, ok := edgeIDs[e.ID]; ok {
				return nil, errors.Wrapf(ErrDuplicateEdge, "id %q", e.ID)
			}
			edgeIDs[e.ID] = struct{}{}
		}

		handle, err := view.checkEdge(e)
		if err != nil {
			return nil, errors.Wrapf(err, "edge %s", e.ID)
		}

		key := handleKey{e.Target, handle}
		if other, ok := targets[key]; ok {
			return nil, errors.Wrapf(ErrDuplicateEdge, "handle %q of %s is already connected by %s", handle, e.Target, other)
		}
		targets[key] = e.ID

		err = view.graph.AddEdge(e.Source, e.Target, graph.EdgeAttribute("id", e.ID), graph.EdgeAttribute("handle", handle))
		switch {
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			return nil, errors.Wrapf(ErrCycle, "edge %s from %s to %s", e.ID, e.Source, e.Target)
		case errors.Is(err, graph.ErrEdgeAlreadyExists):
			// Another handle of the same target is fed by the same node.
		case err != nil:
			return nil, errors.Wrapf(err, "unable to add edge %s", e.ID)
		}
	}

	return view, nil
}

// checkEdge validates the ends of e and returns the target handle it resolves to.
func (v *View) checkEdge(e model.Edge) (string, error) {
	source, err := v.graph.Vertex(e.Source)
	if errors.Is(err, graph.ErrVertexNotFound) {
		return "", errors.Wrapf(ErrDanglingEdge, "source %q", e.Source)
	}
	if err != nil {
		return "", err
	}

	target, err := v.graph.Vertex(e.Target)
	if errors.Is(err, graph.ErrVertexNotFound) {
		return "", errors.Wrapf(ErrDanglingEdge, "target %q", e.Target)
	}
	if err != nil {
		return "", err
	}

	if source.Type == model.OutputNode {
		return "", errors.Wrapf(ErrInvalidDirection, "output node %s has no outbound handle", source.ID)
	}
	if target.Type == model.InputNode {
		return "", errors.Wrapf(ErrInvalidDirection, "input node %s has no inbound handle", target.ID)
	}

	if e.SourceHandle != "" && e.SourceHandle != model.OutputHandle {
		return "", errors.Wrapf(ErrUnknownHandle, "source handle %q of %s", e.SourceHandle, source.ID)
	}

	return targetHandle(target, e.TargetHandle)
}

// targetHandle resolves handle against the inbound handles of n. Transform nodes declaring
// inputs have one handle per input; every other node has a single InputHandle. An empty
// handle selects the single handle when there is only one.
func targetHandle(n model.Node, handle string) (string, error) {
	inputs := n.Data.Inputs
	if n.Type != model.TransformNode || len(inputs) == 0 {
		inputs = []string{model.InputHandle}
	}

	if handle == "" {
		if len(inputs) == 1 {
			return inputs[0], nil
		}

		return "", errors.Wrapf(ErrUnknownHandle, "%s has %d inputs, a target handle is required", n.ID, len(inputs))
	}

	for _, in := range inputs {
		if in == handle {
			return handle, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownHandle, "target handle %q of %s", handle, n.ID)
}

// Empty reports whether the view has no node.
func (v *View) Empty() bool {
	return v.Document == nil || len(v.Document.Nodes) == 0
}

// Node returns the node id.
func (v *View) Node(id string) (model.Node, bool) {
	n, err := v.graph.Vertex(id)
	if err != nil {
		return model.Node{}, false
	}

	return n, true
}

// Details returns the config snapshot of the node id, shown when the node is selected.
func (v *View) Details(id string) (map[string]any, bool) {
	n, ok := v.Node(id)
	if !ok {
		return nil, false
	}

	return n.Data.Details, true
}

// Upstream returns the ids of the nodes feeding id, in edge order.
func (v *View) Upstream(id string) ([]string, error) {
	if _, ok := v.Node(id); !ok {
		return nil, errors.Wrapf(graph.ErrVertexNotFound, "%q", id)
	}

	edges, err := v.store.ListEdges()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list edges")
	}

	res := []string{}
	for _, e := range edges {
		if e.Target == id {
			res = append(res, e.Source)
		}
	}

	return res, nil
}

func label(n model.Node) string {
	if n.Data.Label != "" {
		return n.Data.Label
	}

	return n.ID
}
