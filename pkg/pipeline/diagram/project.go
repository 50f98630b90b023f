package diagram

import (
	"fmt"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// Layout of projected nodes: one column per category, one row per entity.
const (
	columnWidth = 300
	rowHeight   = 120
)

// FromConfig projects cfg into a diagram document. Nodes take the ids of their entities and
// edges go from the producer of a dataset to the handle reading it. Edge ids are numbered in
// creation order since entity ids may contain any character. When several entities
// produce the same dataset the first one, sources before transformations, is the producer.
// References that cannot be drawn are reported as warnings and left out.
func FromConfig(cfg *model.PipelineConfig) (*model.Document, []string) {
	doc := &model.Document{
		Nodes: []model.Node{},
		Edges: []model.Edge{},
		PipelineMetadata: map[string]any{
			"pipeline_name": cfg.Name,
			"description":   cfg.Description,
		},
	}

	var warnings []string

	addNode := func(n model.Node) bool {
		for _, other := range doc.Nodes {
			if other.ID == n.ID {
				warnings = append(warnings, fmt.Sprintf("%s: id already used by another node, skipped", n.ID))
				return false
			}
		}
		doc.Nodes = append(doc.Nodes, n)

		return true
	}

	producers := map[string]string{}
	produce := func(dataset, id string) {
		if _, ok := producers[dataset]; !ok && dataset != "" {
			producers[dataset] = id
		}
	}

	for i, s := range cfg.Sources {
		if addNode(model.Node{
			ID:       s.ID,
			Type:     model.InputNode,
			Data:     model.NodeData{Label: s.Name, Kind: string(s.Kind), Details: s.Config()},
			Position: position(0, i),
		}) {
			produce(s.Name, s.ID)
		}
	}

	var transformations []model.Transformation
	for i, t := range cfg.Transformations {
		if addNode(model.Node{
			ID:   t.ID,
			Type: model.TransformNode,
			Data: model.NodeData{
				Label:   t.Name,
				Kind:    string(t.Kind),
				Inputs:  t.Inputs(),
				Details: t.Config(),
			},
			Position: position(1, i),
		}) {
			produce(t.OutputDataset, t.ID)
			transformations = append(transformations, t)
		}
	}

	var sinks []model.Sink
	for i, s := range cfg.Sinks {
		if addNode(model.Node{
			ID:       s.ID,
			Type:     model.OutputNode,
			Data:     model.NodeData{Label: s.Name, Kind: string(s.Kind), Details: s.Config()},
			Position: position(2, i),
		}) {
			sinks = append(sinks, s)
		}
	}

	links := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	for _, n := range doc.Nodes {
		_ = links.AddVertex(n.ID)
	}

	connect := func(consumer, dataset, handle string) {
		producer, ok := producers[dataset]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: dataset %q has no producer", consumer, dataset))
			return
		}
		if producer == consumer {
			return
		}

		err := links.AddEdge(producer, consumer)
		switch {
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			warnings = append(warnings, fmt.Sprintf("%s: reading %q from %s creates a cycle", consumer, dataset, producer))
			return
		case err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists):
			warnings = append(warnings, fmt.Sprintf("%s: %v", consumer, err))
			return
		}

		doc.Edges = append(doc.Edges, model.Edge{
			ID:           fmt.Sprintf("e%d:%s->%s", len(doc.Edges)+1, producer, consumer),
			Source:       producer,
			Target:       consumer,
			SourceHandle: model.OutputHandle,
			TargetHandle: handle,
		})
	}

	for _, t := range transformations {
		for _, input := range t.Inputs() {
			connect(t.ID, input, input)
		}
	}

	for _, s := range sinks {
		if s.InputDataset == "" {
			continue
		}
		connect(s.ID, s.InputDataset, model.InputHandle)
	}

	return doc, warnings
}

func position(column, row int) model.Position {
	return model.Position{X: float64(column * columnWidth), Y: float64(row * rowHeight)}
}
