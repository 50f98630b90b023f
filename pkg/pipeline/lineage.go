package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// lineage is the dataset dependency graph: an edge goes from every dataset a transformation
// reads to the dataset it produces.
type lineage struct {
	graph graph.Graph[string, string]
}

func newLineage() *lineage {
	return &lineage{
		graph: graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
}

func (l *lineage) addDataset(name string) error {
	err := l.graph.AddVertex(name)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "unable to add dataset %s", name)
	}

	return nil
}

func (l *lineage) addLink(parentName, childName string) error {
	err := l.addDataset(parentName)
	if err != nil {
		return err
	}

	err = l.addDataset(childName)
	if err != nil {
		return err
	}

	err = l.graph.AddEdge(parentName, childName)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "unable to link %s to %s", parentName, childName)
	}

	return nil
}

// buildLineage links the datasets of cfg and calls onCycle for every transformation whose
// links would close a cycle. Such links are left out of the graph.
func buildLineage(cfg *model.PipelineConfig, onCycle func(t model.Transformation, input string)) (*lineage, error) {
	l := newLineage()

	for _, name := range AvailableDatasets(cfg.Sources, cfg.Transformations) {
		err := l.addDataset(name)
		if err != nil {
			return nil, err
		}
	}

	for _, t := range cfg.Transformations {
		if t.OutputDataset == "" {
			continue
		}

		for _, input := range t.Inputs() {
			// Writing a dataset back onto itself is an in-place rewrite, not a dependency.
			if input == t.OutputDataset {
				continue
			}

			err := l.addLink(input, t.OutputDataset)
			if errors.Is(err, graph.ErrEdgeCreatesCycle) {
				if onCycle != nil {
					onCycle(t, input)
				}

				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return l, nil
}

// DatasetOrder returns the datasets of cfg ordered so that every dataset comes after the
// datasets it is derived from. Links closing a cycle are ignored.
func DatasetOrder(cfg *model.PipelineConfig) ([]string, error) {
	if cfg == nil {
		return nil, ErrConfigMustBeSet
	}

	l, err := buildLineage(cfg, nil)
	if err != nil {
		return nil, err
	}

	order, err := graph.TopologicalSort(l.graph)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort datasets")
	}

	return order, nil
}
