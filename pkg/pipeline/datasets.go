package pipeline

import (
	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// AvailableDatasets returns every dataset name a stage may reference: source names followed by
// non-empty transformation outputs, deduplicated in first-seen order. It is recomputed on each
// call and never cached.
func AvailableDatasets(sources []model.Source, transformations []model.Transformation) []string {
	seen := make(map[string]struct{}, len(sources)+len(transformations))
	datasets := make([]string, 0, len(sources)+len(transformations))

	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		datasets = append(datasets, name)
	}

	for _, s := range sources {
		add(s.Name)
	}

	for _, t := range transformations {
		if t.OutputDataset != "" {
			add(t.OutputDataset)
		}
	}

	return datasets
}

// InputOptions returns the datasets a transformation or a sink may read.
func InputOptions(cfg *model.PipelineConfig) []string {
	return AvailableDatasets(cfg.Sources, cfg.Transformations)
}

// JoinOptions returns the datasets a join may use as right-hand side. The input dataset is
// excluded so a dataset is never joined with itself.
func JoinOptions(cfg *model.PipelineConfig, inputDataset string) []string {
	all := AvailableDatasets(cfg.Sources, cfg.Transformations)

	res := make([]string, 0, len(all))
	for _, d := range all {
		if d != inputDataset {
			res = append(res, d)
		}
	}

	return res
}
