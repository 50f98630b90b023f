package pipeline

import (
	"fmt"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// WarningKind classifies a non-blocking consistency issue.
type WarningKind string

const (
	DuplicateIDWarning      WarningKind = "duplicate_id"
	DuplicateDatasetWarning WarningKind = "duplicate_dataset"
	OutputCollisionWarning  WarningKind = "output_collision"
	UnresolvedInputWarning  WarningKind = "unresolved_input"
	SelfJoinWarning         WarningKind = "self_join"
	CycleWarning            WarningKind = "cycle"
)

// Warning reports a consistency issue that does not prevent the configuration from being
// edited or exported.
type Warning struct {
	Kind       WarningKind
	Collection model.Collection
	EntityID   string
	Message    string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Collection, w.EntityID, w.Message)
}

// OutputWarning reports whether the output dataset of t is already produced elsewhere in cfg.
// Writing back onto the input dataset is allowed.
func OutputWarning(cfg *model.PipelineConfig, t model.Transformation) (Warning, bool) {
	if t.OutputDataset == "" || t.OutputDataset == t.InputDataset {
		return Warning{}, false
	}

	others := make([]model.Transformation, 0, len(cfg.Transformations))
	for _, other := range cfg.Transformations {
		if other.ID != t.ID {
			others = append(others, other)
		}
	}

	for _, d := range AvailableDatasets(cfg.Sources, others) {
		if d == t.OutputDataset {
			return Warning{
				Kind:       OutputCollisionWarning,
				Collection: model.TransformationsCollection,
				EntityID:   t.ID,
				Message:    fmt.Sprintf("Output dataset name '%s' already exists. Please choose a unique name.", t.OutputDataset),
			}, true
		}
	}

	return Warning{}, false
}

// Lint returns every consistency warning of cfg in a stable order.
func Lint(cfg *model.PipelineConfig) []Warning {
	if cfg == nil {
		return nil
	}

	warnings := []Warning{}
	warnings = append(warnings, duplicateIDs(cfg)...)

	sourceNames := map[string]string{}
	for _, s := range cfg.Sources {
		if firstID, ok := sourceNames[s.Name]; ok {
			warnings = append(warnings, Warning{
				Kind:       DuplicateDatasetWarning,
				Collection: model.SourcesCollection,
				EntityID:   s.ID,
				Message:    fmt.Sprintf("dataset name %q is already used by source %s", s.Name, firstID),
			})

			continue
		}
		sourceNames[s.Name] = s.ID
	}

	available := map[string]struct{}{}
	for _, d := range AvailableDatasets(cfg.Sources, cfg.Transformations) {
		available[d] = struct{}{}
	}

	unresolved := func(coll model.Collection, id, field, name string) {
		if name == "" {
			return
		}
		if _, ok := available[name]; ok {
			return
		}
		warnings = append(warnings, Warning{
			Kind:       UnresolvedInputWarning,
			Collection: coll,
			EntityID:   id,
			Message:    fmt.Sprintf("%s %q does not match any dataset", field, name),
		})
	}

	for _, t := range cfg.Transformations {
		if w, ok := OutputWarning(cfg, t); ok {
			warnings = append(warnings, w)
		}

		unresolved(model.TransformationsCollection, t.ID, "input_dataset", t.InputDataset)

		if join, ok := t.Settings.(*model.JoinSettings); ok {
			unresolved(model.TransformationsCollection, t.ID, "right_dataset", join.RightDataset)

			if join.RightDataset != "" && join.RightDataset == t.InputDataset {
				warnings = append(warnings, Warning{
					Kind:       SelfJoinWarning,
					Collection: model.TransformationsCollection,
					EntityID:   t.ID,
					Message:    fmt.Sprintf("dataset %q is joined with itself", t.InputDataset),
				})
			}
		}
	}

	for _, s := range cfg.Sinks {
		unresolved(model.SinksCollection, s.ID, "input_dataset", s.InputDataset)
	}

	_, err := buildLineage(cfg, func(t model.Transformation, input string) {
		warnings = append(warnings, Warning{
			Kind:       CycleWarning,
			Collection: model.TransformationsCollection,
			EntityID:   t.ID,
			Message:    fmt.Sprintf("reading %q to produce %q creates a cycle", input, t.OutputDataset),
		})
	})
	if err != nil {
		warnings = append(warnings, Warning{Kind: CycleWarning, Message: err.Error()})
	}

	return warnings
}

func duplicateIDs(cfg *model.PipelineConfig) []Warning {
	warnings := []Warning{}

	check := func(coll model.Collection, ids []string) {
		seen := map[string]struct{}{}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				warnings = append(warnings, Warning{
					Kind:       DuplicateIDWarning,
					Collection: coll,
					EntityID:   id,
					Message:    "id is not unique",
				})

				continue
			}
			seen[id] = struct{}{}
		}
	}

	check(model.SourcesCollection, ids(cfg.Sources))
	check(model.TransformationsCollection, ids(cfg.Transformations))
	check(model.SinksCollection, ids(cfg.Sinks))

	return warnings
}

func ids[E model.Entity](list []E) []string {
	res := make([]string, 0, len(list))
	for _, e := range list {
		res = append(res, e.EntityID())
	}

	return res
}
