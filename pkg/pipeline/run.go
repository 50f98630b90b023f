package pipeline

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/codec"
	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// SimulateRun stands in for a backend submission: it logs and returns the JSON payload that
// would be sent. Nothing is executed.
func SimulateRun(cfg *model.PipelineConfig) ([]byte, error) {
	if cfg == nil {
		return nil, ErrConfigMustBeSet
	}
	if cfg.Empty() {
		return nil, ErrEmptyPipeline
	}

	payload, err := codec.Export(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build payload")
	}

	glog.Infof("Simulated backend payload:\n%s", payload)

	return payload, nil
}
