package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrConfigMustBeSet = errors.New("config must be set")
	ErrEntityMustBeSet = errors.New("entity must be set")
	ErrEmptyPipeline   = errors.New("please define at least one source, transformation, or sink before running the pipeline")
)
