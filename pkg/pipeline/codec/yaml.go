package codec

import (
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// ImportYAML decodes a YAML rendition of the document. It is converted to JSON first so both
// formats share the same checks.
func ImportYAML(data []byte) (*model.PipelineConfig, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, &ParseError{Msg: "invalid YAML: " + err.Error(), Err: err}
	}

	return Import(jsonData)
}

// ExportYAML encodes cfg as YAML.
func ExportYAML(cfg *model.PipelineConfig) ([]byte, error) {
	jsonData, err := Export(cfg)
	if err != nil {
		return nil, err
	}

	data, err := yaml.JSONToYAML(jsonData)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert pipeline configuration to YAML")
	}

	return data, nil
}
