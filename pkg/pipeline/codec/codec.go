// Package codec converts pipeline configurations to and from the JSON document exchanged with
// the editor. Imports are all-or-nothing: a rejected document never yields a partial config.
package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// Import decodes and checks a JSON document.
func Import(data []byte) (*model.PipelineConfig, error) {
	var raw any

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, &ParseError{Msg: "invalid JSON: " + err.Error(), Err: err}
	}

	err = checkShape(raw)
	if err != nil {
		return nil, err
	}

	var doc document

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, &SchemaError{Msg: err.Error()}
	}

	return doc.toModel()
}

// Export encodes cfg as a JSON document indented with two spaces.
func Export(cfg *model.PipelineConfig) ([]byte, error) {
	if cfg == nil {
		return nil, ErrConfigMustBeSet
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	err := enc.Encode(fromModel(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode pipeline configuration")
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Filename returns the download name of a pipeline: spaces become underscores, the name is
// lower-cased and falls back to "pipeline" when empty.
func Filename(pipelineName string) string {
	base := strings.ToLower(strings.ReplaceAll(pipelineName, " ", "_"))
	if base == "" {
		base = "pipeline"
	}

	return base + ".json"
}

// Read imports the document provided by r. Reading stops waiting when ctx is done: r is closed
// at that point when it is an io.Closer, otherwise the caller must close it to release the
// pending read. Documents are decoded as YAML when yamlInput is set.
func Read(ctx context.Context, r io.Reader, yamlInput bool) (*model.PipelineConfig, error) {
	type result struct {
		data []byte
		err  error
	}

	done := make(chan result, 1)

	go func() {
		data, err := io.ReadAll(r)
		done <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		if closer, ok := r.(io.Closer); ok {
			_ = closer.Close()
		}

		return nil, errors.Wrap(ctx.Err(), "unable to read pipeline configuration")
	case res := <-done:
		if res.err != nil {
			return nil, errors.Wrap(res.err, "unable to read pipeline configuration")
		}

		if yamlInput {
			return ImportYAML(res.data)
		}

		return Import(res.data)
	}
}

// ReadFile imports the document stored at path, as YAML for .yaml and .yml files.
func ReadFile(ctx context.Context, path string) (*model.PipelineConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer f.Close()

	cfg, err := Read(ctx, f, IsYAML(path))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	return cfg, nil
}

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
