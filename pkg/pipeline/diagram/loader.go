package diagram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

// maxDocumentSize bounds the body read by HTTPLoader.
const maxDocumentSize = 32 << 20

// Loader fetches a diagram document.
type Loader interface {
	Load(ctx context.Context) (*model.Document, error)
}

// FileLoader reads a diagram document from a static path. Files ending in .yaml or .yml are
// read as YAML, anything else as JSON.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(ctx context.Context) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", l.Path)
	}

	switch strings.ToLower(filepath.Ext(l.Path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	}

	return Decode(data)
}

// HTTPLoader fetches a diagram document from a static URL.
type HTTPLoader struct {
	URL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (l HTTPLoader) Load(ctx context.Context) (*model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create request")
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to fetch %s", l.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "%s: %d", l.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", l.URL)
	}

	return Decode(data)
}

// Decode parses a JSON diagram document. Absent node or edge lists are read as empty.
func Decode(data []byte) (*model.Document, error) {
	doc := &model.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "unable to decode diagram document")
	}

	if doc.Nodes == nil {
		doc.Nodes = []model.Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []model.Edge{}
	}

	return doc, nil
}

// DecodeYAML parses a YAML diagram document.
func DecodeYAML(data []byte) (*model.Document, error) {
	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode diagram document")
	}

	return Decode(j)
}
