package diagram

import (
	"io"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

const dotTemplate = `strict digraph {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{escape $v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{escape .Source}}" {{if .Target}}-> "{{escape .Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{escape $v}}", {{end}}]{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{escape $v}}", {{end}}]{{end}};
	{{end}}
	}
`

type description struct {
	Attributes map[string]string
	Statements []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
}

type nodeStyle struct {
	shape      string
	red, green uint8
	blue       uint8
}

var nodeStyles = map[model.NodeType]nodeStyle{
	model.InputNode:     {shape: "cylinder", red: 129, green: 199, blue: 132},
	model.TransformNode: {shape: "box", red: 100, green: 181, blue: 246},
	model.OutputNode:    {shape: "folder", red: 255, green: 183, blue: 77},
}

// GraphAttribute is a functional option for WriteDOT setting a graph level attribute.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// WriteDOT renders doc as a Graphviz digraph. Nodes are filled with the colour of their
// category and edges reading a named input are labelled with it. doc is validated first.
func WriteDOT(wrt io.Writer, doc *model.Document, options ...func(*description)) error {
	view, err := Build(doc)
	if err != nil {
		return errors.Wrap(err, "unable to build diagram")
	}

	desc, err := view.generateDOT(options...)
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

func (v *View) generateDOT(options ...func(*description)) (description, error) {
	desc := description{
		Attributes: map[string]string{"rankdir": "LR"},
		Statements: make([]statement, 0),
	}

	if name, ok := v.Document.PipelineMetadata["pipeline_name"].(string); ok && name != "" {
		desc.Attributes["label"] = name
	}

	for _, option := range options {
		option(&desc)
	}

	vertices, err := v.store.ListVertices()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list vertices")
	}

	for _, id := range vertices {
		n, properties, err := v.store.Vertex(id)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		style := nodeStyles[n.Type]

		fill, err := colors.RGB(style.red, style.green, style.blue)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get colour")
		}

		attributes := map[string]string{
			"shape":     style.shape,
			"style":     "filled",
			"fillcolor": fill.ToHEX().String(),
		}
		for k, val := range properties.Attributes {
			attributes[k] = val
		}
		if n.Data.Kind != "" {
			attributes["tooltip"] = n.Data.Kind
		}

		desc.Statements = append(desc.Statements, statement{Source: id, SourceAttributes: attributes})
	}

	edges, err := v.store.ListEdges()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list edges")
	}

	for _, e := range edges {
		attributes := map[string]string{}
		if handle := e.Properties.Attributes["handle"]; handle != model.InputHandle {
			attributes["label"] = handle
		}

		desc.Statements = append(desc.Statements, statement{
			Source:         e.Source,
			Target:         e.Target,
			EdgeAttributes: attributes,
		})
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Funcs(template.FuncMap{"escape": escape}).Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
