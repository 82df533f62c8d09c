package export

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-pipeline-graph/internal/store"
	"github.com/askiada/go-pipeline-graph/pkg/pipeline/model"
)

const (
	labelAttribute = "label"
	shapeAttribute = "shape"
	colorAttribute = "color"
	laneSeparator  = ", "
)

var stageShapes = map[model.StageType]string{
	model.SourceStageType:    "invhouse",
	model.ProcessorStageType: "box",
	model.TargetStageType:    "house",
}

// DOTDrawer exports the graph in the Graphviz DOT language. Stages and links are written
// in the order they were added.
type DOTDrawer struct {
	graph       graph.Graph[string, string]
	store       store.CustomStore[string, string]
	attributes  map[string]string
	errorCounts map[string]int
}

// DOTOption configures a DOTDrawer.
type DOTOption func(d *DOTDrawer)

// GraphAttribute sets a graph level attribute such as rankdir.
func GraphAttribute(key, value string) DOTOption {
	return func(d *DOTDrawer) {
		d.attributes[key] = value
	}
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer(opts ...DOTOption) *DOTDrawer {
	st := store.NewMemoryStore[string, string]()
	d := &DOTDrawer{
		graph:       graph.NewWithStore(graph.StringHash, st, graph.Directed()),
		store:       st,
		attributes:  map[string]string{"rankdir": "LR"},
		errorCounts: make(map[string]int),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// AddStage adds a stage to the graph, labelled and shaped after its type.
func (d *DOTDrawer) AddStage(stage *model.StageInstance) error {
	label := stage.UIInfo.Label
	if label == "" {
		label = stage.InstanceName
	}

	options := []func(*graph.VertexProperties){graph.VertexAttribute(labelAttribute, label)}
	if shape, ok := stageShapes[stage.UIInfo.StageType]; ok {
		options = append(options, graph.VertexAttribute(shapeAttribute, shape))
	}

	err := d.graph.AddVertex(stage.InstanceName, options...)
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	return nil
}

// AddLink adds the lane to the link between source and target.
func (d *DOTDrawer) AddLink(source, target, lane string) error {
	existing, err := d.graph.Edge(source, target)
	if errors.Is(err, graph.ErrEdgeNotFound) {
		err = d.graph.AddEdge(source, target, graph.EdgeAttribute(labelAttribute, lane))
		if err != nil {
			return errors.Wrapf(err, "unable to add edge from %s to %s", source, target)
		}

		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "unable to get edge from %s to %s", source, target)
	}

	lanes := existing.Properties.Attributes[labelAttribute]

	err = d.graph.UpdateEdge(source, target, graph.EdgeAttribute(labelAttribute, lanes+laneSeparator+lane))
	if err != nil {
		return errors.Wrapf(err, "unable to update edge from %s to %s", source, target)
	}

	return nil
}

// SetErrorCount records the error count of a stage. Stages without errors are left as is.
func (d *DOTDrawer) SetErrorCount(instanceName string, count int) error {
	_, err := d.graph.Vertex(instanceName)
	if err != nil {
		return errors.Wrapf(err, "unable to get vertex %s", instanceName)
	}

	if count <= 0 {
		delete(d.errorCounts, instanceName)

		return nil
	}

	d.errorCounts[instanceName] = count

	return nil
}

const maxRGB = 240

// heatColors maps every error count to a colour going from blue for the lowest count to
// red for the highest.
func heatColors(counts map[string]int) (map[string]string, error) {
	res := make(map[string]string, len(counts))
	if len(counts) == 0 {
		return res, nil
	}

	minValue, maxValue := -1, 0
	for _, count := range counts {
		if minValue < 0 || count < minValue {
			minValue = count
		}

		if count > maxValue {
			maxValue = count
		}
	}

	for name, count := range counts {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(count-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		color, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return nil, errors.Wrap(err, "unable to get colour")
		}

		res[name] = color.ToHEX().String()
	}

	return res, nil
}

// Draw writes the graph in the DOT language.
func (d *DOTDrawer) Draw(w io.Writer) error {
	heat, err := heatColors(d.errorCounts)
	if err != nil {
		return err
	}

	desc, err := d.generateDOT(heat)
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(w, desc)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func (d *DOTDrawer) generateDOT(heat map[string]string) (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   escapeAll(d.attributes),
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	vertices, err := d.store.ListVertices()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list vertices")
	}

	for _, vertex := range vertices {
		_, properties, err := d.graph.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := escapeAll(properties.Attributes)
		htmlAttributes := make(map[string]string)

		if count, ok := d.errorCounts[vertex]; ok {
			htmlAttributes[labelAttribute] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">errors: %s</FONT>>`,
				html.EscapeString(properties.Attributes[labelAttribute]), strconv.Itoa(count))
			attributes[colorAttribute] = heat[vertex]
			delete(attributes, labelAttribute)
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           escape(vertex),
			SourceWeight:     properties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})
	}

	edges, err := d.store.ListEdges()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list edges")
	}

	for _, edge := range edges {
		desc.Statements = append(desc.Statements, statement{
			Source:         escape(edge.Source),
			Target:         escape(edge.Target),
			EdgeWeight:     edge.Properties.Weight,
			EdgeAttributes: escapeAll(edge.Properties.Attributes),
		})
	}

	return desc, nil
}

func escape(value string) string {
	return strings.ReplaceAll(value, `"`, `\"`)
}

func escapeAll(attributes map[string]string) map[string]string {
	res := make(map[string]string, len(attributes))
	for k, v := range attributes {
		res[k] = escape(v)
	}

	return res
}

func renderDOT(w io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(w, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
