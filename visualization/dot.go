// Package visualization renders machine definitions as Graphviz DOT and,
// when Graphviz is installed, SVG.
package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/stagekit/stagekit"
)

// DOTGenerator renders a Definition as a Graphviz digraph.
type DOTGenerator struct {
	definition *stagekit.Definition
	options    DOTOptions
}

// DOTOptions configures the DOT generation.
type DOTOptions struct {
	ShowGuards    bool
	ShowActions   bool
	RankDirection string // "TB", "LR", "BT", "RL"
	NodeShape     string
}

// DefaultDOTOptions returns sensible defaults.
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowGuards:    true,
		ShowActions:   false,
		RankDirection: "LR",
		NodeShape:     "box",
	}
}

// NewDOTGenerator creates a generator for the given definition.
func NewDOTGenerator(definition *stagekit.Definition, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	return &DOTGenerator{
		definition: definition,
		options:    opts,
	}
}

// Generate creates the DOT representation. Output is deterministic: states
// and edges are emitted in sorted order.
func (g *DOTGenerator) Generate() (string, error) {
	if err := g.definition.Validate(); err != nil {
		return "", err
	}

	var dot strings.Builder

	name := g.definition.ID
	if name == "" {
		name = "Machine"
	}
	dot.WriteString(fmt.Sprintf("digraph %q {\n", name))
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.writeStates(&dot)
	g.writeTransitions(&dot)

	dot.WriteString("}\n")
	return dot.String(), nil
}

func (g *DOTGenerator) writeStates(dot *strings.Builder) {
	dot.WriteString("  // States\n")
	for _, name := range g.sortedStates() {
		fill := "lightblue"
		label := name
		if name == g.definition.Initial {
			fill = "lightgreen"
			label += "\\n(initial)"
		}
		dot.WriteString(fmt.Sprintf("  %q [style=\"filled\" fillcolor=%s label=\"%s\"];\n",
			name, fill, label))
	}
	dot.WriteString("\n")
}

func (g *DOTGenerator) writeTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")
	for _, name := range g.sortedStates() {
		state := g.definition.States[name]

		events := make([]string, 0, len(state.On))
		for eventType := range state.On {
			events = append(events, eventType)
		}
		sort.Strings(events)

		for _, eventType := range events {
			tr := state.On[eventType]
			label := eventType
			if g.options.ShowGuards && tr.Guard != "" {
				label += fmt.Sprintf(" [%s]", tr.Guard)
			}
			if g.options.ShowActions && tr.Action != "" {
				label += fmt.Sprintf(" / %s", tr.Action)
			}
			dot.WriteString(fmt.Sprintf("  %q -> %q [label=\"%s\"];\n", name, tr.Target, label))
		}
	}
}

func (g *DOTGenerator) sortedStates() []string {
	names := make([]string, 0, len(g.definition.States))
	for name := range g.definition.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateToFile writes the DOT representation to a file.
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator renders a definition to SVG by invoking the Graphviz dot
// binary.
type SVGGenerator struct {
	dotGenerator *DOTGenerator
}

// NewSVGGenerator creates a new SVG generator.
func NewSVGGenerator(definition *stagekit.Definition, options ...DOTOptions) *SVGGenerator {
	return &SVGGenerator{
		dotGenerator: NewDOTGenerator(definition, options...),
	}
}

// Generate creates the SVG representation.
func (g *SVGGenerator) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}
	return out.String(), nil
}
