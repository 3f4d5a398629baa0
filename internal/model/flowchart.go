package model

import (
	"fmt"
	"strings"
)

// Flowchart renders a Graphviz-DOT-flavoured text graph: one node per
// actor tagged with its declared rates, and one edge per port, marked
// "bootstrap" where an output will fire before the first tick.
func (m *Model) Flowchart() string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", m.name)
	for _, a := range m.actors {
		ni, no := a.Rates()
		fmt.Fprintf(&b, "  %q [label=%q];\n", a.Name(), fmt.Sprintf("%s (NI=%d, NO=%d)", a.Name(), ni, no))
		for _, out := range a.Outputs() {
			label := out.Name()
			if out.HasBootstrap() {
				label += " [bootstrap]"
			}
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", a.Name(), a.Name()+"/"+out.Name(), label)
		}
		for _, in := range a.Inputs() {
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", a.Name()+"/"+in.Name(), a.Name(), in.Name())
		}
	}
	b.WriteString("}\n")
	return b.String()
}
