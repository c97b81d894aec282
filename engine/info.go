package engine

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// report formats the model info dialog. The editor's Y axis is depth and its Z axis is height,
// so the model's z extent is listed as Y and its y extent as Z.
func (p *plugin) report(m model.Model) string {
	return Report(p.printer, m)
}

// Report formats the size and clip names of a freshly loaded model the way the model info
// command shows them.
//
// Parameters:
//   - pr: the printer that picks the decimal mark; extents are never grouped by thousands
//   - m: the model, before it is attached to any entity
//
// Returns:
//   - string: the report
func Report(pr *message.Printer, m model.Model) string {
	size := model.BoxFromObject(m.Root()).Size()

	var b strings.Builder
	b.WriteString("Size:\n\n")
	b.WriteString(pr.Sprintf("   X: %v\n", extent(size[0])))
	b.WriteString(pr.Sprintf("   Y: %v\n", extent(size[2])))
	b.WriteString(pr.Sprintf("   Z: %v\n", extent(size[1])))
	b.WriteString("\nAnimations list:\n\n")
	for _, name := range m.AnimationNames() {
		b.WriteString("   ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}

// extent formats v with three decimals and no digit grouping.
func extent(v float32) number.Formatter {
	return number.Decimal(v, number.Scale(3), number.NoSeparator())
}
