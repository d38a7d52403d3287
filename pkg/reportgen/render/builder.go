// Package render converts tables and instructions into visual specs.
package render

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/parser"
)

// Builder resolves visual specs. The zero value is not usable; use NewBuilder.
type Builder struct {
	// NewID generates element ids with the given prefix.
	NewID func(prefix string) string
}

// NewBuilder returns a Builder generating random element ids.
func NewBuilder() *Builder {
	return &Builder{NewID: RandomID}
}

// RandomID returns prefix followed by an underscore and a dashless UUID.
func RandomID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SequentialID returns an id generator producing prefix_1, prefix_2, ...
// It is meant for tests and reproducible output.
func SequentialID() func(prefix string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

// Render dispatches on the representation instruction. Charts whose
// referenced columns are missing become an info notice, and unrecognized
// representations become a warning notice. The only error is a failed
// table pivot.
func (b *Builder) Render(data *models.Table, ins parser.Instructions) (models.Visual, error) {
	rep := models.ParseRepresentation(ins["representation"])
	switch rep {
	case models.RepresentationTable:
		return b.Table(data, ins)
	case models.RepresentationBar:
		return b.chartOrNotice(b.Bar(data, ins)), nil
	case models.RepresentationLine:
		return b.chartOrNotice(b.Line(data, ins)), nil
	case models.RepresentationPie:
		return b.chartOrNotice(b.Pie(data, ins)), nil
	case models.RepresentationFilter:
		return b.Filter(ins, data), nil
	case models.RepresentationUnknown:
		return &models.Notice{
			ID:      b.NewID("notice"),
			Level:   models.NoticeWarning,
			Title:   "Unknown representation",
			Message: fmt.Sprintf("Representation %q is not supported.", ins["representation"]),
		}, nil
	}
	return nil, fmt.Errorf("unhandled representation %v", rep)
}

// chartOrNotice substitutes an explanatory notice for an empty chart.
func (b *Builder) chartOrNotice(v models.Visual) models.Visual {
	var missing []string
	switch c := v.(type) {
	case *models.ChartSpec:
		if !c.Empty() {
			return c
		}
		missing = c.Missing
	case *models.ChartGroupSpec:
		if len(c.Groups) > 0 {
			return c
		}
	default:
		return v
	}
	msg := "No data to display."
	if len(missing) > 0 {
		msg = fmt.Sprintf("No data to display: column(s) %s not found.", strings.Join(missing, ", "))
	}
	return &models.Notice{
		ID:      v.ElementID(),
		Level:   models.NoticeInfo,
		Message: msg,
	}
}
