package render

import (
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/parser"
)

// Filter resolves an input control. data, when non-nil, supplies dropdown
// options from its valueField and textField columns (first and second
// column by default).
func (b *Builder) Filter(ins parser.Instructions, data *models.Table) *models.FilterSpec {
	id := ins.String("id", "")
	if id == "" {
		id = b.NewID("filter")
	}
	param := ins.String("param", id)
	f := &models.FilterSpec{
		ID:      id,
		Kind:    models.ParseFilterKind(strings.ToLower(ins.String("type", ""))),
		Param:   param,
		Label:   ins.String("label", param),
		Value:   ins.String("value", ins.String("default", "")),
		Affects: ins.String("affects", ""),
	}

	switch f.Kind {
	case models.FilterDropdown:
		f.Required = ins.Bool("required", false)
		for _, opt := range ins.List("options") {
			f.Options = append(f.Options, models.FilterOption{Value: opt, Text: opt, Selected: opt == f.Value})
		}
		f.Options = append(f.Options, boundOptions(data, ins, f.Value)...)
		if ins.Has("dataSource") {
			valueField := ins.String("valueField", "value")
			f.Source = &models.FilterSource{
				Query:      ins.String("dataSource", ""),
				ValueField: valueField,
				TextField:  ins.String("textField", valueField),
			}
		}
	case models.FilterButton:
		values := ins.List("options")
		if len(values) == 0 {
			values = []string{"Yes", "No"}
		}
		labels := ins.List("labels")
		for i, v := range values {
			text := v
			if i < len(labels) {
				text = labels[i]
			}
			f.Options = append(f.Options, models.FilterOption{Value: v, Text: text, Selected: v == f.Value})
		}
	case models.FilterNumber:
		f.Min = ins.String("min", "")
		f.Max = ins.String("max", "")
		f.Step = ins.String("step", "")
	case models.FilterDate, models.FilterText:
	}
	return f
}

func boundOptions(data *models.Table, ins parser.Instructions, current string) []models.FilterOption {
	if data == nil || len(data.Columns) == 0 {
		return nil
	}
	valueCol := data.ColumnIndex(ins.String("valueField", data.Columns[0].Name))
	if valueCol < 0 {
		return nil
	}
	textCol := valueCol
	if name := ins.String("textField", ""); name != "" {
		if i := data.ColumnIndex(name); i >= 0 {
			textCol = i
		}
	} else if len(data.Columns) > 1 && !ins.Has("valueField") {
		textCol = 1
	}

	opts := make([]models.FilterOption, 0, data.Len())
	for r := range data.Rows {
		v := data.Text(r, valueCol)
		opts = append(opts, models.FilterOption{Value: v, Text: data.Text(r, textCol), Selected: v == current})
	}
	return opts
}
