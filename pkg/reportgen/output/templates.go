package output

import "html/template"

var fragments = template.Must(template.New("fragments").Parse(`
{{- define "component" -}}
<div class="report-component" id="component_{{.ID}}" data-token="{{.Token}}">{{.Fragment}}</div>
{{- end -}}

{{- define "notice" -}}
<div class="alert alert-{{.Level}}" role="alert"{{with .ID}} id="{{.}}"{{end}}>{{with .Title}}<strong>{{.}}:</strong> {{end}}{{.Message}}</div>
{{- end -}}

{{- define "chart" -}}
<div style="width:100%; height:400px;"><canvas id="{{.ID}}"></canvas></div>{{template "chartScript" .}}
{{- end -}}

{{- define "chartGroup" -}}
<div id="{{.ID}}" style="width:100%; display:flex; flex-wrap:wrap; justify-content:center;">
{{- range .Groups -}}
<div style="flex: 1; min-width: 300px; max-width: 500px; margin: 10px;"><h3 style="text-align: center;">{{.Name}}</h3><div style="height: 300px;"><canvas id="{{.Chart.ID}}"></canvas></div></div>{{template "chartScript" .Chart}}
{{- end -}}
</div>
{{- end -}}

{{- define "chartScript" -}}
<script>
document.addEventListener('DOMContentLoaded', function() {
    var el = document.getElementById({{.ID}});
    if (!el) return;
    var config = {{.Config}};
    var pie = config.options.plugins.reportgen;
    if (pie) {
        config.options.plugins.tooltip = { callbacks: { label: function(ctx) {
            var value = ctx.raw || 0;
            var total = ctx.dataset.data.reduce(function(a, b) { return a + b; }, 0);
            var text = ctx.label || '';
            if (pie.showValues) text += ': ' + value.toLocaleString();
            if (pie.showPercentages) text += ' (' + (total > 0 ? Math.round(value / total * 100) : 0) + '%)';
            return text;
        } } };
    }
    new Chart(el.getContext('2d'), config);
});
</script>
{{- end -}}

{{- define "table" -}}
<table id="{{.ID}}" class="display" style="width:100%"><thead><tr>
{{- range .Columns}}<th{{if .Style}} style="{{.Style}}"{{end}}>{{.Text}}</th>{{end -}}
</tr></thead><tbody>
{{- range .Rows}}<tr{{if .Style}} style="{{.Style}}"{{end}}>{{range .Cells}}<td{{if .Style}} style="{{.Style}}"{{end}}>{{.Text}}</td>{{end}}</tr>{{end -}}
</tbody></table>
<script>
$(document).ready(function() {
    var table = $(document.getElementById({{.ID}}));
    var rowIndex = {{.RowIndex}}, rowStyle = {{printf "%s" .RowStyle}};
    var colContains = {{.ColContains}}, colStyle = {{printf "%s" .ColStyle}};
    table.DataTable({
        drawCallback: function() {
            if (rowIndex > 0) {
                table.find('tbody tr').each(function(i) {
                    if ((i + 1) % rowIndex === 0) { $(this).attr('style', rowStyle); }
                });
            }
            if (colContains) {
                table.find('thead th').each(function(i) {
                    if ($(this).text().indexOf(colContains) !== -1) {
                        $(this).attr('style', colStyle);
                        table.find('tbody tr td:nth-child(' + (i + 1) + ')').attr('style', colStyle);
                    }
                });
            }
        }
    });
});
</script>
{{- end -}}

{{- define "filter" -}}
<div class="filter-component" data-param="{{.Param}}"><label for="{{.ID}}">{{.Label}}</label>
{{- if eq .Kind "dropdown"}}{{template "dropdown" .}}
{{- else if eq .Kind "button"}}{{template "buttons" .}}
{{- else if eq .Kind "date"}}{{template "date" .}}
{{- else if eq .Kind "number"}}{{template "number" .}}
{{- else}}{{template "text" .}}{{end -}}
</div>
{{- end -}}

{{- define "dropdown" -}}
<select id="{{.ID}}" name="{{.Param}}" class="form-control filter-dropdown"{{if .Affects}} data-affects="{{.Affects}}"{{end}}>
{{- if not .Required}}<option value="">-- Select --</option>{{end}}
{{- range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Text}}</option>{{end -}}
</select>
{{- with .Source -}}
<script>
document.addEventListener('DOMContentLoaded', function() {
    var current = {{$.Value}};
    $.ajax({
        url: {{$.DataURL}}, type: 'GET',
        data: { query: {{.Query}}, valueField: {{.ValueField}}, textField: {{.TextField}} },
        success: function(data) {
            var select = $(document.getElementById({{$.ID}}));
            $.each(data, function(i, item) {
                var option = $('<option>').val(item.value).text(item.text);
                if (item.value == current) option.prop('selected', true);
                select.append(option);
            });
        }
    });
});
</script>
{{- end -}}
{{- end -}}

{{- define "buttons" -}}
<div class="btn-group filter-button-group" role="group"{{if .Affects}} data-affects="{{.Affects}}"{{end}}>
{{- range .Options}}<button type="button" class="btn {{if .Selected}}btn-primary{{else}}btn-secondary{{end}} filter-button" data-param-name="{{$.Param}}" data-value="{{.Value}}">{{.Text}}</button>{{end -}}
</div><input type="hidden" id="{{.ID}}" name="{{.Param}}" value="{{.Value}}">
{{- end -}}

{{- define "date" -}}
<input type="text" id="{{.ID}}" name="{{.Param}}" value="{{.Value}}" class="form-control datepicker"{{if .Affects}} data-affects="{{.Affects}}"{{end}}>
<script>
document.addEventListener('DOMContentLoaded', function() {
    $(document.getElementById({{.ID}})).datepicker({ dateFormat: 'yy-mm-dd' });
});
</script>
{{- end -}}

{{- define "number" -}}
<input type="number" id="{{.ID}}" name="{{.Param}}" value="{{.Value}}" class="form-control filter-text"
{{- if .Affects}} data-affects="{{.Affects}}"{{end}}
{{- with .Min}} min="{{.}}"{{end}}
{{- with .Max}} max="{{.}}"{{end}}
{{- with .Step}} step="{{.}}"{{end}}>
{{- end -}}

{{- define "text" -}}
<div class="input-group"><input type="text" id="{{.ID}}" name="{{.Param}}" value="{{.Value}}" class="form-control filter-text"{{if .Affects}} data-affects="{{.Affects}}"{{end}}><div class="input-group-append"><button class="btn btn-outline-secondary filter-apply-btn" type="button">Apply</button></div></div>
{{- end -}}

{{- define "filterPanel" -}}
<form id="reportForm" action="{{.Action}}" method="get"><div class="card mb-4 filter-panel"><div class="card-header d-flex justify-content-between align-items-center bg-light" data-bs-toggle="collapse" data-bs-target="#filterCollapse" style="cursor: pointer;"><h3 class="mb-0">Filter Options <span class="filter-count badge bg-primary">{{len .Filters}}</span></h3><button type="submit" form="reportForm" class="btn btn-primary">Apply Filters</button></div><div id="filterCollapse" class="collapse show"><div class="card-body"><div class="row">
{{- range .Filters}}<div class="col-md-3">{{.}}</div>{{end -}}
</div></div></div></div><div class="report-content">{{.Body}}</div></form>
{{- end -}}
`))
