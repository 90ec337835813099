package inbound

import (
	"fmt"
	"math"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/eda/usecase"
	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:0;background:#f5f6f8;color:#1f2328}
main{max-width:1100px;margin:0 auto;padding:24px}
.card{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:16px;margin-bottom:16px;overflow-x:auto}
table{border-collapse:collapse;font-size:14px}th,td{border:1px solid #d0d7de;padding:4px 8px;text-align:left}
.muted{color:#656d76}.error{color:#cf222e}nav a{margin-right:12px}img{max-width:100%}`

func layout(title, subtitle string, body ...gomponents.Node) gomponents.Node {
	return html.Doctype(html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
			html.TitleEl(gomponents.Text(title+" | goeda")),
			html.StyleEl(gomponents.Raw(pageStyle)),
		),
		html.Body(
			html.Main(
				html.Nav(
					html.A(html.Href("/"), gomponents.Text("Home")),
					html.A(html.Href("/eda"), gomponents.Text("Analysis")),
					html.A(html.Href("/graph"), gomponents.Text("Visualization")),
				),
				html.H1(gomponents.Text(title)),
				html.P(html.Class("muted"), gomponents.Text(subtitle)),
				gomponents.Group(body),
			),
		),
	))
}

func card(children ...gomponents.Node) gomponents.Node {
	return html.Div(html.Class("card"), gomponents.Group(children))
}

func indexPage() gomponents.Node {
	return layout("Home", "A simple CSV interpreter. Gain basic metrics and visuals with a single upload.",
		card(
			html.Form(
				html.Method("post"),
				html.Action("/upload"),
				gomponents.Attr("enctype", "multipart/form-data"),
				html.Label(html.For("file"), gomponents.Text("CSV or TSV file ")),
				html.Input(html.Type("file"), html.ID("file"), html.Name("file"),
					gomponents.Attr("accept", ".csv,.tsv"), html.Required()),
				html.Button(html.Type("submit"), gomponents.Text("Upload")),
			),
		),
	)
}

func uploadSuccessPage(sess entity.Session) gomponents.Node {
	return layout("Upload Success",
		fmt.Sprintf("Your CSV file '%s' has been uploaded. Choose what you want to do next:", sess.Filename),
		card(
			html.P(gomponents.Textf("%s: %d rows, %d columns.", sess.Filename, sess.RowCount, len(sess.Columns))),
			html.Ul(
				html.Li(html.A(html.Href("/eda"), gomponents.Text("Explore the data"))),
				html.Li(html.A(html.Href("/graph"), gomponents.Text("Build a chart"))),
			),
		),
	)
}

func edaPage(res usecase.AnalyzeResult) gomponents.Node {
	s := res.Summary

	typeRows := make([]gomponents.Node, 0, len(s.Columns))
	for _, name := range s.Columns {
		typeRows = append(typeRows, html.Tr(
			html.Td(gomponents.Text(name)),
			html.Td(gomponents.Text(s.DTypes[name])),
			html.Td(gomponents.Textf("%d", s.Missing[name])),
		))
	}

	heatmap := gomponents.Node(html.P(html.Class("muted"), gomponents.Text("At least two numeric columns are needed for a correlation heatmap.")))
	if res.Correlation != nil {
		heatmap = html.Img(html.Src("data:image/png;base64,"+res.Heatmap), html.Alt("Correlation Heatmap"))
	}

	return layout("Exploratory Data Analysis", "Exploring the CSV file: "+res.Filename,
		card(
			html.H2(gomponents.Text("Overview")),
			html.P(gomponents.Textf("%d rows, %d columns.", s.RowCount, s.ColumnCount)),
			html.Table(
				html.THead(html.Tr(html.Th(gomponents.Text("Column")), html.Th(gomponents.Text("Type")), html.Th(gomponents.Text("Missing")))),
				html.TBody(gomponents.Group(typeRows)),
			),
		),
		card(html.H2(gomponents.Text("Summary statistics")), describeTable(s.Stats, res.HasNumeric)),
		card(html.H2(gomponents.Text("Preview")), previewTable(s.Preview)),
		card(html.H2(gomponents.Text("Correlation")), heatmap),
		card(
			html.H2(gomponents.Text("Clean data")),
			html.Form(
				html.ID("clean-form"),
				html.Label(html.For("strategy"), gomponents.Text("Missing values ")),
				html.Select(html.ID("strategy"), html.Name("missing_value_strategy"),
					html.Option(html.Value("mean"), gomponents.Text("Fill with column mean")),
					html.Option(html.Value("first"), gomponents.Text("Fill forward")),
					html.Option(html.Value("last"), gomponents.Text("Fill backward")),
					html.Option(html.Value("delete"), gomponents.Text("Delete rows")),
				),
				html.Label(
					html.Input(html.Type("checkbox"), html.ID("keep-duplicates")),
					gomponents.Text(" keep duplicate rows"),
				),
				html.Button(html.Type("submit"), gomponents.Text("Clean")),
			),
			html.P(html.ID("clean-result")),
			html.Script(gomponents.Raw(cleanScript)),
		),
	)
}

const cleanScript = `document.getElementById('clean-form').addEventListener('submit', async function (e) {
  e.preventDefault();
  var out = document.getElementById('clean-result');
  var res = await fetch('/clean', {method: 'POST', headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({missing_value_strategy: document.getElementById('strategy').value,
      keep_duplicates: document.getElementById('keep-duplicates').checked})});
  var data = await res.json();
  out.textContent = '';
  if (data.error) { out.className = 'error'; out.textContent = data.error; return; }
  out.className = '';
  out.append(data.message + ' ');
  var a = document.createElement('a'); a.href = data.download_url; a.textContent = 'Download cleaned file';
  out.append(a);
});`

func describeTable(stats []entity.ColumnStats, hasNumeric bool) gomponents.Node {
	if !hasNumeric || len(stats) == 0 {
		return html.P(html.Class("muted"), gomponents.Text("No numeric columns."))
	}

	head := []gomponents.Node{html.Th()}
	for _, st := range stats {
		head = append(head, html.Th(gomponents.Text(st.Column)))
	}

	row := func(label string, pick func(entity.ColumnStats) string) gomponents.Node {
		cells := []gomponents.Node{html.Th(gomponents.Text(label))}
		for _, st := range stats {
			cells = append(cells, html.Td(gomponents.Text(pick(st))))
		}
		return html.Tr(gomponents.Group(cells))
	}
	stat := func(f func(entity.ColumnStats) float64) func(entity.ColumnStats) string {
		return func(st entity.ColumnStats) string { return formatStat(f(st)) }
	}

	return html.Table(
		html.THead(html.Tr(gomponents.Group(head))),
		html.TBody(
			row("count", func(st entity.ColumnStats) string { return fmt.Sprintf("%d", st.Count) }),
			row("mean", stat(func(st entity.ColumnStats) float64 { return st.Mean })),
			row("std", stat(func(st entity.ColumnStats) float64 { return st.Std })),
			row("min", stat(func(st entity.ColumnStats) float64 { return st.Min })),
			row("25%", stat(func(st entity.ColumnStats) float64 { return st.P25 })),
			row("50%", stat(func(st entity.ColumnStats) float64 { return st.P50 })),
			row("75%", stat(func(st entity.ColumnStats) float64 { return st.P75 })),
			row("max", stat(func(st entity.ColumnStats) float64 { return st.Max })),
		),
	)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}

func previewTable(t *entity.Table) gomponents.Node {
	if t == nil || t.NumColumns() == 0 {
		return html.P(html.Class("muted"), gomponents.Text("Empty table."))
	}

	head := make([]gomponents.Node, 0, t.NumColumns())
	for _, name := range t.ColumnNames() {
		head = append(head, html.Th(gomponents.Text(name)))
	}

	rows := make([]gomponents.Node, 0, t.NumRows())
	for _, r := range t.Rows {
		cells := make([]gomponents.Node, 0, len(r))
		for _, c := range r {
			text := c.Text
			if c.Missing {
				text = "NaN"
			}
			cells = append(cells, html.Td(gomponents.Text(text)))
		}
		rows = append(rows, html.Tr(gomponents.Group(cells)))
	}

	return html.Table(
		html.THead(html.Tr(gomponents.Group(head))),
		html.TBody(gomponents.Group(rows)),
	)
}

func graphPage(cols usecase.ColumnsResult) gomponents.Node {
	options := func(names []string) []gomponents.Node {
		out := make([]gomponents.Node, 0, len(names))
		for _, n := range names {
			out = append(out, html.Option(html.Value(n), gomponents.Text(n)))
		}
		return out
	}

	xCols := append(append([]string{}, cols.Categorical...), cols.Numeric...)

	return layout("Visualization", "Create visualizations for: "+cols.Filename,
		card(
			html.Form(
				html.ID("graph-form"),
				html.Label(html.For("chart-type"), gomponents.Text("Chart ")),
				html.Select(html.ID("chart-type"),
					html.Option(html.Value("bar"), gomponents.Text("Bar")),
					html.Option(html.Value("line"), gomponents.Text("Line")),
					html.Option(html.Value("scatter"), gomponents.Text("Scatter")),
					html.Option(html.Value("pie"), gomponents.Text("Pie")),
					html.Option(html.Value("hist"), gomponents.Text("Histogram")),
				),
				html.Label(html.For("x-col"), gomponents.Text(" X ")),
				html.Select(html.ID("x-col"), html.Option(html.Value(""), gomponents.Text("(choose)")), gomponents.Group(options(xCols))),
				html.Label(html.For("y-col"), gomponents.Text(" Y ")),
				html.Select(html.ID("y-col"), html.Option(html.Value(""), gomponents.Text("(choose)")), gomponents.Group(options(cols.Numeric))),
				html.Button(html.Type("submit"), gomponents.Text("Generate")),
			),
		),
		card(html.P(html.ID("graph-error"), html.Class("error")), html.Img(html.ID("graph-image"), html.Alt(""))),
		html.Script(gomponents.Raw(graphScript)),
	)
}

const graphScript = `document.getElementById('graph-form').addEventListener('submit', async function (e) {
  e.preventDefault();
  var v = function (id) { return document.getElementById(id).value; };
  var res = await fetch('/generate_graph', {method: 'POST', headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({chart_type: v('chart-type'), x_col: v('x-col'), y_col: v('y-col')})});
  var data = await res.json();
  var img = document.getElementById('graph-image');
  document.getElementById('graph-error').textContent = data.error || '';
  img.src = data.image ? 'data:image/png;base64,' + data.image : '';
});`
