package export

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"partyrecords/internal/config"
	"partyrecords/internal/record"
)

const noRecords = "No records"

// StripChart plots every recorded value per map as a dot, one strip per
// column. The Sum column is not plotted.
func StripChart(table *record.Table, mode config.Mode) ([]byte, error) {
	var cols []string
	if table != nil {
		for _, col := range table.Columns() {
			if col != record.SumColumn {
				cols = append(cols, col)
			}
		}
	}

	var xs, ys []float64
	maxValue := 0.0
	for i, col := range cols {
		for _, player := range table.Players() {
			v := table.Get(player, col)
			if !v.Valid {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, v.V)
			if v.V > maxValue {
				maxValue = v.V
			}
		}
	}
	if len(xs) == 0 {
		return renderPlaceholder()
	}

	ticks := make([]chart.Tick, 0, len(cols))
	for i, col := range cols {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: col})
	}

	yName := "Points"
	if mode == config.ModeTime {
		yName = "Seconds"
	}

	graph := chart.Chart{
		Width:  max(400, 80*len(cols)),
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "Map",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(cols)) - 0.5},
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue*1.1 + 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Records",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					DotColor:    drawing.ColorBlue,
					DotWidth:    3,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// go-chart refuses to render without a visible series, so the placeholder
// carries an invisible one.
func renderPlaceholder() ([]byte, error) {
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		XAxis:  chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
				r.SetFontColor(drawing.ColorBlack)
				r.SetFontSize(12.0)
				tb := r.MeasureText(noRecords)
				r.Text(noRecords, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
