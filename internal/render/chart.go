package render

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/domain"
)

// Renderer задаёт интерфейс построения графиков по данным таймлайна
// и статистики.
type Renderer interface {
	RenderTimeline(w io.Writer, data domain.TimelineData, tracked []string) error
	RenderStats(w io.Writer, stats domain.Stats) error
}

// Число серий, при котором ещё имеет смысл легенда.
const legendSeriesLimit = 15

// ChartRenderer — реализация Renderer поверх go-chart.
type ChartRenderer struct{}

// NewChartRenderer создаёт новый ChartRenderer.
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{}
}

// RenderTimeline рисует PNG-таймлайн: по линии на задачу, по ординалу
// отслеживаемого статуса на вертикальной оси.
func (r *ChartRenderer) RenderTimeline(w io.Writer, data domain.TimelineData, tracked []string) error {
	ticks := make([]chart.Tick, 0, len(tracked))

	for i, state := range tracked {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: state})
	}

	seriesList := make([]chart.Series, 0, len(data.Series))

	for i, s := range data.Series {
		xs := make([]time.Time, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))

		for _, p := range s.Points {
			xs = append(xs, p.ObservedAt)
			ys = append(ys, float64(p.Position))
		}

		// go-chart не умеет серии из одной точки
		if len(xs) == 1 {
			xs = append(xs, xs[0].Add(time.Minute))
			ys = append(ys, ys[0])
		}

		color := chart.GetDefaultColor(i)
		seriesList = append(seriesList, chart.TimeSeries{
			Name:    s.Identifier,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2.5,
				DotColor:    color,
				DotWidth:    5,
			},
		})
	}

	graph := chart.Chart{
		Title:  "Linear Issue State Transitions",
		Width:  1200,
		Height: 700,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("01/02 15:04"),
		},
		YAxis: chart.YAxis{
			Name:  "State",
			Ticks: ticks,
			Range: &chart.ContinuousRange{
				Min: -0.5,
				Max: float64(len(tracked)-1) + 0.5,
			},
		},
		Series: seriesList,
	}

	if len(seriesList) <= legendSeriesLimit {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	return graph.Render(chart.PNG, w)
}

// RenderStats рисует PNG-диаграмму распределения задач по текущим статусам.
func (r *ChartRenderer) RenderStats(w io.Writer, stats domain.Stats) error {
	states := make([]string, 0, len(stats.StateDistribution))

	for state := range stats.StateDistribution {
		states = append(states, state)
	}

	sort.Strings(states)

	bars := make([]chart.Value, 0, len(states))

	for _, state := range states {
		bars = append(bars, chart.Value{
			Value: float64(stats.StateDistribution[state]),
			Label: state,
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Current State Distribution (%d issues)", stats.TotalIssues),
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
	}

	return graph.Render(chart.PNG, w)
}
