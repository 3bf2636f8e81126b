package report

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	AvgReputationPNG    = "avg_reputation_per_round.png"
	SuccessRatePNG      = "success_rate_per_round.png"
	DefaultFrequencyPNG = "default_frequency_distribution.png"
)

var (
	lineBlue    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	barGreen    = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	barOrange   = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	chartWidth  = 6 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// RenderCharts draws the three analysis charts into dir.
func RenderCharts(dir string, snaps []model.ReputationSnapshot, defaults []model.DefaultEvent, rounds []model.RoundSummary, totalParticipants int) error {
	if err := renderAvgReputation(filepath.Join(dir, AvgReputationPNG), snaps); err != nil {
		return err
	}
	if err := renderSuccessRate(filepath.Join(dir, SuccessRatePNG), rounds); err != nil {
		return err
	}
	return renderDefaultFrequency(filepath.Join(dir, DefaultFrequencyPNG), defaults, totalParticipants)
}

func renderAvgReputation(path string, snaps []model.ReputationSnapshot) error {
	roundIDs, avgs := AvgReputationByRound(snaps)

	pts := make(plotter.XYs, len(roundIDs))
	for i, r := range roundIDs {
		pts[i].X = float64(r)
		pts[i].Y = avgs[i]
	}

	p := plot.New()
	p.Title.Text = "Average Reputation per Round"
	p.X.Label.Text = "Round"
	p.Y.Label.Text = "Average Reputation"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build reputation line: %w", err)
	}
	line.Color = lineBlue
	points.Color = lineBlue
	p.Add(line, points)

	return p.Save(chartWidth, chartHeight, path)
}

func renderSuccessRate(path string, rounds []model.RoundSummary) error {
	roundIDs, rates := SuccessRateByRound(rounds)

	p := plot.New()
	p.Title.Text = "Trade Success Rate per Round"
	p.X.Label.Text = "Round"
	p.Y.Label.Text = "Success Rate (%)"
	p.Y.Min = 0
	p.Y.Max = 105

	bars, err := plotter.NewBarChart(plotter.Values(rates), vg.Points(30))
	if err != nil {
		return fmt.Errorf("failed to build success rate bars: %w", err)
	}
	bars.Color = barGreen
	bars.LineStyle.Width = 0
	p.Add(bars)

	labels := make([]string, len(roundIDs))
	for i, r := range roundIDs {
		labels[i] = strconv.Itoa(r)
	}
	p.NominalX(labels...)

	return p.Save(chartWidth, chartHeight, path)
}

func renderDefaultFrequency(path string, defaults []model.DefaultEvent, totalParticipants int) error {
	freqs, counts := DefaultFrequency(defaults, totalParticipants)

	vals := make(plotter.Values, len(counts))
	labels := make([]string, len(freqs))
	for i := range freqs {
		vals[i] = float64(counts[i])
		labels[i] = strconv.Itoa(freqs[i])
	}

	p := plot.New()
	p.Title.Text = "Distribution of Default Frequency"
	p.X.Label.Text = "Defaults per Participant"
	p.Y.Label.Text = "Number of Participants"

	bars, err := plotter.NewBarChart(vals, vg.Points(25))
	if err != nil {
		return fmt.Errorf("failed to build default frequency bars: %w", err)
	}
	bars.Color = barOrange
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	return p.Save(chartWidth, chartHeight, path)
}
