package chart

import (
	"fmt"

	"github.com/Domenick1991/farescope/internal/domain"
)

const (
	DefaultTitle       = "Flight Frequency by Date"
	DefaultLegendTitle = "Flight Dates"

	// Angle, in degrees counterclockwise from 3 o'clock, where the first wedge starts.
	startAngle = 140.0
)

// Wedge is one slice of the proportion chart. Angles are in degrees,
// counterclockwise from 3 o'clock.
type Wedge struct {
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percent    float64 `json:"percent"`
	PercentStr string  `json:"percent_label"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

// Chart is a backend-independent description of what to draw.
type Chart struct {
	Title       string  `json:"title"`
	LegendTitle string  `json:"legend_title"`
	Wedges      []Wedge `json:"wedges"`
}

// BuildWedges keeps the order of counts, so equal input always yields the same chart.
func BuildWedges(counts []domain.DateCount) []Wedge {
	var total int64
	for _, c := range counts {
		if c.Count > 0 {
			total += c.Count
		}
	}
	if total == 0 {
		return []Wedge{}
	}

	wedges := make([]Wedge, 0, len(counts))
	angle := startAngle
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		frac := float64(c.Count) / float64(total)
		sweep := frac * 360
		wedges = append(wedges, Wedge{
			Label:      c.FlightDate,
			Count:      c.Count,
			Percent:    frac * 100,
			PercentStr: fmt.Sprintf("%.1f%%", frac*100),
			StartAngle: angle,
			EndAngle:   angle + sweep,
		})
		angle += sweep
	}
	return wedges
}

func NewChart(counts []domain.DateCount) Chart {
	return Chart{
		Title:       DefaultTitle,
		LegendTitle: DefaultLegendTitle,
		Wedges:      BuildWedges(counts),
	}
}
