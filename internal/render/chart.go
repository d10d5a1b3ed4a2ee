package render

import (
	"time"

	"github.com/skycast/skycast/internal/i18n"
	"github.com/skycast/skycast/internal/settings"
	"github.com/skycast/skycast/internal/weather"
)

// Series colors.
const (
	temperatureBorder = "#ff6384"
	temperatureFill   = "rgba(255, 99, 132, 0.1)"
	humidityBorder    = "#36a2eb"
	humidityFill      = "rgba(54, 162, 235, 0.1)"

	lineTension = 0.4
)

// Palette holds the theme colors applied to chart text and grid lines.
type Palette struct {
	Text   string `json:"text"`
	Border string `json:"border"`
}

var palettes = map[settings.Theme]Palette{
	settings.ThemeLight: {Text: "#333333", Border: "#dddddd"},
	settings.ThemeDark:  {Text: "#f5f5f5", Border: "#444444"},
}

// PaletteFor returns the palette of theme, falling back to light.
func PaletteFor(theme settings.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[settings.ThemeLight]
}

// Chart is a Chart.js line chart configuration.
type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
	Tension         float64   `json:"tension"`
	Fill            bool      `json:"fill"`
}

type ChartOptions struct {
	Responsive bool            `json:"responsive"`
	Plugins    ChartPlugins    `json:"plugins"`
	Scales     map[string]Axis `json:"scales"`
}

type ChartPlugins struct {
	Legend Legend `json:"legend"`
}

type Legend struct {
	Position string `json:"position"`
	Labels   struct {
		Color string `json:"color"`
	} `json:"labels"`
}

type Axis struct {
	Ticks struct {
		Color string `json:"color"`
	} `json:"ticks"`
	Grid struct {
		Color string `json:"color"`
	} `json:"grid"`
}

// BuildChart builds a fresh chart from samples. Callers pass the raw chart
// window (weather.ChartWindow), never the daily buckets. Labels are sample
// times in loc, formatted per lang.
func BuildChart(samples []weather.Sample, loc *time.Location, lang i18n.Language, theme settings.Theme) *Chart {
	loc = weather.LocationOrUTC(loc)
	labels := i18n.For(lang)
	palette := PaletteFor(theme)

	times := make([]string, 0, len(samples))
	temps := make([]float64, 0, len(samples))
	humidity := make([]float64, 0, len(samples))
	for _, s := range samples {
		times = append(times, lang.Clock(s.Time.In(loc)))
		temps = append(temps, s.Temperature)
		humidity = append(humidity, float64(s.Humidity))
	}

	var axis Axis
	axis.Ticks.Color = palette.Text
	axis.Grid.Color = palette.Border

	legend := Legend{Position: "top"}
	legend.Labels.Color = palette.Text

	return &Chart{
		Type: "line",
		Data: ChartData{
			Labels: times,
			Datasets: []Dataset{
				{
					Label:           labels.Temperature,
					Data:            temps,
					BorderColor:     temperatureBorder,
					BackgroundColor: temperatureFill,
					Tension:         lineTension,
					Fill:            true,
				},
				{
					Label:           labels.Humidity,
					Data:            humidity,
					BorderColor:     humidityBorder,
					BackgroundColor: humidityFill,
					Tension:         lineTension,
					Fill:            true,
				},
			},
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins:    ChartPlugins{Legend: legend},
			Scales: map[string]Axis{
				"x": axis,
				"y": axis,
			},
		},
	}
}
