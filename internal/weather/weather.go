// Package weather generates daily sea weather and maps it to sailing modifiers.
// Weather is a smooth function of (seed, day) sampled from simplex noise, so a
// replayed voyage sees the same skies.
package weather

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Wind is the wind strength band.
type Wind string

const (
	WindCalm     Wind = "calm"
	WindLight    Wind = "light"
	WindModerate Wind = "moderate"
	WindStrong   Wind = "strong"
	WindGale     Wind = "gale"
)

// Precipitation is what falls from the sky.
type Precipitation string

const (
	PrecipNone     Precipitation = "none"
	PrecipRain     Precipitation = "rain"
	PrecipHeavy    Precipitation = "heavy_rain"
	PrecipSnow     Precipitation = "snow"
	PrecipStorm    Precipitation = "storm"
	PrecipBlizzard Precipitation = "blizzard"
)

// Climate shifts temperature for the waters a voyage crosses.
type Climate string

const (
	ClimateTemperate Climate = "temperate"
	ClimateTropical  Climate = "tropical"
	ClimateArctic    Climate = "arctic"
)

// Conditions is one day's weather at sea.
type Conditions struct {
	Wind          Wind          `json:"wind" yaml:"wind"`
	WindDirection float64       `json:"wind_direction" yaml:"wind_direction"` // degrees, 0 = north
	Precipitation Precipitation `json:"precipitation" yaml:"precipitation"`
	TemperatureC  float64       `json:"temperature_c" yaml:"temperature_c"`
	Description   string        `json:"description" yaml:"description"`
}

// Fair is the default when no weather has been rolled.
func Fair() Conditions {
	return describe(Conditions{Wind: WindModerate, Precipitation: PrecipNone, TemperatureC: 18})
}

// Severe reports storm or blizzard conditions.
func (c Conditions) Severe() bool {
	return c.Precipitation == PrecipStorm || c.Precipitation == PrecipBlizzard
}

// SailingEffects holds simulation-mapped weather modifiers.
type SailingEffects struct {
	SpeedMultiplier float64
	Severe          bool
	Description     string
}

// MapToSim converts conditions to sailing modifiers: strong or gale winds
// ×1.25, calm ×0.75, storms and blizzards ×0.5. Factors compound.
func MapToSim(c Conditions) SailingEffects {
	eff := SailingEffects{SpeedMultiplier: 1.0, Severe: c.Severe(), Description: c.Description}

	switch c.Wind {
	case WindStrong, WindGale:
		eff.SpeedMultiplier *= 1.25
	case WindCalm:
		eff.SpeedMultiplier *= 0.75
	}
	if c.Severe() {
		eff.SpeedMultiplier *= 0.5
	}
	if eff.Description == "" {
		eff.Description = describe(c).Description
	}
	return eff
}

// Generator produces deterministic daily weather.
type Generator struct {
	climate Climate
	wind    opensimplex.Noise
	precip  opensimplex.Noise
	temp    opensimplex.Noise
	dir     opensimplex.Noise
}

// NewGenerator creates a generator for the given seed and climate.
func NewGenerator(seed int64, climate Climate) *Generator {
	if climate == "" {
		climate = ClimateTemperate
	}
	return &Generator{
		climate: climate,
		wind:    opensimplex.NewNormalized(seed),
		precip:  opensimplex.NewNormalized(seed + 1),
		temp:    opensimplex.NewNormalized(seed + 2),
		dir:     opensimplex.NewNormalized(seed + 3),
	}
}

// ForDay returns the weather for a voyage day (1-based).
func (g *Generator) ForDay(day int) Conditions {
	t := float64(day)

	w := g.wind.Eval2(t*0.21, 0.5)
	p := g.precip.Eval2(t*0.17, 40.5)
	tn := g.temp.Eval2(t*0.05, 80.5)
	d := g.dir.Eval2(t*0.1, 120.5)

	c := Conditions{
		Wind:          windBand(w),
		WindDirection: float64(int(d*360) % 360),
		TemperatureC:  baseTemperature(g.climate) + (tn-0.5)*20,
	}
	c.Precipitation = precipBand(p, c.TemperatureC)

	// Storms drag the wind up with them.
	if c.Severe() && (c.Wind == WindCalm || c.Wind == WindLight) {
		c.Wind = WindStrong
	}
	return describe(c)
}

func windBand(v float64) Wind {
	switch {
	case v < 0.2:
		return WindCalm
	case v < 0.45:
		return WindLight
	case v < 0.7:
		return WindModerate
	case v < 0.85:
		return WindStrong
	default:
		return WindGale
	}
}

func precipBand(v, tempC float64) Precipitation {
	freezing := tempC < 0
	switch {
	case v < 0.55:
		return PrecipNone
	case v < 0.72:
		if freezing {
			return PrecipSnow
		}
		return PrecipRain
	case v < 0.85:
		if freezing {
			return PrecipSnow
		}
		return PrecipHeavy
	default:
		if freezing {
			return PrecipBlizzard
		}
		return PrecipStorm
	}
}

func baseTemperature(c Climate) float64 {
	switch c {
	case ClimateTropical:
		return 28
	case ClimateArctic:
		return -4
	default:
		return 14
	}
}

func describe(c Conditions) Conditions {
	var sky string
	switch c.Precipitation {
	case PrecipRain:
		sky = "rain"
	case PrecipHeavy:
		sky = "heavy rain"
	case PrecipSnow:
		sky = "snow"
	case PrecipStorm:
		sky = "a storm"
	case PrecipBlizzard:
		sky = "a blizzard"
	default:
		sky = "clear skies"
	}

	var wind string
	switch c.Wind {
	case WindCalm:
		wind = "becalmed"
	case WindLight:
		wind = "light airs"
	case WindModerate:
		wind = "a fair breeze"
	case WindStrong:
		wind = "a strong wind"
	case WindGale:
		wind = "a howling gale"
	default:
		wind = "shifting winds"
	}

	c.Description = fmt.Sprintf("%s with %s, %.0f°C", capitalize(wind), sky, c.TemperatureC)
	return c
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
