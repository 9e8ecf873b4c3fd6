package config

import "math"

// Presets are ready-made systems for quick runs; G=1 units except where
// noted.
var Presets = map[string]*Config{
	"twobody": {
		Scheme: "ah18", G: 1, H: 0.05, Tmax: 100, SampleEvery: 10,
		Bodies: []BodyConfig{
			{Name: "primary", Mass: 1},
			{Name: "secondary", Mass: 1e-3, Position: [3]float64{1, 0, 0}, Velocity: [3]float64{0, 1, 0}},
		},
	},
	"eccentric": {
		Scheme: "ah18", G: 1, H: 0.01, Tmax: 100, SampleEvery: 10,
		Bodies: []BodyConfig{
			{Name: "primary", Mass: 1},
			{Name: "secondary", Mass: 1e-4, Elements: &ElementsConfig{Period: 2 * math.Pi, Eccentricity: 0.4}},
		},
	},
	"triple": {
		Scheme: "ah18", G: 1, H: 0.002, Tmax: 50, SampleEvery: 50,
		Bodies: []BodyConfig{
			{Name: "star", Mass: 1},
			{Name: "inner", Mass: 1e-3, Elements: &ElementsConfig{Period: 2 * math.Pi}},
			{Name: "outer", Mass: 1e-4, Elements: &ElementsConfig{Period: 6 * math.Pi, Eccentricity: 0.1}},
		},
	},
	"tight-binary": {
		Scheme: "ah18", G: 1, H: 0.001, Tmax: 20, SampleEvery: 100,
		Bodies: []BodyConfig{
			{Name: "star", Mass: 1},
			{Name: "planet", Mass: 1e-3, Position: [3]float64{1, 0, 0}, Velocity: [3]float64{0, 1.0005, -0.03}},
			{Name: "moon", Mass: 1e-4, Position: [3]float64{1.01, 0, 0}, Velocity: [3]float64{0, 1.0005, 0.3}},
		},
		KickPairs: [][2]int{{1, 2}},
	},
	// Inner solar system in AU, days and solar masses.
	"inner-solar": {
		Scheme: "ah18", G: 2.959122e-4, H: 1.0, Tmax: 3650, SampleEvery: 10,
		Bodies: []BodyConfig{
			{Name: "sun", Mass: 1},
			{Name: "mercury", Mass: 1.66e-7, Elements: &ElementsConfig{Period: 87.97, Eccentricity: 0.2056, Inclination: 0.1223}},
			{Name: "venus", Mass: 2.448e-6, Elements: &ElementsConfig{Period: 224.70, Eccentricity: 0.0068, Inclination: 0.0592}},
			{Name: "earth", Mass: 3.003e-6, Elements: &ElementsConfig{Period: 365.26, Eccentricity: 0.0167}},
			{Name: "mars", Mass: 3.227e-7, Elements: &ElementsConfig{Period: 686.98, Eccentricity: 0.0934, Inclination: 0.0323}},
		},
	},
}
