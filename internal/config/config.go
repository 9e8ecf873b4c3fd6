// Package config loads and validates integration run configurations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/symgrad/internal/initcond"
)

const (
	DefaultG      = 1.0
	DefaultH      = 0.01
	DefaultTmax   = 10.0
	DefaultScheme = "ah18"
)

type Config struct {
	Scheme      string       `yaml:"scheme"`
	G           float64      `yaml:"g"`
	H           float64      `yaml:"h"`
	T0          float64      `yaml:"t0"`
	Tmax        float64      `yaml:"tmax"`
	SampleEvery int          `yaml:"sample_every"`
	Bodies      []BodyConfig `yaml:"bodies"`
	// KickPairs lists body index pairs handled by fast kicks instead of
	// the Kepler solver.
	KickPairs [][2]int `yaml:"kick_pairs"`
}

type BodyConfig struct {
	Name     string          `yaml:"name"`
	Mass     float64         `yaml:"mass"`
	Position [3]float64      `yaml:"position"`
	Velocity [3]float64      `yaml:"velocity"`
	Elements *ElementsConfig `yaml:"elements"`
}

type ElementsConfig struct {
	Period       float64 `yaml:"period"`
	Eccentricity float64 `yaml:"eccentricity"`
	Inclination  float64 `yaml:"inclination"`
	Omega        float64 `yaml:"omega"`
}

func DefaultConfig() *Config {
	return &Config{
		Scheme:      DefaultScheme,
		G:           DefaultG,
		H:           DefaultH,
		Tmax:        DefaultTmax,
		SampleEvery: 10,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.H <= 0 {
		return fmt.Errorf("config: h must be positive, got %g", c.H)
	}
	if c.Tmax <= c.T0 {
		return fmt.Errorf("config: tmax %g not after t0 %g", c.Tmax, c.T0)
	}
	if len(c.Bodies) < 2 {
		return fmt.Errorf("config: need at least 2 bodies, got %d", len(c.Bodies))
	}
	for _, kp := range c.KickPairs {
		for _, idx := range kp {
			if idx < 0 || idx >= len(c.Bodies) {
				return fmt.Errorf("config: kick pair %v references body %d of %d", kp, idx, len(c.Bodies))
			}
		}
		if kp[0] == kp[1] {
			return fmt.Errorf("config: kick pair %v pairs a body with itself", kp)
		}
	}
	return nil
}

// InitBodies converts the body configs into initcond bodies.
func (c *Config) InitBodies() []initcond.Body {
	bodies := make([]initcond.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		bodies[i] = initcond.Body{
			Name:     b.Name,
			Mass:     b.Mass,
			Position: b.Position,
			Velocity: b.Velocity,
		}
		if b.Elements != nil {
			bodies[i].Elements = &initcond.Elements{
				Period:       b.Elements.Period,
				Eccentricity: b.Elements.Eccentricity,
				Inclination:  b.Elements.Inclination,
				Omega:        b.Elements.Omega,
			}
		}
	}
	return bodies
}

// PairMatrix builds the symmetric pair-selection matrix from the kick-pair
// list.
func (c *Config) PairMatrix() [][]bool {
	n := len(c.Bodies)
	pair := make([][]bool, n)
	for i := range pair {
		pair[i] = make([]bool, n)
	}
	for _, kp := range c.KickPairs {
		pair[kp[0]][kp[1]] = true
		pair[kp[1]][kp[0]] = true
	}
	return pair
}
