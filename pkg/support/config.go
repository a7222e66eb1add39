package support

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the support-tree generation parameters. Lengths are in
// millimetres, angles in radians.
type Config struct {
	// Pinhead geometry.
	HeadFrontRadius float64 `yaml:"head_front_radius_mm"`
	HeadBackRadius  float64 `yaml:"head_back_radius_mm"`
	HeadWidth       float64 `yaml:"head_width_mm"`

	// Default pillar radius; clipped per head so a pillar is never
	// thicker than the head it hangs from.
	PillarRadius float64 `yaml:"pillar_radius_mm"`

	// Flared pad at the foot of a ground pillar.
	BaseRadius float64 `yaml:"base_radius_mm"`
	BaseHeight float64 `yaml:"base_height_mm"`

	// Bridge slope. The sign is honored literally in sin(-tilt): a
	// positive value lowers the far endpoint of a bridge.
	Tilt float64 `yaml:"tilt"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		HeadFrontRadius: 0.5,
		HeadBackRadius:  1.0,
		HeadWidth:       2.0,
		PillarRadius:    0.8,
		BaseRadius:      2.0,
		BaseHeight:      3.0,
		Tilt:            math.Pi / 4,
	}
}

// Load reads a YAML configuration file, merging over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("loading support config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing support config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports blocking configuration errors. A config that fails
// validation makes the planner produce an empty tree rather than broken
// geometry.
func (c Config) Validate() []error {
	var errs []error
	check := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s is %.4f, must be positive", name, v))
		}
	}
	check("head_front_radius_mm", c.HeadFrontRadius)
	check("head_back_radius_mm", c.HeadBackRadius)
	check("head_width_mm", c.HeadWidth)
	check("pillar_radius_mm", c.PillarRadius)
	check("base_radius_mm", c.BaseRadius)
	check("base_height_mm", c.BaseHeight)
	return errs
}

// Lint reports advisory findings that do not block generation.
func (c Config) Lint() []string {
	var warnings []string
	if math.Sin(-c.Tilt) >= 0 {
		warnings = append(warnings,
			fmt.Sprintf("tilt %.4f gives a non-descending bridge slope; ring bridging will be skipped", c.Tilt))
	}
	if c.HeadFrontRadius >= c.HeadBackRadius {
		warnings = append(warnings,
			"head front radius is not smaller than the back radius; pinheads will be blunt")
	}
	return warnings
}

func (c Config) valid() bool {
	return len(c.Validate()) == 0
}
