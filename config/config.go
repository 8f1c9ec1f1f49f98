// Package config holds gameplay tuning. Values come from a YAML file;
// fields the file leaves out keep their defaults.
package config

import (
	"embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultsFS embed.FS

type Movement struct {
	Speed         float64 `yaml:"speed"`          // pixels per second
	RotationSpeed float64 `yaml:"rotation_speed"` // degrees per second
	// AimRotationMultiplier scales rotation while aiming; clamped to 0.1..1.
	AimRotationMultiplier float64 `yaml:"aim_rotation_multiplier"`
}

type Camera struct {
	AimDistance    float64       `yaml:"aim_distance"` // clamped to 10..200
	FollowZoom     float64       `yaml:"follow_zoom"`
	AimZoom        float64       `yaml:"aim_zoom"`
	CrosshairDelay time.Duration `yaml:"crosshair_delay"`
}

type Throwing struct {
	Cooldown     time.Duration `yaml:"cooldown"`
	ForwardForce float64       `yaml:"forward_force"`
	UpwardForce  float64       `yaml:"upward_force"`
	Lifetime     time.Duration `yaml:"lifetime"`
	Radius       float64       `yaml:"radius"`
	Mass         float64       `yaml:"mass"`
}

type Config struct {
	Movement Movement `yaml:"movement"`
	Camera   Camera   `yaml:"camera"`
	Throwing Throwing `yaml:"throwing"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads path, overlays it on the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		data = b
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse overlays data on the embedded defaults and normalizes the result.
func Parse(data []byte) (*Config, error) {
	base, err := defaultsFS.ReadFile("default.yaml")
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(base, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Movement.AimRotationMultiplier = clamp(c.Movement.AimRotationMultiplier, 0.1, 1)
	c.Camera.AimDistance = clamp(c.Camera.AimDistance, 10, 200)

	switch {
	case c.Movement.Speed < 0:
		return fmt.Errorf("movement.speed must not be negative")
	case c.Movement.RotationSpeed < 0:
		return fmt.Errorf("movement.rotation_speed must not be negative")
	case c.Camera.CrosshairDelay < 0:
		return fmt.Errorf("camera.crosshair_delay must not be negative")
	case c.Throwing.Cooldown < 0:
		return fmt.Errorf("throwing.cooldown must not be negative")
	case c.Throwing.Lifetime <= 0:
		return fmt.Errorf("throwing.lifetime must be positive")
	case c.Throwing.Radius <= 0 || c.Throwing.Mass <= 0:
		return fmt.Errorf("throwing.radius and throwing.mass must be positive")
	}
	if c.Camera.FollowZoom <= 0 {
		c.Camera.FollowZoom = 1
	}
	if c.Camera.AimZoom <= 0 {
		c.Camera.AimZoom = c.Camera.FollowZoom
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
