package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Overrides are read from the environment after the YAML file so a value
// can be tried without editing it. Unset variables leave the field alone.
type Overrides struct {
	MovementSpeed  *float64       `env:"SNOWFIGHT_MOVEMENT_SPEED"`
	RotationSpeed  *float64       `env:"SNOWFIGHT_ROTATION_SPEED"`
	AimDistance    *float64       `env:"SNOWFIGHT_AIM_DISTANCE"`
	CrosshairDelay *time.Duration `env:"SNOWFIGHT_CROSSHAIR_DELAY"`
	ThrowCooldown  *time.Duration `env:"SNOWFIGHT_THROW_COOLDOWN"`
	ForwardForce   *float64       `env:"SNOWFIGHT_FORWARD_FORCE"`
	UpwardForce    *float64       `env:"SNOWFIGHT_UPWARD_FORCE"`
}

// ApplyEnv overlays SNOWFIGHT_* variables from the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(env.Options{})
}

func (c *Config) applyEnv(opts env.Options) error {
	var o Overrides
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	set(&c.Movement.Speed, o.MovementSpeed)
	set(&c.Movement.RotationSpeed, o.RotationSpeed)
	set(&c.Camera.AimDistance, o.AimDistance)
	set(&c.Camera.CrosshairDelay, o.CrosshairDelay)
	set(&c.Throwing.Cooldown, o.ThrowCooldown)
	set(&c.Throwing.ForwardForce, o.ForwardForce)
	set(&c.Throwing.UpwardForce, o.UpwardForce)
	return c.normalize()
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
