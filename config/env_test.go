package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func TestApplyEnv(t *testing.T) {
	cases := []struct {
		name    string
		environ map[string]string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name:    "unset_keeps_values",
			environ: map[string]string{},
			check: func(t *testing.T, c *Config) {
				if c.Movement.Speed != 240 || c.Throwing.Cooldown != 2*time.Second {
					t.Fatalf("values changed without overrides: %+v", c)
				}
			},
		},
		{
			name: "overrides",
			environ: map[string]string{
				"SNOWFIGHT_MOVEMENT_SPEED":  "300",
				"SNOWFIGHT_THROW_COOLDOWN":  "750ms",
				"SNOWFIGHT_CROSSHAIR_DELAY": "0s",
			},
			check: func(t *testing.T, c *Config) {
				if c.Movement.Speed != 300 {
					t.Fatalf("speed not overridden: %v", c.Movement.Speed)
				}
				if c.Throwing.Cooldown != 750*time.Millisecond {
					t.Fatalf("cooldown not overridden: %v", c.Throwing.Cooldown)
				}
				if c.Camera.CrosshairDelay != 0 {
					t.Fatalf("crosshair delay not overridden: %v", c.Camera.CrosshairDelay)
				}
			},
		},
		{
			name:    "clamped",
			environ: map[string]string{"SNOWFIGHT_AIM_DISTANCE": "1000"},
			check: func(t *testing.T, c *Config) {
				if c.Camera.AimDistance != 200 {
					t.Fatalf("aim distance should clamp to 200, got %v", c.Camera.AimDistance)
				}
			},
		},
		{name: "not_a_number", environ: map[string]string{"SNOWFIGHT_MOVEMENT_SPEED": "fast"}, wantErr: true},
		{name: "negative", environ: map[string]string{"SNOWFIGHT_THROW_COOLDOWN": "-1s"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(env.Options{Environment: tc.environ})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("apply env: %v", err)
			}
			tc.check(t, cfg)
		})
	}
}
