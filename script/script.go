// Package script runs level scripts written in tengo. A script runs once
// when its level finishes loading and may add decorations and targets.
package script

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Timeout bounds a single script run.
var Timeout = time.Second

type SpawnKind string

const (
	SpawnSpinner SpawnKind = "spinner"
	SpawnTarget  SpawnKind = "target"
)

// Spawn is one object requested by a script.
type Spawn struct {
	Kind   SpawnKind
	X, Y   float64
	Size   float64
	Speed  float64
	Radius float64
}

// Env is what a script can read about the level being loaded.
type Env struct {
	LevelName  string
	LevelIndex int
}

var allowedModules = []string{"math", "text", "rand", "fmt"}

// Run compiles and executes src, returning the spawns it requested in call
// order.
func Run(ctx context.Context, name string, src []byte, env Env) ([]Spawn, error) {
	var spawns []Spawn

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(allowedModules...))
	if err := s.Add("level_name", env.LevelName); err != nil {
		return nil, err
	}
	if err := s.Add("level_index", env.LevelIndex); err != nil {
		return nil, err
	}
	builtins := map[string]*tengo.UserFunction{
		"spawn_spinner": {Name: "spawn_spinner", Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := floatArgs("spawn_spinner", args, 4)
			if err != nil {
				return nil, err
			}
			if v[2] <= 0 {
				return nil, fmt.Errorf("spawn_spinner: size must be positive, got %g", v[2])
			}
			spawns = append(spawns, Spawn{Kind: SpawnSpinner, X: v[0], Y: v[1], Size: v[2], Speed: v[3]})
			return tengo.UndefinedValue, nil
		}},
		"spawn_target": {Name: "spawn_target", Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := floatArgs("spawn_target", args, 3)
			if err != nil {
				return nil, err
			}
			if v[2] <= 0 {
				return nil, fmt.Errorf("spawn_target: radius must be positive, got %g", v[2])
			}
			spawns = append(spawns, Spawn{Kind: SpawnTarget, X: v[0], Y: v[1], Radius: v[2]})
			return tengo.UndefinedValue, nil
		}},
		"log": {Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
			parts := make([]string, 0, len(args))
			for _, a := range args {
				parts = append(parts, objectAsString(a))
			}
			log.Printf("script %s: %s", name, strings.Join(parts, " "))
			return tengo.UndefinedValue, nil
		}},
	}
	for k, fn := range builtins {
		if err := s.Add(k, fn); err != nil {
			return nil, err
		}
	}

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: compile: %w", name, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()
	if err := compiled.RunContext(runCtx); err != nil {
		return nil, fmt.Errorf("script %s: run: %w", name, err)
	}
	return spawns, nil
}

func floatArgs(fn string, args []tengo.Object, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", fn, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		switch v := a.(type) {
		case *tengo.Int:
			out[i] = float64(v.Value)
		case *tengo.Float:
			out[i] = v.Value
		default:
			return nil, fmt.Errorf("%s: argument %d must be a number, got %s", fn, i+1, a.TypeName())
		}
	}
	return out, nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
