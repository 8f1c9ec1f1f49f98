package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "tuning config YAML (defaults are embedded)")
	levelName := flag.String("level", "", "level name or index to open after the menu")
	watch := flag.Bool("watch", false, "reload levels when files under levels/ change")
	debug := flag.Bool("debug", false, "enable debug mode")
	flag.Parse()

	if *debug {
		log.SetFlags(log.Lmicroseconds | log.Lshortfile)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("snowfight")

	game, err := NewGame(Options{
		ConfigPath: *configPath,
		Level:      *levelName,
		Watch:      *watch,
		Debug:      *debug,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
