package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/playground/defs"
)

func main() {
	levelPath := flag.String("level", "level.json", "level file used by save, load and startup")
	debug := flag.Bool("debug", false, "overlay frame timings and the active mode")
	watch := flag.Bool("watch", true, "hot-reload definition files under defs/")
	flag.Parse()

	d, err := defs.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		clipboardReady = true
	}

	game := NewGame(d, *levelPath, *debug)

	if *watch {
		w, err := defs.NewWatcher("defs")
		if err != nil {
			log.Printf("defs watch: %v", err)
		} else {
			defer w.Close()
			game.watcher = w
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("playground")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
