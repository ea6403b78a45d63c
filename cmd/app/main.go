package main

import (
	"go.uber.org/fx"

	"github.com/yourusername/media-saver-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
