package main

import (
	"github.com/histotrend/backend/cmd/app"
)

func main() {
	app.Run()
}
