package main

import (
	"os"

	"horse.fit/newsanalysis/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
