package main

import (
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jxskiss/mcli"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	app := mcli.App{
		Description: "Implicit grant helper v" + version,
	}
	app.Add("token", tokenCommand, "Run the implicit grant and print the access token")
	app.Add("get", getCommand, "GET a URL with the harvested access token")
	app.Add("version", versionCommand, "Print the version")
	app.Run()
}

func versionCommand() {
	displayAppname("implicit auth")
	fmt.Println(version)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	figure.Write(os.Stderr, myFigure)
	fmt.Fprintln(os.Stderr)
}
