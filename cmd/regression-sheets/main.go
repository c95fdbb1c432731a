package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	uhppoted "github.com/uhppoted/uhppoted-lib/command"

	"github.com/stanford-ppl/regression-sheets/commands"
)

var cli = []uhppoted.Command{
	&commands.VersionCmd,
	&commands.AuthoriseCmd,
	&commands.PerformanceCmd,
	&commands.RegressionCmd,
	&commands.GetCmd,
	&commands.PutCmd,
}

var options = commands.Options{
	Config: "",
	Debug:  false,
}

var help = uhppoted.NewHelp("regression-sheets", cli, nil)

func main() {
	flag.StringVar(&options.Config, "config", options.Config, "Configuration file (.yaml or .toml) overlaying the built-in destinations")
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.Parse()

	cmd, err := uhppoted.Parse(cli, nil, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	if cmd == nil {
		help.Execute()
		os.Exit(1)
	}

	if err = cmd.Execute(&options); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}
