package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/drip/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands() {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")

	// Shell completion; a no-op outside of a completion request.
	completion().Complete("drip")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the CLI surface for shell completion.
func completion() *complete.Command {
	dateFlags := map[string]complete.Predictor{
		"from": predict.Something,
		"to":   predict.Something,
		"t":    predict.Something,
	}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"simulate": {
				Flags: map[string]complete.Predictor{
					"t":        predict.Something,
					"from":     predict.Something,
					"to":       predict.Something,
					"shares":   predict.Something,
					"forecast": predict.Something,
					"every":    predict.Set{"monthly", "quarterly", "semi-annual", "annual"},
					"csv":      predict.Files("*.csv"),
				},
			},
			"history": {Flags: dateFlags},
			"assist":  {},
			"topic": {
				Args: predict.Set{"readme", "simulate", "forecast", "providers"},
			},
		},
		Flags: map[string]complete.Predictor{
			"provider":      predict.Set{"yahoo", "eodhd"},
			"eodhd-api-key": predict.Something,
		},
	}
}
