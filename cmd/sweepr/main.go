package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "sweepr",
		Usage:   "Dead code and dead dependency analysis for JavaScript and TypeScript",
		Version: version,
		Description: `Sweepr builds a module graph from your project's imports and exports,
then reports files, exported symbols, and declared dependencies that are
unreachable from the configured entry points.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SWEEPR_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the descriptor cache",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (includes circular import report)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parse worker count (0 = automatic)",
			},
		},
		Commands: []*cli.Command{
			checkCmd(),
			fixCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// getRoot returns the project root from positional args, defaulting to
// the current directory.
func getRoot(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}
