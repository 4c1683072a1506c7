package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func fixCmd() *cli.Command {
	return &cli.Command{
		Name:      "fix",
		Usage:     "Report removable code (automatic removal is not implemented)",
		ArgsUsage: "[path]",
		Action:    runFixCmd,
	}
}

// runFixCmd runs the same analysis as check, then tells the user that
// sweepr does not edit source files.
func runFixCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	result, err := runAnalysis(c, cfg)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	if err := renderResult(c, cfg, result); err != nil {
		return err
	}

	color.Yellow("Automatic removal is not implemented; review the findings above and delete manually.")
	return nil
}
