package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"code.stakewire.io/stakewire/config"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	Home  string `long:"home" description:"Path of the home directory in which the configuration will be located" default:"."`
	Force bool   `short:"f" long:"force" description:"Overwrite an existing configuration"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	cfgPath := filepath.Join(opts.Home, "config.toml")
	if _, err := os.Stat(cfgPath); err == nil && !opts.Force {
		return fmt.Errorf("configuration already exists at %s, re-run with -f to overwrite", cfgPath)
	}
	if err := config.Write(opts.Home, config.NewDefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("configuration generated at %s\n", cfgPath)
	return nil
}

func Init(_ context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}
	_, err := parser.AddCommand("init", "Initialize a stakewire node", "Generate the minimal configuration required for a stakewire node to start", &initCmd)
	return err
}
