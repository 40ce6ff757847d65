package main

import (
	"context"

	"code.stakewire.io/stakewire/cmd/stakewire/node"
	"code.stakewire.io/stakewire/config"
	"code.stakewire.io/stakewire/logging"

	"github.com/jessevdk/go-flags"
)

type NodeCmd struct {
	Home string `long:"home" description:"Path of the home directory containing the configuration" default:"."`
}

var nodeCmd NodeCmd

func (cmd *NodeCmd) Execute(args []string) error {
	log := logging.NewLoggerFromConfig(
		logging.NewDefaultConfig(),
	)
	defer log.AtExit()

	confWatcher, err := config.NewWatcher(context.Background(), log, cmd.Home)
	if err != nil {
		return err
	}

	return (&node.Command{
		Log: log,
	}).Run(confWatcher, cmd.Home, args)
}

func Node(_ context.Context, parser *flags.Parser) error {
	nodeCmd = NodeCmd{}
	_, err := parser.AddCommand("node", "Runs a stakewire node", "Runs a stakewire node as defined by the config files", &nodeCmd)
	return err
}
