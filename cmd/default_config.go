package cmd

import (
	_ "embed"
	"fmt"

	"github.com/sirupsen/logrus"

	sim "github.com/transit-sim/transit-sim/sim"
)

// defaultNetwork is the network used when no --config file is given.
//
//go:embed defaults.yaml
var defaultNetwork []byte

// loadNetwork parses the YAML network at path, or the embedded default when
// path is empty, and validates it.
func loadNetwork(path string) (*sim.SimConfig, error) {
	var (
		cfg *sim.SimConfig
		err error
	)
	if path == "" {
		logrus.Debug("using embedded default network")
		cfg, err = sim.ParseSimConfig(defaultNetwork)
	} else {
		cfg, err = sim.LoadSimConfig(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network config: %w", err)
	}
	return cfg, nil
}
