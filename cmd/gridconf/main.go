package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fluxgrid/fluxgrid/internal/config"
	"github.com/fluxgrid/fluxgrid/internal/grid"
	"github.com/fluxgrid/fluxgrid/pkg/logging"
)

// gridconf assembles the grid bootstrap configuration for a role and
// prints it as YAML: a dry run of exactly what a node would hand to the
// runtime, without starting anything.
func main() {
	role := flag.String("role", string(grid.RoleWorker), "cluster role: master or worker")
	settingsPath := flag.String("settings", "", "optional YAML settings file")
	join := flag.String("join", "", "override the cluster join descriptor")
	flag.Parse()

	logger, err := logging.InitLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings from %s: %v", *settingsPath, err)
	}
	if *join != "" {
		if settings == nil {
			settings = make(map[string]any)
		}
		settings[config.AttrJoin] = *join
	}

	clusterRole := grid.ClusterRole(*role)
	if !clusterRole.Valid() {
		log.Fatalf("Invalid role %q, expected master or worker", *role)
	}

	reader := config.NewAttributeReader(settings)
	factory := grid.NewFactory(clusterRole, reader, grid.WithLogger(logger))

	cfg, err := factory.BuildConfiguration(context.Background())
	if err != nil {
		log.Fatalf("Failed to build grid configuration: %v", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		log.Fatalf("Failed to render configuration: %v", err)
	}

	fmt.Fprint(os.Stdout, string(out))
}
