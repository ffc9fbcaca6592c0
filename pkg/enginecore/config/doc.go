/*
Package config provides runtime settings for the engine core.

# Overview

Config is a plain struct with YAML and JSON tags. Start from Default() and
override fields, or load a file where absent keys keep their defaults.

# Basic Usage

	cfg := config.Default()
	cfg.Workers = 4
	cfg.WaitStrategy = config.WaitBlock
	if err := cfg.Validate(); err != nil {
	    log.Fatal(err)
	}

# Worker Count

Workers follows the engine convention: a negative count is relative to the
number of cores, so -1 means "every core but the main thread's".

	workers := cfg.ResolveWorkers(runtime.NumCPU())

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("engine.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

A minimal YAML file:

	workers: 3
	wait_strategy: block
	journal:
	  enabled: true
	  path: ./session.db
	observability:
	  log_level: debug
*/
package config
