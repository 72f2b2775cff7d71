// Package config provides a transform registry and human-readable batch
// configuration.
//
// A batch can be declared in YAML and built against a registry of named
// transforms:
//
//	name: ingest
//	stages:
//	  - fetch
//	  - name: parse
//	    workers: 8
//
//	reg := config.NewRegistry()
//	reg.Register("fetch", fetchTransform)
//	reg.Register("parse", parseTransform)
//
//	cfg, _ := config.Parse(data)
//	b, _ := config.Build(reg, cfg)
package config
