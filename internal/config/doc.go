// Package config provides configuration parsing for vbind projects.
//
// The configuration is stored in vbind.yaml (or vbind.yml / vbind.json)
// at the project root. This package handles loading, saving, and
// validating it.
//
// # Configuration File Structure
//
//	name: counter
//	el: "#app"
//	template: index.html        # or s3://bucket/key
//	data:                       # key order is kept
//	  message: Hello
//	  count: 0
//	methods:
//	  increment: {op: add, key: count, value: 1}
//	  reset:     {op: set, key: message, value: ""}
//	directives:
//	  model: v-model
//	  click: "@click"
//	  text: v-text
//	  open: "{{"
//	  close: "}}"
//	server:
//	  host: localhost
//	  port: 3000
//	  metricsPath: /metrics
//	  tracing: false
//	log:
//	  level: info
//	  format: text
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
