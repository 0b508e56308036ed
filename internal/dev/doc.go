// Package dev watches a project directory so a running server can pick
// up template and config edits.
//
// The watcher polls modification times; it needs no platform file
// notification support and copes with editors that replace files.
//
// # Usage
//
//	w := dev.NewWatcher(dev.WatcherConfig{Paths: []string{dir}})
//	w.OnChange(func(c dev.Change) {
//	    reload()
//	})
//	go w.Start(ctx)
package dev
