// Package pipeline defines the project's task catalogue.
//
// Build registers every task against a fresh registry using the tool names
// and directories from config, then seals it. The top-level pipelines are:
//
//	default    install
//	install    submodules, configure, vendor, migrate, assets, cache, plans, tests
//	update     submodules, composer-update, npm, bower, migrate, assets, cache
//	dev        copy:assets, sass:build, watch
//	dev:js     copy:jsOnlyIgnoreVendor
//
// The framework console tasks (sf2-cache-clear, sf2-assets-install,
// sf2-assetic-dump) are variants: resolving them for "all" yields one step
// per environment.
package pipeline
