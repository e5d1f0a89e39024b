// Package registry provides a generic, ordered registry for named items.
// Items are registered once during startup; after Seal the registry is
// read-only and safe to share.
package registry
