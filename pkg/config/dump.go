package config

import (
	"github.com/arthur-debert/gantry/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// dumpView mirrors Config with toml tags and a human readable debounce
type dumpView struct {
	Bins struct {
		Behat    string `toml:"behat"`
		Bower    string `toml:"bower"`
		Composer string `toml:"composer"`
		Console  string `toml:"console"`
		Curl     string `toml:"curl"`
		Git      string `toml:"git"`
		Npm      string `toml:"npm"`
		Php      string `toml:"php"`
		Sass     string `toml:"sass"`
		Shell    string `toml:"shell"`
	} `toml:"bins"`
	Dirs struct {
		Manage     string `toml:"manage"`
		Resources  string `toml:"resources"`
		Stripe     string `toml:"stripe"`
		Web        string `toml:"web"`
		AssetsSrc  string `toml:"assets_src"`
		AssetsDest string `toml:"assets_dest"`
	} `toml:"dirs"`
	URLs struct {
		Composer string `toml:"composer"`
	} `toml:"urls"`
	Environment struct {
		Default  string `toml:"default"`
		Variable string `toml:"variable"`
	} `toml:"environment"`
	Watch struct {
		Debounce string `toml:"debounce"`
	} `toml:"watch"`
	Output struct {
		Styles string `toml:"styles"`
	} `toml:"output"`
}

// Dump renders the effective configuration as TOML
func (c *Config) Dump() ([]byte, error) {
	var v dumpView
	v.Bins.Behat = c.Bins.Behat
	v.Bins.Bower = c.Bins.Bower
	v.Bins.Composer = c.Bins.Composer
	v.Bins.Console = c.Bins.Console
	v.Bins.Curl = c.Bins.Curl
	v.Bins.Git = c.Bins.Git
	v.Bins.Npm = c.Bins.Npm
	v.Bins.Php = c.Bins.Php
	v.Bins.Sass = c.Bins.Sass
	v.Bins.Shell = c.Bins.Shell
	v.Dirs.Manage = c.Dirs.Manage
	v.Dirs.Resources = c.Dirs.Resources
	v.Dirs.Stripe = c.Dirs.Stripe
	v.Dirs.Web = c.Dirs.Web
	v.Dirs.AssetsSrc = c.Dirs.AssetsSrc
	v.Dirs.AssetsDest = c.Dirs.AssetsDest
	v.URLs.Composer = c.URLs.Composer
	v.Environment.Default = c.Environment.Default
	v.Environment.Variable = c.Environment.Variable
	v.Watch.Debounce = c.Watch.Debounce.String()
	v.Output.Styles = c.Output.Styles

	out, err := toml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
