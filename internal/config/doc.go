// Package config loads process configuration from the environment, with an
// optional TOML file overlay. The relay credential (SCRAPERAPI_KEY) is
// deliberately optional: without it the pipeline fetches direct-only rather
// than refusing to run.
package config
