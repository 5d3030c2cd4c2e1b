// Package config loads client configuration from a YAML file with
// environment variable expansion, or directly from the environment
// variables the upstream tooling uses (DATABRICKS_HOST, SPACE_ID, and
// friends).
package config
