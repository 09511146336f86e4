// Package config loads, normalizes, and validates scrambleorg configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SCRAMBLEORG_API_TOKEN. The Config type centralizes every knob the CLI and the
// upload server need, allowing staging directories, the WCA API endpoint, and
// passcode date formatting to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
