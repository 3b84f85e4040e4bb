/*
Package config loads and saves connection profiles from ~/.dbkit/config.yaml.

A profile names a driver plus the settings its DSN needs; preferences hold
cross-profile settings such as the timezone the SDK resolves temporal
values in.
*/
package config
