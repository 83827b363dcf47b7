// Package config resolves mixdown configuration from embedded defaults,
// an optional TOML file, named quality profiles, and environment
// variables, in increasing priority. The engine itself never reads
// configuration; callers resolve a Config here and hand Options() to it.
package config
