// Package workflows implements multi-step operations behind Rimu
// commands: health checks and operation-history queries. Workflows
// take an Options struct, return a Result struct, and recover errors
// into the sentinel taxonomy so commands can render them uniformly.
package workflows
