// Command schedulectl inspects scheduling structures. It renders YAML job
// snapshots offline with the same row builder the API uses, and talks to a
// running API for live structures, fleet stats and order syncs.
package main
