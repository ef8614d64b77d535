package version

// Version is set at build time.
var Version = "dev"

// Commit is set at build time.
var Commit = ""
