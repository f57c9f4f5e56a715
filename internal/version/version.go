package version

// Name identifies the service in logs, traces, and the CLI.
const Name = "lendgate"

// Version is overridden at build time via -ldflags.
var Version = "dev"
