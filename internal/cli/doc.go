// Package cli implements the puls command-line interface.
//
// The root command starts the dashboard; subcommands cover everything that
// does not need a live terminal:
//
//	puls            - Start the monitoring dashboard
//	puls health     - Probe every enabled backend and report status
//	puls info       - Print static system information
//	puls init       - Write a default config file
//	puls version    - Print version information
//	puls completion - Generate shell completion scripts
//
// # Flag Handling
//
// Flags mirror the config file one to one and win over it: the file is
// loaded first, then any flag the user actually set overrides the loaded
// value. --safe is the big switch; it forces Docker, GPU, and network
// monitoring off regardless of anything else.
package cli
