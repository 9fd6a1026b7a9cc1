// Package main implements cdpd, the CDP discovery agent command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cdpd",
	Short: "Cisco Discovery Protocol neighbor agent",
	Long: `cdpd advertises this host on every configured link and learns its
directly connected neighbors by listening for CDP frames of its own.

It keeps an in-memory neighbor table, optionally persists a bounded
log of discovery events, and optionally sends SNMP traps and serves a
read-only JSON API when a neighbor appears or disappears.`,
	Version: version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("cdpd %s (commit: %s, built: %s)\n", version, commit, date))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
