package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short, jsonOutput bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, version)
				return nil
			}

			if jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"version":   version,
					"commit":    commit,
					"built":     buildTime,
					"goVersion": runtime.Version(),
					"platform":  runtime.GOOS + "/" + runtime.GOARCH,
				})
			}

			fmt.Fprintf(w, "publish-sync version %s\n", version)
			fmt.Fprintf(w, "  commit:     %s\n", commit)
			fmt.Fprintf(w, "  built:      %s\n", buildTime)
			fmt.Fprintf(w, "  go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print version string only")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
