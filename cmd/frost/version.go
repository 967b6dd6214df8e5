package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type versionCmd struct {
	gs     *globalState
	isJSON bool
}

// versionDetails describes the build.
func versionDetails() map[string]string {
	return map[string]string{
		"version":    "v" + Version,
		"go_version": runtime.Version(),
		"go_os":      runtime.GOOS,
		"go_arch":    runtime.GOARCH,
	}
}

func (c *versionCmd) run(_ *cobra.Command, _ []string) error {
	details := versionDetails()
	if !c.isJSON {
		_, err := fmt.Fprintf(c.gs.stdout, "frost %s (%s, %s/%s)\n",
			details["version"], details["go_version"], details["go_os"], details["go_arch"])
		return err
	}

	jsonDetails, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to produce JSON version details: %w", err)
	}

	_, err = fmt.Fprintln(c.gs.stdout, string(jsonDetails))
	return err
}

func getCmdVersion(gs *globalState) *cobra.Command {
	versionCmd := &versionCmd{gs: gs}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and exit.`,
		Args:  cobra.NoArgs,
		RunE:  versionCmd.run,
	}

	cmd.Flags().BoolVar(&versionCmd.isJSON, "json", false, "if set, output version information will be in JSON format")

	return cmd
}
