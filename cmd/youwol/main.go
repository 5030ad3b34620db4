// Command youwol talks to a youwol backend from the shell: health checks,
// raw JSON calls, file transfers with progress, the live message stream and
// the journal of request events.
//
// Configuration is read from a YAML file (--config, YOUWOL_CONFIG,
// ./youwol.yaml or ~/.config/youwol/config.yaml) and YOUWOL_* environment
// variables; flags take precedence.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
