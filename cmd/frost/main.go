// Command frost parses Frost expressions and prints their lossless syntax trees.
package main

import "context"

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newRootCommand(newGlobalState(ctx)).execute()
}
