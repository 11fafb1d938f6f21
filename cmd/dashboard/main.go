// Command dashboard renders the dashboard views in the terminal.
package main

import "socialpulse/internal/cli"

func main() {
	cli.Execute()
}
