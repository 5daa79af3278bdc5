// Command aw-analyzer is the CLI entrypoint: it builds nothing itself,
// delegating the verb table to the commands package and exiting
// whatever status that package decides.
package main

import "github.com/posaune0423/aw-analyzer/cmd/aw-analyzer/commands"

func main() {
	commands.Execute()
}
