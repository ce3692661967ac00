// Command playnotes serves and manages the playnotes note store.
package main

import "github.com/mesh-intelligence/playnotes/internal/cli"

func main() {
	cli.Execute()
}
