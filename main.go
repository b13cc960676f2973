// The main package for the rentcrawl executable.
package main

import "github.com/fyxed/rentcrawl/cmd"

func main() {
	cmd.Execute()
}
