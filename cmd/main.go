package main

import "github.com/orgball2608/vibestream/internal/cli"

func main() {
	cli.Execute()
}
