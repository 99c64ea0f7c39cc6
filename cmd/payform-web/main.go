package main

import "github.com/goliatone/go-payform/internal/cli"

func main() {
	cli.Execute(cli.NewWebRootCommand())
}
