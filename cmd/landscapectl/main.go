package main

import "github.com/landscape-community/landscape-mcp/pkg/cli"

func main() {
	cli.Execute()
}
