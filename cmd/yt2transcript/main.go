package main

import "github.com/devbush/yt2transcript/internal/adapters/cli"

func main() {
	cli.Execute()
}
