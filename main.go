package main

import "github.com/stockr-hq/stockr-cli/cmd"

func main() {
	cmd.Execute()
}
