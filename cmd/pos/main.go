package main

import "github.com/riaziiii/pos-system/internal/cli"

func main() {
	cli.Execute()
}
