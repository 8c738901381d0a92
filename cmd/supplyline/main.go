package main

import "github.com/matthieukhl/supplyline/internal/cmd"

func main() {
	cmd.Execute()
}
