package main

import "github.com/quantlab/stockgym/internal/cli"

func main() {
	cli.Execute()
}
