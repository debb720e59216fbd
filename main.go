package main

import "github.com/wealthealphaglobal/astrofinance-auto/internal/cli"

func main() {
	cli.Execute()
}
