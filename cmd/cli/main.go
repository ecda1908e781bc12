package main

import "github.com/nimasrn/record-shop/internal/cli"

func main() {
	cli.Execute()
}
