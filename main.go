package main

import (
	"github.com/dreamerjackson/aircrawler/cmd"
)

func main() {
	cmd.Execute()
}
