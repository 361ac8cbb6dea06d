package main

import (
	"os"

	"github.com/Ning0612/foldercrawler/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
