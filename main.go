package main

import (
	"context"
	"os"

	"github.com/recipebook/recipebook/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
