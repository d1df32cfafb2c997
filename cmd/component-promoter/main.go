package main

import (
	"os"

	"github.com/yi-nology/component_promoter/cmd/component-promoter/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
