package main

import (
	"context"

	"github.com/gaze-network/sale-engine/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
