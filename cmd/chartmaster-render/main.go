// Command chartmaster-render draws chart documents into PNG images and
// inspects them without opening a window.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := NewApp().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "chartmaster-render: %v\n", err)
		os.Exit(1)
	}
}
