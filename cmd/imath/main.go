// Command imath evaluates imath host code, lists the bound classes and runs
// wasm guests against the bindings.
package main

import (
	"context"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(NewCLI().ExecuteContext(context.Background()))
}
