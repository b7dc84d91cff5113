package main

import "github.com/OpenTraceLab/OpenTraceVLSI/cmd/otv/cmd"

func main() {
	cmd.Execute()
}
