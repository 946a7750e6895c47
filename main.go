package main

import "github.com/theirongolddev/claimtrack/cmd"

func main() {
	cmd.Execute()
}
