package main

import "github.com/creativeprojects/imapstatus/cmd"

// set at build time
var (
	version = "0.1.0-dev"
	commit  = ""
	date    = ""
	builtBy = ""
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
