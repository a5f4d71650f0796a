package main

import (
	"github.com/zuodh/OpenTSDBMeta/cmd/tsmeta/cmd"
)

func main() {
	cmd.Execute()
}
