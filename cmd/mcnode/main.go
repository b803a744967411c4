package main

import "github.com/klydem11/minecraft-AWS-server/pkg/cli/cmd"

func main() {
	cmd.Execute()
}
