package main

import "github.com/dt-pm-tools/jira-report/cmd"

func main() {
	cmd.Execute()
}
