package main

import "github.com/lemon6243/customer-center-dashboard/cmd"

func main() {
	cmd.Execute()
}
