package main

import "hostel-admin/internal/cli"

func main() {
	cli.Execute()
}
