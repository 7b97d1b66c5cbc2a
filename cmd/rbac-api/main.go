package main

import "github.com/rbac-admin/rbac-api/cmd/rbac-api/cmd"

func main() {
	cmd.Execute()
}
