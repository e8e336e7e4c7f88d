package main

import "github.com/linkvault/linkvault/cmd"

// @title                       LinkVault API
// @version                     1.0
// @description                 Personal bookmark collections organised in named sections.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd.Execute()
}
