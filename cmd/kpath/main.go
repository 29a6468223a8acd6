// cmd/kpath/main.go
package main

import (
	"kpath/internal/app"
	"kpath/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
