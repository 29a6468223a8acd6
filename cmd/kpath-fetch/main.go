// cmd/kpath-fetch/main.go
package main

import (
	"kpath/internal/appshell"
	"kpath/internal/fetchapp"
)

func main() {
	appshell.Main(fetchapp.RunContext)
}
