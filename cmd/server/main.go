package main

import (
	"os"

	"relaychat/internal/app"
)

// @title           relaychat API
// @version         1.0
// @description     Streams replies from a language model, optionally grounded on an uploaded document.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
