package main

import (
	"os"

	appLog "github.com/Anthonyjrchen/LegalClerk/internal/log"
)

var version = "0.1.0-dev"

func main() {
	err := newRootCommand().Execute()
	appLog.Sync()
	if err != nil {
		appLog.Error("legalclerk failed", err)
		os.Exit(1)
	}
}
