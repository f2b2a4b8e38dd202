package main

import (
	"fmt"
	"os"

	"github.com/novinresanehco/lifeos-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Start()

	application.Log.Info("Server listening", "addr", application.Cfg.Addr)
	if err := application.Run(); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
