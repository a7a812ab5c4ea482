package main

import (
	"fmt"
	"os"

	"github.com/provaloop/studyloop-backend/internal/app"
	"github.com/provaloop/studyloop-backend/internal/platform/envutil"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	port := envutil.String("PORT", "8080")
	a.Log.Info("Server listening", "port", port)
	if err := a.Run(":" + port); err != nil {
		a.Log.Error("Server failed", "error", err.Error())
		os.Exit(1)
	}
}
