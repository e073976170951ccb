package main

import (
	"log"
	"os"

	_ "github.com/ripixel/fitglue-server/catalog/functions/dedupe" // Import function/init

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/joho/godotenv"
)

func main() {
	// Local runs pick up GOOGLE_CLOUD_PROJECT etc. from .env
	_ = godotenv.Load()

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v\n", err)
	}
}
