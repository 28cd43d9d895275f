package main

import (
	"context"

	"hospital-portal/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx := context.Background()

	// Initialize application with all dependencies
	app, err := bootstrap.New(ctx)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	// Run the application
	app.Run(ctx)
}
