package main

import (
	"log"

	"AutoWash/Audit"
	"AutoWash/CronJobs"
	"AutoWash/FiberConfig"
	"AutoWash/Models"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	Models.Connect()

	audit := Audit.NewRecorder(Models.DB)
	defer audit.Close()

	digest := CronJobs.NewDailyDigest(Models.DB, audit, false)
	if err := digest.Start(); err != nil {
		log.Printf("Failed to start daily digest: %v", err)
	}
	defer digest.Stop()

	FiberConfig.FiberConfig(audit)
}
