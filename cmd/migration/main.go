package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/lavanderia/lavanderia-backend/internal/infrastructure/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: archivo .env no encontrado: %v", err)
	}

	if err := database.RunMigrations(); err != nil {
		log.Fatalf("error al aplicar migraciones: %v", err)
	}
	log.Println("migraciones aplicadas")
}
