package main

import (
	"log"

	"github.com/joho/godotenv"
)

// @title API Lavandería
// @version 1.0
// @description Backend de ventas y ciclo de vida de máquinas de lavandería
// @BasePath /api/v1
func main() {
	// Cargar variables de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: archivo .env no encontrado: %v", err)
	}

	app, err := NewApp()
	if err != nil {
		log.Fatalf("error al inicializar la aplicación: %v", err)
	}

	if err := app.Start(); err != nil {
		log.Fatalf("error al ejecutar el servidor: %v", err)
	}
}
