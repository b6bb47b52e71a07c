package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/controllers"
	"github.com/lkoehl/threesixty-server/routes"
	"github.com/lkoehl/threesixty-server/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	if err := config.LoadSettings(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	config.ConnectDB()
	controllers.Mail = utils.NewMailer()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(200, "360-degree feedback server is running")
	})

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	routes.SetupRoutes(r)

	log.Printf("Server listening on port %s\n", config.Env.Port)
	r.Run(":" + config.Env.Port)
}
