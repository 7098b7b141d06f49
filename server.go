package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"catchat/api/middleware"
	"catchat/api/routes"
	"catchat/config"
	"catchat/db"
	"catchat/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	// Redis и RabbitMQ необязательны: без них не работают только
	// счетчики непрочитанных и push через брокер
	if err := services.InitRedis(); err != nil {
		log.Println("Warning: Redis initialization failed:", err)
	}
	defer services.CloseRedis()

	if err := services.InitRabbitMQ(); err != nil {
		log.Println("Warning: RabbitMQ initialization failed:", err)
	} else {
		defer services.CloseRabbitMQ()
		if err := services.StartChatEventConsumer(context.Background(), "chat_events_ws"); err != nil {
			log.Println("Warning: failed to start chat event consumer:", err)
		}
	}

	router := gin.Default()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("catchat-api"))

	routes.PublicApi(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := ":8080"
	if config.AppConfig.Backend.Port != 0 {
		addr = fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
