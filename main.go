package main

import (
	"log"

	"github.com/sportlinkhq/sportlink/cache"
	"github.com/sportlinkhq/sportlink/config"
	"github.com/sportlinkhq/sportlink/db"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/realtime"
	"github.com/sportlinkhq/sportlink/server"
	"github.com/sportlinkhq/sportlink/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Init(conf.Env)

	gormDB := db.GetDB(conf)
	userRepo := db.NewUserRepo(gormDB)
	convRepo := db.NewConversationRepo(gormDB)
	msgRepo := db.NewMessageRepo(gormDB)
	bookingRepo := db.NewBookingRepo(gormDB)

	profileCache := cache.NewProfileCache(conf.RedisAddr)
	directory := services.NewDirectoryService(userRepo, profileCache)

	hub := realtime.NewHub(msgRepo)
	convService := services.NewConversationService(convRepo, msgRepo, directory, hub)
	msgService := services.NewMessageService(convRepo, msgRepo, hub)
	hub.SetConversationLister(convService)

	authService := services.NewAuthService(userRepo, conf)
	accessService := services.NewAccessService(userRepo, bookingRepo)

	s := &server.Server{
		Config:              conf,
		AuthService:         authService,
		ConversationService: convService,
		MessageService:      msgService,
		AccessService:       accessService,
		UserRepository:      userRepo,
		Hub:                 hub,
	}

	s.Start()
}
