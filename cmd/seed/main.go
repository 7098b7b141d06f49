package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"catchat/config"
	"catchat/db"
	"catchat/models"
	"catchat/services"

	"github.com/brianvoe/gofakeit/v7"
)

// Наполняет базу демо-данными: администратор, случайные пользователи,
// дружбы, групповая беседа и личные диалоги с сообщениями
func main() {
	var configPath string
	var userCount int
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.IntVar(&userCount, "users", 10, "Number of random users to create")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := db.ConnectDB(); err != nil {
		log.Fatal("Failed to connect to the database: ", err)
	}

	ctx := context.Background()
	userService := services.NewUserService()
	chatService := services.NewChatService()
	friendService := services.NewFriendService()

	adminID, err := userService.Register(ctx, "Adair Admin", "adair@test.com", "password")
	if err != nil {
		log.Fatal("Failed to create admin user: ", err)
	}
	if err := db.GetWriteDB(ctx).Model(&models.User{}).Where("id = ?", adminID).
		Update("role", models.RoleAdmin).Error; err != nil {
		log.Fatal("Failed to promote admin: ", err)
	}

	userIDs := []int64{adminID}
	emails := map[int64]string{adminID: "adair@test.com"}
	for i := 0; i < userCount; i++ {
		name := gofakeit.Name()
		email := gofakeit.Email()
		id, err := userService.Register(ctx, name, email, gofakeit.Password(true, true, true, false, false, 12))
		if err != nil {
			log.Println("Skipping user:", err)
			continue
		}
		bio := gofakeit.Sentence(8)
		db.GetWriteDB(ctx).Model(&models.User{}).Where("id = ?", id).Update("bio", bio)
		userIDs = append(userIDs, id)
		emails[id] = email
	}
	log.Printf("Created %d users", len(userIDs))

	// Дружбы: админ дружит с первыми пользователями
	for _, id := range userIDs[1:] {
		request, err := friendService.SendRequest(ctx, adminID, emails[id])
		if err != nil {
			log.Println("Skipping friend request:", err)
			continue
		}
		if err := friendService.Accept(ctx, request.ID, id); err != nil {
			log.Println("Skipping accept:", err)
		}
	}

	// Групповая беседа с первыми пятью пользователями
	group := models.Conversation{
		Name:      "General Group",
		IsGroup:   true,
		CreatedAt: time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(&group).Error; err != nil {
		log.Fatal("Failed to create group conversation: ", err)
	}
	groupSize := 5
	if len(userIDs) < groupSize {
		groupSize = len(userIDs)
	}
	for _, id := range userIDs[:groupSize] {
		participant := models.ConversationParticipant{ConversationID: group.ID, UserID: id}
		db.GetWriteDB(ctx).Create(&participant)
	}
	for i := 0; i < 10; i++ {
		sender := userIDs[gofakeit.Number(0, groupSize-1)]
		message := models.Message{
			ConversationID: group.ID,
			UserID:         sender,
			Body:           gofakeit.HipsterSentence(6),
			Type:           "text",
			CreatedAt:      time.Now(),
		}
		db.GetWriteDB(ctx).Create(&message)
	}

	// Личные диалоги админа с парой пользователей
	for _, id := range userIDs[1:] {
		for i := 0; i < 3; i++ {
			from, to := adminID, id
			if gofakeit.Bool() {
				from, to = to, from
			}
			if _, err := chatService.SendMessage(ctx, from, to, gofakeit.Quote()); err != nil {
				log.Println("Skipping message:", err)
			}
		}
	}

	fmt.Println("Seeding complete")
}
