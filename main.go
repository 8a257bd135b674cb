package main

import (
	"context"
	"time"

	"github.com/Kariqs/agronexus-api/controllers"
	"github.com/Kariqs/agronexus-api/initializers"
	"github.com/Kariqs/agronexus-api/routes"
	"github.com/Kariqs/agronexus-api/services"
	"github.com/Kariqs/agronexus-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newRevoker(ctx context.Context, redisURL string) services.Revoker {
	if redisURL == "" {
		log.Println("REDIS_URL not set, token revocation is kept in memory.")
		return services.NewMemoryRevoker()
	}

	revoker, err := services.NewRedisRevoker(redisURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := revoker.Ping(ctx); err != nil {
		log.Fatal("Unable to reach redis: ", err)
	}
	return revoker
}

func newNotifiers(config initializers.Config, users *services.Users) []services.OrderNotifier {
	var notifiers []services.OrderNotifier
	if config.SMTPHost != "" && config.FromEmail != "" {
		mailer := utils.NewMailer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword, config.FromEmail)
		notifiers = append(notifiers, utils.NewOrderMailer(mailer, users.Get))
	}
	if config.OrderWebhookURL != "" {
		notifiers = append(notifiers, utils.NewWebhookNotifier(config.OrderWebhookURL))
	}
	return notifiers
}

func newHandler(ctx context.Context, config initializers.Config, db *gorm.DB) *controllers.Handler {
	creds, err := services.NewCredentials(config.SecretKey, config.PasswordSalt, config.Algorithm)
	if err != nil {
		log.Fatal(err)
	}

	users := services.NewUsers(db, creds, config.LegacyDigestBackfill)
	if created, err := users.EnsureAdmin(ctx, config.AdminEmail, config.AdminPassword); err != nil {
		log.Fatal(err)
	} else if created {
		log.WithField("email", config.AdminEmail).Println("Default admin account created.")
	}

	handler := &controllers.Handler{
		DB:        db,
		Creds:     creds,
		Revoker:   newRevoker(ctx, config.RedisURL),
		Users:     users,
		Catalog:   services.NewCatalog(db),
		Carts:     services.NewCarts(db),
		Orders:    services.NewOrders(db, newNotifiers(config, users)...),
		Dashboard: services.NewDashboard(db),
	}

	if config.S3Bucket != "" {
		store, err := utils.NewS3ImageStore(ctx, config.S3Bucket)
		if err != nil {
			log.Fatal(err)
		}
		handler.Images = store
	}
	return handler
}

func main() {
	initializers.LoadEnv()
	config, err := initializers.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := initializers.ConnectToDB(config)
	if err != nil {
		log.Fatal(err)
	}
	if err := initializers.SyncDatabase(db); err != nil {
		log.Fatal("Failed to sync database: ", err)
	}

	handler := newHandler(context.Background(), config, db)

	gin.SetMode(config.GinMode)
	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.SetupRoutes(server, handler)

	if err := server.Run(":" + config.Port); err != nil {
		log.Fatal(err)
	}
}
