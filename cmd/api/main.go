package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/studyconnect/tutorhub/configs"
	"github.com/studyconnect/tutorhub/database"
	"github.com/studyconnect/tutorhub/handlers"
	"github.com/studyconnect/tutorhub/jobs"
	"github.com/studyconnect/tutorhub/notifications"
	"github.com/studyconnect/tutorhub/routes"
	"github.com/studyconnect/tutorhub/websocket"
)

func main() {
	db, err := database.Connect(configs.Config("DATABASE_URL"))
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 Failed to run migrations: %v", err)
	}
	if err := database.SeedAdmin(db); err != nil {
		log.Fatalf("🔥 Failed to seed admin account: %v", err)
	}
	notifications.InitEmailService()

	var rdb *redis.Client
	if addr := configs.Config("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: configs.Config("REDIS_PASSWORD"),
		})
	}

	c := cron.New()
	c.AddFunc("0 3 * * *", func() { jobs.SweepStaleRequests(db) })
	go c.Start()
	log.Println("✅ Cron job for stale requests scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "TutorHub",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to TutorHub API",
		})
	})

	hub := websocket.NewHub(db)
	go hub.Run()

	h := handlers.New(db, hub)

	routes.AuthRoutes(app, h, rdb)
	routes.AdminRoutes(app, h, db)
	routes.TutorRoutes(app, h)
	// PostRoutes before TuteeRoutes: the public tutee-post listing must be
	// registered ahead of the Protected guard on the /tutees prefix.
	routes.PostRoutes(app, h)
	routes.TuteeRoutes(app, h)
	routes.RequestRoutes(app, h)
	routes.ChatRoutes(app, h)
	routes.UploadRoutes(app, h)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
