package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/medvault/medvault-server/controllers"
	"github.com/medvault/medvault-server/cron"
	"github.com/medvault/medvault-server/db"
	"github.com/medvault/medvault-server/events"
	"github.com/medvault/medvault-server/lifecycle"
	"github.com/medvault/medvault-server/notify"
	"github.com/medvault/medvault-server/redis"
	"github.com/medvault/medvault-server/routes"
	"github.com/medvault/medvault-server/store"
)

func main() {
	app := fiber.New()
	db.Init()
	db.Migrate()
	redis.InitRedis()

	appointments := store.NewGormStore(db.DB)
	dispatcher := events.NewDispatcher(
		&notify.InboxHandler{Store: appointments},
		notify.NewEmailHandler(),
	)
	controllers.Engine = lifecycle.NewEngine(appointments, dispatcher)

	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("MedVault API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupDoctorRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupNotificationRoutes(app)
	routes.SetupPaymentRoutes(app)
	routes.SetupMedicalRecordRoutes(app)
	routes.SetupFeedbackRoutes(app)

	app.Listen(":8000")
	fmt.Println("Server started on port 8000")
}
