package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"pharmacy/cmd"
	httpin "pharmacy/internal/adapters/in/http"
	"pharmacy/internal/adapters/out/postgres/driverrepo"
	"pharmacy/internal/adapters/out/postgres/notificationrepo"
	"pharmacy/internal/adapters/out/postgres/orderrepo"
	"pharmacy/internal/adapters/out/postgres/userdirectory"
	"pharmacy/internal/adapters/out/rabbitmq"
	"pharmacy/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	publisher, err := rabbitmq.Connect(configs.RabbitMQURL)
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, publisher, logger)

	sweepJob := jobs.NewAvailabilitySweepJob(
		app.CreateReleaseStaleDriversCommandHandler(),
		mustParseDuration(configs.StaleDriverThreshold),
		logger,
	)
	if err = sweepJob.Start(); err != nil {
		log.Fatalf("Error starting availability sweep job: %v", err)
	}
	defer sweepJob.Stop()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:             goDotEnvVariable("HTTP_PORT"),
		DBHost:               goDotEnvVariable("DB_HOST"),
		DBPort:               goDotEnvVariable("DB_PORT"),
		DBUser:               goDotEnvVariable("DB_USER"),
		DBPassword:           goDotEnvVariable("DB_PASSWORD"),
		DBName:               goDotEnvVariable("DB_NAME"),
		DBSslMode:            goDotEnvVariable("DB_SSLMODE"),
		RabbitMQURL:          goDotEnvVariable("RABBITMQ_URL"),
		StaleDriverThreshold: goDotEnvVariable("STALE_DRIVER_THRESHOLD"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.TrackingUpdateDTO{},
		&driverrepo.DriverLocationDTO{},
		&notificationrepo.NotificationDTO{},
		&userdirectory.UserDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}

func mustParseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Error parsing STALE_DRIVER_THRESHOLD: %v", err)
	}
	return d
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateReviewOrderCommandHandler(),
		app.CreateProcessPaymentCommandHandler(),
		app.CreateValidatePaymentCommandHandler(),
		app.CreateMarkOrderReadyCommandHandler(),
		app.CreateAcceptDeliveryCommandHandler(),
		app.CreateCompleteDeliveryCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateUpdateDriverLocationCommandHandler(),
		app.CreateGetAvailableDeliveriesQueryHandler(),
		app.CreateGetOrderTrackingQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
