package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"

	"exam-dashboard-server/config"
	_ "exam-dashboard-server/docs"
	"exam-dashboard-server/internal/handler"
	"exam-dashboard-server/internal/repository"
	"exam-dashboard-server/internal/security"
	"exam-dashboard-server/internal/service"
)

// @title Exam-dashboard-assignments
// @version 1.0
// @description REST API для работы с заданиями (банком вопросов)

// @host localhost:8082

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Access-Token
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.AssignmentsAddr)

	assignmentRepo := repository.NewAssignmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.S3AndRedis)*time.Second)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	assignmentService := service.NewAssignmentService(assignmentRepo, cacheRepo, s3Service, time.Duration(cfg.TTL.S3AndRedis)*time.Second)
	shuffleService := service.NewShuffleService(assignmentRepo)
	jwtService := security.NewJWTService(&cfg.JWT)

	assignmentHandler := handler.NewAssignmentHandler(assignmentService, shuffleService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAssignmentRoutes(router, assignmentHandler, jwtService, cfg)

	runServer(ctx, srv)
}

func setupAssignmentRoutes(r chi.Router, h *handler.AssignmentHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/assignments", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))

		r.Get("/", h.ListAssignments)
		r.Post("/", h.CreateAssignment)
		r.Post("/shuffle", h.ShuffleAssignments)

		r.Route("/{assignment_id}", func(r chi.Router) {
			r.Get("/", h.GetAssignment)
			r.Put("/", h.UpdateAssignment)
			r.Delete("/", h.DeleteAssignment)
			r.Post("/attachment", h.UploadAttachment)
			r.Get("/attachment", h.DownloadAttachment)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("assignments сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
