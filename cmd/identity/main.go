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

	"exam-dashboard-server/config"
	"exam-dashboard-server/internal/handler"
	"exam-dashboard-server/internal/repository"
	"exam-dashboard-server/internal/security"
	"exam-dashboard-server/internal/service"
)

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

	srv, router := config.SetupServer(cfg.IdentityAddr)

	userRepo := repository.NewUserRepository(db)
	jwtRepo := repository.NewJWTRepository(db)

	jwtService := security.NewJWTService(&cfg.JWT)
	authService := service.NewAuthenticationService(jwtRepo, cfg, jwtService, userRepo)
	userService := service.NewUserService(userRepo, jwtService, jwtRepo, &cfg.Admin)

	authHandler := handler.NewAuthenticationHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	setupIdentityRoutes(router, authHandler, userHandler, jwtService, cfg)

	runServer(ctx, srv)
}

func setupIdentityRoutes(r chi.Router, authHandler *handler.AuthenticationHandler, userHandler *handler.UserHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/v2/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh-token", authHandler.RefreshToken)
			r.Post("/register", userHandler.RegisterUser)
		})
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))
			r.Get("/me", userHandler.GetCurrentUser)
			r.Delete("/logout", authHandler.Logout)
		})
	})

	r.Route("/api/v2/users", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))
		r.Put("/me", userHandler.UpdateProfile)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("identity сервер запущен на " + server.Addr)
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
