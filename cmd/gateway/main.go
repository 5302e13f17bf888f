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
	"exam-dashboard-server/internal/apiclient"
	"exam-dashboard-server/internal/authclient"
	"exam-dashboard-server/internal/gateway"
	"exam-dashboard-server/internal/handler"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	srv, router := config.SetupServer(cfg.GatewayAddr)

	refreshClient := authclient.NewRefreshClient(&cfg.Identity)
	identityClient := apiclient.NewClient(cfg.Identity.BaseURL, nil, refreshClient)
	assignmentsClient := apiclient.NewClient(cfg.Assignments.BaseURL, nil, refreshClient)

	dashboardHandler := handler.NewDashboardHandler(cfg.Identity.BaseURL, nil, identityClient, assignmentsClient)

	// edge gate стоит перед всеми маршрутами: refresh-or-redirect
	// решается до обслуживания страницы
	router.Use(gateway.EdgeGate(refreshClient, cfg.SecureCookies()))

	setupGatewayRoutes(router, dashboardHandler)

	runServer(ctx, srv)
}

func setupGatewayRoutes(r chi.Router, h *handler.DashboardHandler) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile/me", h.Profile)
		r.Put("/profile/me", h.UpdateProfile)

		r.Get("/assignments", h.ListAssignments)
		r.Post("/assignments", h.CreateAssignment)
		r.Post("/assignments/shuffle", h.ShuffleAssignments)
	})

	r.Get("/dashboard/*", h.DashboardPage)
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("gateway сервер запущен на " + server.Addr)
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
