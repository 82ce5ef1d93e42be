package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
	"github.com/shrimpsizemoose/kardemumma/internal/handlers"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	studentHandler := handlers.NewStudentHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /students", studentHandler.HandleCreate)
	mux.HandleFunc("GET /students", studentHandler.HandleList)
	mux.HandleFunc("GET /students/{id}", studentHandler.HandleGet)
	mux.HandleFunc("PUT /students/{id}", studentHandler.HandleUpdate)
	mux.HandleFunc("DELETE /students/{id}", studentHandler.HandleDelete)

	mux.Handle("/metrics", promhttp.Handler())

	handler := handlers.CORS(
		service.Config.API.CORSAllowOrigins,
		handlers.RateLimit(service.Limiter, mux),
	)

	logger.Info.Printf("Starting kardemumma server on %s", service.Config.Server.Port)
	if service.Config.RateLimit.Enabled {
		logger.Debug.Printf(
			"Rate limit: %d requests per %s",
			service.Config.RateLimit.Requests,
			service.Config.RateLimitWindow(),
		)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, handler); err != nil {
		logger.Error.Fatalf("Kardemumma server failed: %v", err)
	}
}
