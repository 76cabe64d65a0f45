package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/apihelpers"
	"github.com/january-msemakweli/MoAfyaCamps/services/camp-api/apihandlers"
)

func main() {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(apihelpers.MetricsMiddleware())
	router.GET("/metrics", apihelpers.MetricsHandler())

	handlers := apihandlers.NewHTTPHandler(
		identityClient,
		tableClient,
		conf.SessionTokenSignKey,
		conf.SessionTokenExpiresIn,
		conf.BootstrapAdminEmail,
		conf.BootstrapAdminPassword,
		conf.LoginURL,
		emailClients,
	)
	handlers.AddWebRoutes(router)
	handlers.AddCampAPI(router)

	if conf.GinDebugMode {
		apihelpers.WriteRoutesToFile(router, "camp-api-routes.txt")
	}

	slog.Info("Starting Camp API", slog.String("port", conf.Port))
	if !conf.UseMTLS {
		if err := router.Run(":" + conf.Port); err != nil {
			slog.Error("Exited Camp API", slog.String("error", err.Error()))
			return
		}
	} else {
		tlsConfig, err := apihelpers.LoadTLSConfig(conf.CertificatePaths)
		if err != nil {
			slog.Error("Error loading TLS config.", slog.String("error", err.Error()))
			return
		}

		server := &http.Server{
			Addr:      ":" + conf.Port,
			Handler:   router,
			TLSConfig: tlsConfig,
		}

		if err := server.ListenAndServeTLS(conf.CertificatePaths.ServerCertPath, conf.CertificatePaths.ServerKeyPath); err != nil {
			slog.Error("Exited Camp API", slog.String("error", err.Error()))
			return
		}
	}
}
