package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "LMS-backend/docs"
	"LMS-backend/internal/library/books"
	"LMS-backend/internal/library/loans"
	"LMS-backend/internal/library/requests"
	"LMS-backend/internal/library/workflow"
	"LMS-backend/internal/platform/auth"
	"LMS-backend/internal/platform/db"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if mode != "dev" && mode != "release" {
		fmt.Println("config: mode must be dev or release")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// API仕様
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	secret := []byte(cfg.Auth.JWTSecret)

	authSvc := auth.NewService(conn, secret)
	booksSvc := books.NewService(conn)
	loansSvc := loans.NewService(conn)
	requestsSvc := requests.NewService(conn)
	workflowSvc := workflow.NewService(conn, booksSvc, loansSvc, requestsSvc)

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterPublicRoutes(api, authSvc)

	authed := api.Group("", auth.RequireAuth(secret))
	admin := authed.Group("", auth.RequireRole(auth.RoleAdmin))

	auth.RegisterMemberRoutes(authed, admin, authSvc)
	books.RegisterRoutes(authed, admin, booksSvc)
	loans.RegisterRoutes(authed, admin, loansSvc)
	requests.RegisterRoutes(authed, admin, requestsSvc)
	workflow.RegisterRoutes(authed, admin, workflowSvc)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		// 証明書が設定されていればTLS、なければ平文で起動
		if cfg.Certificate.Cert != "" && cfg.Certificate.Key != "" {
			certFile := fmt.Sprintf("config/tls/%s/%s", mode, cfg.Certificate.Cert)
			keyFile := fmt.Sprintf("config/tls/%s/%s", mode, cfg.Certificate.Key)
			log.Printf("[INFO] listening on https://%s", cfg.HTTP.Addr)
			if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
				log.Fatal(err)
			}
			return
		}
		log.Printf("[INFO] listening on http://%s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
