package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/survey-api/internal/config"
	"github.com/yourusername/survey-api/internal/handler"
	"github.com/yourusername/survey-api/internal/middleware"
	pgRepo "github.com/yourusername/survey-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/survey-api/internal/repository/redis"
	"github.com/yourusername/survey-api/internal/service"
	"github.com/yourusername/survey-api/pkg/auth"
	"github.com/yourusername/survey-api/pkg/auth/manager"
	"github.com/yourusername/survey-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	adminRepo := pgRepo.NewAdminRepo(db)
	surveyRepo := pgRepo.NewSurveyRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)
	refreshTokenRepo := pgRepo.NewRefreshTokenRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// --- Инициализация JWTService и TokenManager ---
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	tokenManager, err := manager.NewTokenManager(jwtService, refreshTokenRepo, adminRepo)
	if err != nil {
		log.Printf("Failed to initialize TokenManager: %v", err)
		os.Exit(1)
	}
	tokenManager.SetRefreshTokenExpiry(time.Duration(cfg.Auth.RefreshTokenLifetime) * time.Hour)

	isProduction := gin.Mode() == gin.ReleaseMode

	// SameSite=None требует Secure=true, поэтому для локальной разработки
	// по HTTP остается Lax
	sameSitePolicy := http.SameSiteLaxMode
	if isProduction {
		sameSitePolicy = http.SameSiteNoneMode
	}
	tokenManager.SetCookieAttributes(
		"/",            // Path
		"",             // Domain
		isProduction,   // Secure (true для прода)
		true,           // HttpOnly
		sameSitePolicy, // Используем вычисленную политику
	)

	// Создаем контекст с отменой для корректного завершения работы горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем фоновую задачу для очистки истекших refresh-токенов
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Запуск механизма периодической очистки истекших refresh-токенов (каждый час)")

		for {
			select {
			case <-ticker.C:
				if removed, err := tokenManager.CleanupExpiredTokens(); err != nil {
					log.Printf("Ошибка при очистке токенов: %v", err)
				} else if removed > 0 {
					log.Printf("Удалено истекших refresh-токенов: %d", removed)
				}
			case <-ctx.Done():
				log.Println("Завершение работы горутины очистки токенов")
				return
			}
		}
	}()

	// Инициализируем сервисы
	authService, err := service.NewAuthService(adminRepo)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	surveyService := service.NewSurveyService(surveyRepo, answerRepo, cacheRepo)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, tokenManager)
	surveyHandler := handler.NewSurveyHandler(surveyService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenManager)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам.
		// При деплое за балансировщиком замените nil на его IP.
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Сессии администратора
		sessions := api.Group("/sessions")
		{
			sessions.POST("", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), authHandler.Login)
			sessions.POST("/refresh", authHandler.Refresh)

			authedSessions := sessions.Group("")
			authedSessions.Use(authMiddleware.RequireAuth())
			{
				authedSessions.GET("/current", authHandler.Current)
				authedSessions.DELETE("/current", authHandler.Logout)
			}
		}

		// Публичный список опросов
		api.GET("/surveys", surveyHandler.ListSurveys)

		// Опросы администратора с числом респондентов
		adminSurveys := api.Group("/admin-surveys/:id")
		adminSurveys.Use(authMiddleware.RequireAuth(), middleware.ExtractUintParam("id", "ownerID"))
		{
			adminSurveys.GET("", surveyHandler.ListAdminSurveys)
		}

		// Вопросы опроса и публикация
		surveys := api.Group("/survey")
		{
			surveyWithID := surveys.Group("/:id")
			surveyWithID.Use(middleware.ExtractUintParam("id", "surveyID"))
			{
				surveyWithID.GET("/questions", surveyHandler.GetQuestions)

				// Выгрузка откликов — только для владельца
				surveyWithID.GET("/export", authMiddleware.RequireAuth(), surveyHandler.ExportResponses)
			}

			surveys.POST("", authMiddleware.RequireAuth(), surveyHandler.CreateSurvey)
		}

		// Анонимные отклики
		answers := api.Group("/answer-survey")
		{
			answers.POST("", rateLimiter.Limit(middleware.SubmissionRateLimitConfig()), surveyHandler.SubmitAnswers)

			respondentPage := answers.Group("/:surveyId/:fromUserId/:direction")
			respondentPage.Use(
				authMiddleware.RequireAuth(),
				middleware.ExtractUintParam("surveyId", "surveyID"),
				middleware.ExtractIntParam("fromUserId", "fromUserID"),
			)
			{
				respondentPage.GET("", surveyHandler.GetRespondentAnswers)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// После получения сигнала SIGINT или SIGTERM вызываем cancel() для завершения горутин
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
