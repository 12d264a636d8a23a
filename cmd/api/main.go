package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/aula-dev/aula-api/api/swagger"
	"github.com/aula-dev/aula-api/internal/academic"
	"github.com/aula-dev/aula-api/internal/handler"
	"github.com/aula-dev/aula-api/internal/repository"
	"github.com/aula-dev/aula-api/internal/service"
	"github.com/aula-dev/aula-api/pkg/cache"
	"github.com/aula-dev/aula-api/pkg/config"
	"github.com/aula-dev/aula-api/pkg/database"
	"github.com/aula-dev/aula-api/pkg/genai"
	"github.com/aula-dev/aula-api/pkg/jobs"
	"github.com/aula-dev/aula-api/pkg/logger"
	corsmiddleware "github.com/aula-dev/aula-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aula-dev/aula-api/pkg/middleware/requestid"
)

// @title Aula API
// @version 1.0.0
// @description Classroom management backend: rosters, QR attendance, weighted grading and class planning
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	semesterStart, err := academic.ParseDate(cfg.Calendar.SemesterStart)
	if err != nil {
		logr.Sugar().Fatalw("invalid SEMESTER_START", "error", err)
	}
	calendar := academic.DefaultCalendar()

	var cacheRepo *repository.CacheRepository
	cacheEnabled := cfg.Reports.CacheEnabled
	if cacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report cache disabled", zap.Error(err))
			cacheEnabled = false
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	criterionRepo := repository.NewCriterionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	plannerRepo := repository.NewPlannerRepository(db)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var generator service.TopicGenerator
	if cfg.Syllabus.Enabled {
		generator = genai.NewClient(cfg.Syllabus)
	}

	authSvc := service.NewAuthService(cfg.Auth, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	criterionSvc := service.NewCriterionService(criterionRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, criterionRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, assignmentRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, metricsSvc, validate, logr)
	participationSvc := service.NewParticipationService(participationRepo, validate, logr)
	plannerSvc := service.NewPlannerService(plannerRepo, subjectRepo, generator, calendar, semesterStart, validate, logr)
	reportSvc := service.NewReportService(
		subjectRepo,
		studentRepo,
		criterionRepo,
		assignmentRepo,
		gradeRepo,
		attendanceRepo,
		participationRepo,
		cacheRepo,
		calendar,
		service.ReportOptions{
			CacheEnabled:     cacheEnabled,
			CacheTTL:         cfg.Reports.CacheTTL,
			SemesterStart:    semesterStart,
			DropEmptyWeights: cfg.Reports.DropEmptyWeights,
		},
		metricsSvc,
		logr,
	)

	if cacheEnabled {
		warmer := jobs.NewWarmer(func(ctx context.Context, task jobs.Task) error {
			_, err := reportSvc.SubjectReport(ctx, task.SubjectID, academic.PeriodKeyFinal)
			return err
		}, jobs.Config{Workers: 1, Logger: logr})
		warmer.Start(context.Background())
		defer warmer.Stop()
		reportSvc.SetWarmFunc(func(subjectID string) {
			if err := warmer.Enqueue(subjectID); err != nil {
				logr.Warn("report warm-up enqueue failed", zap.Error(err))
			}
		})
	}

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Subject:       handler.NewSubjectHandler(subjectSvc, reportSvc),
		Student:       handler.NewStudentHandler(studentSvc, reportSvc),
		Criterion:     handler.NewCriterionHandler(criterionSvc, reportSvc),
		Assignment:    handler.NewAssignmentHandler(assignmentSvc, reportSvc),
		Grade:         handler.NewGradeHandler(gradeSvc, reportSvc),
		Attendance:    handler.NewAttendanceHandler(attendanceSvc, reportSvc),
		Participation: handler.NewParticipationHandler(participationSvc, reportSvc),
		Planner:       handler.NewPlannerHandler(plannerSvc),
		Report:        handler.NewReportHandler(reportSvc),
		Calendar:      handler.NewCalendarHandler(calendar, semesterStart),
		Metrics:       handler.NewMetricsHandler(metricsSvc),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, metricsSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
