package api

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/stortfordearlybirds/membership-service/config"
	"github.com/stortfordearlybirds/membership-service/infra/queue"
	"github.com/stortfordearlybirds/membership-service/internal/api/rest/handlers"
	"github.com/stortfordearlybirds/membership-service/internal/clients/identity"
	"github.com/stortfordearlybirds/membership-service/internal/clients/resend"
	"github.com/stortfordearlybirds/membership-service/internal/domain"
	"github.com/stortfordearlybirds/membership-service/internal/helper"
	"github.com/stortfordearlybirds/membership-service/internal/repository"
	"github.com/stortfordearlybirds/membership-service/internal/services"
	"github.com/stortfordearlybirds/membership-service/internal/workers"
	"github.com/stortfordearlybirds/membership-service/pkg/cloudinary"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	// the mail key gates signup and login, so refuse to boot without it
	if cfg.ResendAPIKey == "" {
		log.Fatal("RESEND_API_KEY is not set")
	}

	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization, X-Client-Info, Apikey",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260222

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.MemberProfile{},
		&domain.Role{},
		&domain.MemberRole{},
		&domain.Photo{},
		&domain.AuditLog{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	seedRoles(db)

	// ---------- Infra ----------
	reconcileProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaReconcileTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	eventProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	idp := identity.New(cfg.IdentityBaseURL, cfg.IdentityServiceKey)
	resendClient := resend.New(cfg.ResendAPIKey)

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	profileRepo := repository.NewProfileRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	memberRoleRepo := repository.NewMemberRoleRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ---------- Services ----------
	mailSvc := services.NewMailService(resendClient, cfg.MailFromName, cfg.MailFrom, cfg.ClubInbox)
	signupSvc := services.NewSignupService(idp, profileRepo, roleRepo, memberRoleRepo, auditRepo, mailSvc, reconcileProducer, eventProducer)
	authSvc := services.NewAuthService(profileRepo, mailSvc, authHelper)
	memberSvc := services.NewMemberService(profileRepo, memberRoleRepo)
	gallerySvc := services.NewGalleryService(photoRepo, up)

	// ---------- Reconciliation worker ----------
	reconciler := workers.NewReconciler(idp, profileRepo, roleRepo, memberRoleRepo, auditRepo)
	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaReconcileTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		reconciler,
	)
	go consumer.Listen(context.Background())

	// ---------- Handlers ----------
	handlers.NewMembershipHandler(signupSvc).SetupRoutes(app)
	handlers.NewAuthHandler(authSvc).SetupRoutes(app)
	handlers.NewProfileHandler(memberSvc, authHelper).SetupRoutes(app)
	handlers.NewAdminHandler(memberSvc, authHelper).SetupRoutes(app)
	handlers.NewGalleryHandler(gallerySvc, memberSvc, authHelper).SetupRoutes(app)
	handlers.NewNotifyHandler(mailSvc).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

func seedRoles(db *gorm.DB) {
	codes := []string{domain.RoleMember, domain.RoleAdmin}

	for _, code := range codes {
		var r domain.Role
		err := db.Where("code = ?", code).First(&r).Error
		if err == gorm.ErrRecordNotFound {
			_ = db.Create(&domain.Role{
				Code: code,
				Name: code,
			}).Error
		}
	}
}
