// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tonearm/tonearm-backend/internal/config"
	"github.com/tonearm/tonearm-backend/internal/handlers"
	"github.com/tonearm/tonearm-backend/internal/middleware"
	"github.com/tonearm/tonearm-backend/internal/services"
)

func Setup(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Services
	settingsService := services.NewSettingsService(db, cfg)
	feeService := services.NewFeeService(settingsService)
	salesService := services.NewSalesService(db)
	supporterService := services.NewSupporterService(db, salesService)
	notificationService := services.NewNotificationService(db, cfg)
	paymentService := services.NewPaymentService(db, cfg, feeService)
	pledgeService := services.NewPledgeService(db, cfg, paymentService, notificationService)
	catalogService := services.NewCatalogService(db)
	authService := services.NewAuthService(db, cfg, notificationService)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, storageService)
	salesHandler := handlers.NewSalesHandler(salesService)
	supporterHandler := handlers.NewSupporterHandler(supporterService)
	fundraiserHandler := handlers.NewFundraiserHandler(pledgeService)
	checkoutHandler := handlers.NewCheckoutHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(settingsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Public storefront
		v1.GET("/artists/:id", catalogHandler.GetArtist)
		v1.GET("/artists/:id/supporters", supporterHandler.ArtistSupporters)
		v1.GET("/trackGroups/:id", catalogHandler.GetTrackGroup)
		v1.GET("/trackGroups/:id/supporters", supporterHandler.TrackGroupSupporters)
		v1.GET("/fundraisers/:id", fundraiserHandler.GetFundraiser)
		v1.GET("/fundraisers/:id/pledges", fundraiserHandler.ListPledges)

		// Fan actions
		fan := v1.Group("")
		fan.Use(middleware.AuthRequired())
		{
			fan.POST("/fundraisers/:id/pledges", fundraiserHandler.CreatePledge)
			fan.POST("/pledges/:id/cancel", fundraiserHandler.CancelPledge)

			checkout := fan.Group("/checkout")
			checkout.Use(middleware.CheckoutRateLimit())
			{
				checkout.POST("/intent", checkoutHandler.CreateIntent)
				checkout.POST("/confirm", checkoutHandler.Confirm)
			}
		}

		// Confirmation callbacks arrive without a session
		v1.POST("/pledges/confirm", middleware.CheckoutRateLimit(), fundraiserHandler.ConfirmPledge)

		// Artist management
		manage := v1.Group("/manage")
		manage.Use(middleware.AuthRequired())
		{
			manage.GET("/sales", salesHandler.ListSales)

			manage.POST("/artists", catalogHandler.CreateArtist)
			manage.GET("/artists", catalogHandler.MyArtists)
			manage.PUT("/artists/:id", catalogHandler.UpdateArtist)
			manage.POST("/artists/:id/trackGroups", catalogHandler.CreateTrackGroup)
			manage.POST("/artists/:id/merch", catalogHandler.CreateMerch)
			manage.POST("/artists/:id/subscriptionTiers", catalogHandler.CreateSubscriptionTier)
			manage.POST("/artists/:id/tipTiers", catalogHandler.CreateTipTier)
			manage.POST("/artists/:id/fundraisers", fundraiserHandler.CreateFundraiser)

			manage.POST("/trackGroups/:id/publish", catalogHandler.PublishTrackGroup)
			manage.POST("/trackGroups/:id/tracks", catalogHandler.AddTrack)
			manage.POST("/trackGroups/:id/cover", middleware.UploadRateLimit(), catalogHandler.UploadCover)

			manage.POST("/fundraisers/:id/cancel", fundraiserHandler.CancelFundraiser)
		}

		// Instance administration
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSettings)
		}
	}

	return r, nil
}
