package routes

import (
	"log"

	"thuetro/controllers"
	middlewares "thuetro/middleware"
	"thuetro/services"
	"thuetro/services/logger"
	"thuetro/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/redis/go-redis/v9"

	"gorm.io/gorm"
)

// SetupRoutes dựng toàn bộ service graph và gắn route; trả về
// AgreementService để cron job quét hợp đồng hết hạn dùng chung.
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, m *melody.Melody) *services.AgreementService {

	appLogger := logger.NewDefaultLogger(logger.InfoLevel)

	bundleStore := services.NewGormBundleStore(db)
	policyStore := services.NewGormPolicyStore(db)
	snapshotStore := services.NewGormSnapshotStore(db)
	agreementStore := services.NewGormAgreementStore(db)
	unitStore := services.NewGormUnitStore(db)

	geo, err := services.LoadGeoNormalizer(db)
	if err != nil {
		log.Printf("Warning: không load được dữ liệu tỉnh/thành, bỏ qua chuẩn hoá địa lý: %v", err)
		geo = nil
	}

	bundleService := services.NewBundleService(services.BundleServiceOptions{
		Store:  bundleStore,
		Cache:  services.NewRedisBundleCache(redisCli),
		Logger: appLogger,
	})
	policyService := services.NewPolicyService(services.PolicyServiceOptions{
		Store:   policyStore,
		Bundles: bundleService,
		Geo:     geo,
		Logger:  appLogger,
	})
	pricingService := services.NewPricingService(services.PricingServiceOptions{
		Snapshots: snapshotStore,
		Policies:  policyService,
		Logger:    appLogger,
	})
	agreementService := services.NewAgreementService(services.AgreementServiceOptions{
		Agreements: agreementStore,
		Units:      unitStore,
		Pricing:    pricingService,
		Events:     notification.NewMelodyEventSink(m),
		Logger:     appLogger,
	})

	bundleController := controllers.NewBundleController(bundleService)
	policyController := controllers.NewPolicyController(policyService)
	pricingController := controllers.NewPricingController(pricingService, unitStore)
	agreementController := controllers.NewAgreementController(agreementService)
	unitController := controllers.NewUnitController(unitStore, geo)

	router.Use(middlewares.SessionMiddleware())

	v1 := router.Group("/api/v1")

	v1.GET("/bundles", bundleController.GetBundles)
	v1.POST("/bundles", middlewares.AuthMiddleware(1), bundleController.CreateBundle)
	v1.GET("/bundles/active", bundleController.GetActiveBundle)
	v1.PUT("/bundles/:id/activate", middlewares.AuthMiddleware(1), bundleController.ActivateBundle)
	v1.PUT("/bundles/:id/rollback", middlewares.AuthMiddleware(1), bundleController.RollbackBundle)

	v1.GET("/policies", policyController.GetPolicies)
	v1.POST("/policies", middlewares.AuthMiddleware(1, 2), policyController.CreatePolicy)
	v1.GET("/policies/candidates", policyController.FindPolicyCandidates)
	v1.GET("/policies/:id", policyController.GetPolicyDetail)
	v1.PUT("/policies/:id", middlewares.AuthMiddleware(1, 2), policyController.UpdatePolicy)
	v1.PUT("/policies/:id/status", middlewares.AuthMiddleware(1), policyController.ChangePolicyStatus)
	v1.DELETE("/policies/:id", middlewares.AuthMiddleware(1), policyController.DeletePolicy)

	v1.GET("/pricing/resolve", pricingController.ResolvePolicy)
	v1.POST("/snapshots", middlewares.AuthMiddleware(1, 2), pricingController.BindSnapshot)
	v1.GET("/snapshots/:id", pricingController.GetSnapshot)
	v1.GET("/snapshots/:id/effective", pricingController.GetEffectivePrice)
	v1.PUT("/snapshots/:id/override", middlewares.AuthMiddleware(1, 2), pricingController.OverrideSnapshot)
	v1.DELETE("/snapshots/:id/override", middlewares.AuthMiddleware(1, 2), pricingController.ClearSnapshotOverride)

	v1.GET("/units", unitController.GetUnits)
	v1.POST("/units", middlewares.AuthMiddleware(1, 2), unitController.CreateUnit)
	v1.GET("/units/:id", unitController.GetUnitDetail)

	v1.GET("/agreements", middlewares.AuthMiddleware(1, 2), agreementController.GetAgreements)
	v1.POST("/agreements", middlewares.AuthMiddleware(1, 2), agreementController.CreateAgreement)
	v1.GET("/agreements/:id", agreementController.GetAgreementDetail)
	v1.PUT("/agreements/:id/send", middlewares.AuthMiddleware(1, 2), agreementController.SendAgreement)
	v1.PUT("/agreements/:id/confirm", middlewares.AuthMiddleware(0), agreementController.ConfirmAgreement)
	v1.PUT("/agreements/:id/reject", middlewares.AuthMiddleware(0), agreementController.RejectAgreement)
	v1.PUT("/agreements/:id/activate", middlewares.AuthMiddleware(1, 2), agreementController.ActivateAgreement)
	v1.PUT("/agreements/:id/terminate", middlewares.AuthMiddleware(1, 2), agreementController.TerminateAgreement)
	v1.POST("/agreements/:id/renew", middlewares.AuthMiddleware(1, 2), agreementController.RenewAgreement)
	v1.DELETE("/agreements/:id", middlewares.AuthMiddleware(1, 2), agreementController.DeleteAgreement)
	v1.POST("/agreements/expire", middlewares.AuthMiddleware(1), agreementController.ExpireAgreements)

	//ws
	v1.GET("/test-broadcast", func(c *gin.Context) {
		message := []byte("Thông báo từ backend: Tin nhắn mới!")
		m.Broadcast(message)
		c.String(200, "Broadcast message sent!")
	})

	return agreementService
}
