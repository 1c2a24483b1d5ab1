package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xpro/backend/internal/interfaces/http/router"
)

// AuthRoutes creates the route group for authentication endpoints
func AuthRoutes(auth *AuthHandler, user *UserHandler) *router.DomainGroup {
	group := router.NewDomainGroup("auth", "/auth")

	group.POST("/register", user.Register)
	group.POST("/login", auth.Login)
	group.POST("/refresh", auth.RefreshToken)
	group.POST("/logout", auth.Logout)
	group.PUT("/password", auth.ChangePassword)

	return group
}

// UserRoutes creates the route group for profile endpoints
func UserRoutes(user *UserHandler) *router.DomainGroup {
	group := router.NewDomainGroup("users", "/users")

	group.GET("/me", user.GetProfile)
	group.PUT("/me", user.UpdateProfile)
	group.PUT("/me/legal-address", user.UpdateLegalAddress)

	return group
}

// CatalogRoutes creates the public storefront catalog route group
func CatalogRoutes(program *ProgramHandler, course *CourseHandler, run *CourseRunHandler) *router.DomainGroup {
	group := router.NewDomainGroup("catalog", "/catalog")

	group.GET("/programs", program.ListLive)
	group.GET("/programs/:id", program.Get)
	group.GET("/courses", course.ListLive)
	group.GET("/courses/:id", course.Get)
	group.GET("/courses/:id/runs", run.ListByCourse)
	group.GET("/course-runs/:id", run.Get)
	group.GET("/course-page/:readable_id", course.CoursePage)
	group.GET("/topics", course.ListTopics)

	return group
}

// CommerceRoutes creates the route group for the retail purchase flow
func CommerceRoutes(basket *BasketHandler, checkout *CheckoutHandler, product *ProductHandler) *router.DomainGroup {
	group := router.NewDomainGroup("commerce", "")

	group.GET("/products", product.List)
	group.GET("/products/:id", product.Get)
	group.GET("/basket", basket.Get)
	group.PUT("/basket", basket.Update)
	group.POST("/checkout", checkout.Checkout)
	group.GET("/orders", checkout.ListOrders)
	group.GET("/orders/:id", checkout.GetOrder)

	return group
}

// PaymentCallbackRoutes creates the route group for gateway postbacks.
// These endpoints are hit by the payment gateway's servers, not by
// browsers, and must stay outside JWT authentication.
func PaymentCallbackRoutes(callback *PaymentCallbackHandler) *router.DomainGroup {
	group := router.NewDomainGroup("payment-callbacks", "")

	group.POST("/checkout/postback", callback.HandleRetailPostback)
	group.POST("/b2b/checkout/postback", callback.HandleB2BPostback)

	return group
}

// B2BRoutes creates the route group for bulk enrollment-code orders.
// Bulk purchasers do not need an account, so these are unauthenticated.
func B2BRoutes(b2b *B2BHandler) *router.DomainGroup {
	group := router.NewDomainGroup("b2b", "/b2b")

	group.POST("/checkout", b2b.Checkout)
	group.GET("/orders/:unique_id/status", b2b.Status)
	group.GET("/coupon-status", b2b.CouponStatus)

	return group
}

// EnrollmentRoutes creates the route group for learner enrollments
func EnrollmentRoutes(enrollment *EnrollmentHandler) *router.DomainGroup {
	group := router.NewDomainGroup("enrollments", "")

	group.GET("/enrollments", enrollment.ListMine)
	group.POST("/courseware/authorize/complete", enrollment.CompleteAuthorization)

	return group
}

// VoucherRoutes creates the route group for voucher endpoints
func VoucherRoutes(voucher *VoucherHandler) *router.DomainGroup {
	group := router.NewDomainGroup("vouchers", "/vouchers")

	group.POST("", voucher.Upload)
	group.GET("", voucher.List)
	group.GET("/:id", voucher.Get)
	group.POST("/:id/rematch", voucher.Rematch)
	group.GET("/:id/coupons", voucher.EligibleCoupons)
	group.POST("/:id/redeem", voucher.Redeem)

	return group
}

// AdminRoutes creates the staff-only route group covering catalog
// management, products, coupons, companies, enrollment management,
// refunds and integration triggers
func AdminRoutes(
	program *ProgramHandler,
	course *CourseHandler,
	run *CourseRunHandler,
	product *ProductHandler,
	company *CompanyHandler,
	coupon *CouponHandler,
	checkout *CheckoutHandler,
	enrollment *EnrollmentHandler,
	integration *IntegrationHandler,
	staffOnly gin.HandlerFunc,
) *router.DomainGroup {
	group := router.NewDomainGroup("admin", "/admin")
	group.Use(staffOnly)

	group.GET("/programs", program.List)
	group.POST("/programs", program.Create)
	group.PUT("/programs/:id", program.Update)
	group.DELETE("/programs/:id", program.Delete)

	group.GET("/courses", course.List)
	group.POST("/courses", course.Create)
	group.PUT("/courses/:id", course.Update)
	group.PUT("/courses/:id/marketing", course.UpdateMarketing)
	group.POST("/courses/:id/topics", course.AttachTopic)
	group.DELETE("/courses/:id", course.Delete)

	group.POST("/course-runs", run.Create)
	group.PUT("/course-runs/:id", run.Update)
	group.DELETE("/course-runs/:id", run.Delete)

	group.POST("/products", product.Create)
	group.POST("/products/:id/versions", product.AddVersion)
	group.PUT("/products/:id/visibility", product.SetVisibility)

	group.GET("/companies", company.List)
	group.POST("/companies", company.Create)
	group.GET("/companies/:id", company.Get)

	group.POST("/coupons", coupon.CreateBatch)
	group.GET("/coupons/:id/codes", coupon.ListCodes)
	group.DELETE("/coupons/:id", coupon.Deactivate)

	group.POST("/orders/:id/refund", checkout.Refund)

	group.POST("/enrollments/defer", enrollment.Defer)
	group.POST("/enrollments/deactivate", enrollment.Deactivate)

	group.POST("/integrations/vendor-sync", integration.TriggerVendorSync)
	group.POST("/integrations/crm/contacts", integration.TriggerContactSync)
	group.POST("/integrations/crm/products", integration.TriggerProductSync)
	group.POST("/integrations/crm/sweep", integration.SweepSyncErrors)

	return group
}

// SystemRoutes creates the route group for health and info endpoints
func SystemRoutes(system *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "")

	group.GET("/health", system.Health)
	group.GET("/system/info", system.GetSystemInfo)

	return group
}
