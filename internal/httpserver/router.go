package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/campus_cafeteria/internal/middleware/csrf"
	middleware "github.com/Skotchmaster/campus_cafeteria/pkg/middleware/auth"
)

const ManagerLoginPath = "/managers/login"

type Deps struct {
	Shop         *ShopHTTP
	Payments     *PaymentHTTP
	SMS          *SMSHTTP
	Transactions *TransactionHTTP
	Dashboard    *DashboardHTTP
	Managers     *ManagerHTTP

	JWTSecret     []byte
	RefreshSecret []byte
	CSRF          csrf.Config

	// Ready reports whether the service can take traffic.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.RefreshSecret, ManagerLoginPath)

	shop := e.Group("/shop")
	shop.POST("/register", d.Shop.Register)
	shop.POST("/login", d.Shop.Login)
	shop.POST("/logout", d.Shop.Logout)
	shop.POST("/forgot-password", d.Shop.ForgotPassword)
	shop.POST("/security-questions", d.Shop.SecurityQuestions)
	shop.POST("/reset-password", d.Shop.ResetPassword)
	shop.GET("/api/search", d.Shop.Search)
	shop.POST("/api/save-order", d.Shop.SaveOrder, authMW.OptionalAuth)
	shop.GET("/api/get-order-history", d.Shop.OrderHistory, authMW.RequireAuth)

	pay := e.Group("/managepayments", authMW.OptionalAuth)
	pay.POST("/process-payment", d.Payments.ProcessPayment)
	pay.GET("/mock-razorpay", d.Payments.MockGateway)
	pay.GET("/upi-payment", d.Payments.UPIPayment)
	pay.GET("/payment-callback", d.Payments.Callback)
	pay.POST("/process-upi-payment", d.Payments.ProcessUPI)
	pay.GET("/confirmation", d.Payments.Confirmation)
	pay.GET("/download-receipt", d.Payments.DownloadReceipt)
	pay.POST("/api/update-inventory", d.Payments.UpdateInventory)

	smsGroup := e.Group("/sms-parsing")
	smsGroup.POST("/webhook", d.SMS.Webhook)
	smsGroup.POST("/test", d.SMS.Test)

	tx := e.Group("/transactions", authMW.RequireManager)
	tx.GET("/api/list", d.Transactions.List)
	tx.GET("/api/details/:order_id", d.Transactions.Detail)
	tx.POST("/api/update-status/:order_id", d.Transactions.UpdateStatus)
	tx.GET("/api/export", d.Transactions.Export)
	tx.GET("/delivery-view", d.Transactions.DeliveryView)

	e.GET("/dashboard/api/public-items", d.Dashboard.PublicItems)
	dash := e.Group("/dashboard/api/items", authMW.RequireManager, csrf.Middleware(d.CSRF))
	dash.GET("", d.Dashboard.Items)
	dash.POST("/add", d.Dashboard.AddItem)
	dash.PUT("/:id/update", d.Dashboard.UpdateItem)
	dash.DELETE("/:id/delete", d.Dashboard.DeleteItem)

	managers := e.Group("/managers")
	managers.POST("/login", d.Managers.Login)
	managers.POST("/logout", d.Managers.Logout)
}
