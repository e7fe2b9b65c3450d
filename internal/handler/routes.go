package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, transactionHandler *TransactionHandler, importHandler *ImportHandler, receiptHandler *ReceiptHandler, analyticsHandler *AnalyticsHandler, imageHandler *ImageHandler, settingsHandler *SettingsHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/bulk/delete", transactionHandler.BulkDelete)
	transactions.POST("/bulk/category", transactionHandler.BulkSetCategory)
	transactions.POST("/bulk/recurring", transactionHandler.BulkSetRecurring)
	transactions.POST("/:id/expand", transactionHandler.ExpandRecurring)

	// CSV import routes
	api.POST("/import/preview", importHandler.PreviewImport)
	api.POST("/import", importHandler.Import)

	// Receipt OCR text routes
	receipts := api.Group("/receipts")
	receipts.POST("/parse", receiptHandler.ParseReceipt)
	receipts.POST("/extract-line", receiptHandler.ExtractLine)

	// Analytics routes
	analyticsGroup := api.Group("/analytics")
	analyticsGroup.GET("/categories", analyticsHandler.GetCategoryTotals)
	analyticsGroup.GET("/recurring", analyticsHandler.GetRecurringSummary)
	analyticsGroup.GET("/projection", analyticsHandler.GetProjection)
	analyticsGroup.GET("/flow", analyticsHandler.GetFlowGraph)

	// Receipt image routes
	images := api.Group("/images")
	images.POST("", imageHandler.UploadImage)
	images.GET("/:id", imageHandler.GetImage)
	images.DELETE("/:id", imageHandler.DeleteImage)
	images.POST("/cleanup", imageHandler.CleanupImages)

	// Settings routes
	settings := api.Group("/settings")
	settings.GET("/salary", settingsHandler.GetMonthlySalary)
	settings.PUT("/salary", settingsHandler.SetMonthlySalary)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.HandleWS)
}
