package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the REST API under /api/v1. Everything except login
// goes through auth.
func (h *BackOfficeHTTPHandler) RegisterRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", h.Login)
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(auth)
	{
		users := protected.Group("/users")
		{
			users.GET("", h.ListUsers)
			users.POST("", h.CreateUser)
			users.PUT("/:id", h.UpdateUser)
			users.PUT("/:id/branches", h.SetUserBranches)
		}

		branches := protected.Group("/branches")
		{
			branches.GET("", h.ListBranches)
			branches.POST("", h.CreateBranch)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", h.ListCustomers)
			customers.POST("", h.CreateCustomer)
			customers.GET("/export", h.ExportCustomers)
			customers.GET("/:id", h.GetCustomer)
			customers.PUT("/:id", h.UpdateCustomer)
			customers.DELETE("/:id", h.DeleteCustomer)
			customers.POST("/:id/payments", h.RecordPayment)
			customers.GET("/:id/ledger", h.GetCustomerLedger)
		}

		suppliers := protected.Group("/suppliers")
		{
			suppliers.GET("", h.ListSuppliers)
			suppliers.POST("", h.CreateSupplier)
			suppliers.GET("/:id", h.GetSupplier)
			suppliers.PUT("/:id", h.UpdateSupplier)
			suppliers.DELETE("/:id", h.DeleteSupplier)
		}

		products := protected.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.POST("", h.CreateProduct)
		}

		purchases := protected.Group("/purchases")
		{
			purchases.GET("", h.ListPurchases)
			purchases.POST("", h.CreatePurchase)
			purchases.GET("/:id", h.GetPurchase)
		}

		quotations := protected.Group("/quotations")
		{
			quotations.GET("", h.ListQuotations)
			quotations.POST("", h.CreateQuotation)
			quotations.GET("/:id", h.GetQuotation)
			quotations.POST("/:id/convert", h.ConvertQuotation)
			quotations.POST("/:id/void", h.VoidQuotation)
			quotations.GET("/:id/print", h.PrintQuotation)
		}
	}
}
