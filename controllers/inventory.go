package controllers

import (
	"net/http"

	"barberpro-backend/models"
	"barberpro-backend/services"
	"barberpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryController struct {
	Inventory *services.InventoryLedger
}

type CreateProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
	MinStock    int             `json:"minStock" binding:"min=0"`
	CategoryID  *uuid.UUID      `json:"categoryId"`
}

type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CostPrice   *decimal.Decimal `json:"costPrice"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *int             `json:"minStock"`
	CategoryID  *uuid.UUID       `json:"categoryId"`
}

type StockTransactionInput struct {
	Type     models.StockTransactionType `json:"type" binding:"required"`
	Quantity int                         `json:"quantity" binding:"required"`
	Reason   string                      `json:"reason"`
}

type CreateCategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateProduct adds a product to the inventory
func (ic *InventoryController) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	product, err := ic.Inventory.AddProduct(c.Request.Context(), services.AddProductInput{
		Name:        input.Name,
		Description: input.Description,
		CostPrice:   input.CostPrice,
		Price:       input.Price,
		Stock:       input.Stock,
		MinStock:    input.MinStock,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProducts lists all products
func (ic *InventoryController) GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, ic.Inventory.ListProducts(c.Request.Context()))
}

// GetProduct returns a product with its transactions
func (ic *InventoryController) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	product, err := ic.Inventory.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct edits product details
func (ic *InventoryController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	product, err := ic.Inventory.UpdateProduct(c.Request.Context(), id, services.UpdateProductInput{
		Name:        input.Name,
		Description: input.Description,
		CostPrice:   input.CostPrice,
		Price:       input.Price,
		MinStock:    input.MinStock,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product
func (ic *InventoryController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ic.Inventory.DeleteProduct(c.Request.Context(), id); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// PostTransaction records a stock movement
func (ic *InventoryController) PostTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input StockTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	product, err := ic.Inventory.ApplyTransaction(c.Request.Context(), id, input.Type, input.Quantity, input.Reason)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetLowStock lists products at or below their minimum
func (ic *InventoryController) GetLowStock(c *gin.Context) {
	c.JSON(http.StatusOK, ic.Inventory.LowStock(c.Request.Context()))
}

// GetSummary returns the inventory totals
func (ic *InventoryController) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, ic.Inventory.Summary(c.Request.Context()))
}

// GetCategories lists product categories
func (ic *InventoryController) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, ic.Inventory.ListCategories(c.Request.Context()))
}

// CreateCategory adds a product category
func (ic *InventoryController) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	category, err := ic.Inventory.AddCategory(c.Request.Context(), input.Name)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory removes an unused category
func (ic *InventoryController) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ic.Inventory.DeleteCategory(c.Request.Context(), id); err != nil {
		respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
