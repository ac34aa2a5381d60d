package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-portfolio-api/models"
	"stock-portfolio-api/store"
)

type PortfolioInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Owner       string `json:"owner" binding:"required,max=50"`
}

type PortfolioUpdateInput struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Owner       *string `json:"owner" binding:"omitempty,max=50"`
	IsActive    *bool   `json:"is_active"`
}

func (a *API) CreatePortfolio(c *gin.Context) {
	var input PortfolioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := models.Portfolio{
		Name:        input.Name,
		Description: input.Description,
		Owner:       input.Owner,
		IsActive:    true,
	}
	if err := store.NewPortfolios(a.DB).Create(&p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (a *API) GetPortfolios(c *gin.Context) {
	ps := store.NewPortfolios(a.DB)
	if owner := c.Query("owner"); owner != "" {
		list, err := ps.ByOwner(owner)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}
	list, err := ps.All()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetPortfolio returns the portfolio with its current holdings and totals.
func (a *API) GetPortfolio(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := store.NewPortfolios(a.DB).GetWithHoldings(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *API) UpdatePortfolio(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input PortfolioUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ps := store.NewPortfolios(a.DB)
	p, err := ps.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Owner != nil {
		p.Owner = *input.Owner
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	if err := ps.Save(p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *API) DeletePortfolio(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ps := store.NewPortfolios(a.DB)
	p, err := ps.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := ps.Delete(p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Portfolio deleted successfully"})
}

func (a *API) GetPortfolioHoldings(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := store.NewPortfolios(a.DB).Get(id); err != nil {
		writeError(c, err)
		return
	}
	hs, err := store.NewHoldings(a.DB).ByPortfolio(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hs)
}

// GetHolding returns the derived position for one (portfolio, stock) pair,
// 404 when there is no open position.
func (a *API) GetHolding(c *gin.Context) {
	portfolioID, ok := paramID(c, "portfolioId")
	if !ok {
		return
	}
	stockID, ok := paramID(c, "stockId")
	if !ok {
		return
	}
	h, err := store.NewHoldings(a.DB).Get(portfolioID, stockID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}
