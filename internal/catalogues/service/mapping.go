package service

import (
	"cardshare_backend/internal/catalogues/repository"
	"cardshare_backend/internal/catalogues/transport"
)

func toCatalogueResponse(c repository.Catalogue) transport.CatalogueResponse {
	products := make([]transport.ProductResponse, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, toProductResponse(p))
	}
	return transport.CatalogueResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		QRCodeURL:   c.QRCodeURL,
		Products:    products,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toProductResponse(p repository.Product) transport.ProductResponse {
	return transport.ProductResponse{
		ID:          p.ID,
		CatalogueID: p.CatalogueID,
		Name:        p.Name,
		Description: p.Description,
		FileURL:     p.FileURL,
		Image:       p.Image,
		Order:       p.Position,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
