package models

import (
	"fmt"

	dbmodels "catalog-search-backend/db/models"
)

// EntityKind tells which catalog table an index hit points to
type EntityKind string

const (
	EntityKindAPI        EntityKind = "api"
	EntityKindAPIProduct EntityKind = "api_product"
	EntityKindDocument   EntityKind = "document"
)

func ParseEntityKind(value string) (EntityKind, error) {
	switch EntityKind(value) {
	case EntityKindAPI, EntityKindAPIProduct, EntityKindDocument:
		return EntityKind(value), nil
	}
	return "", fmt.Errorf("unknown entity kind %q", value)
}

// CatalogHit is one ranked match returned by a catalog index
type CatalogHit struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// CatalogDocument is the flattened record stored in a catalog index for every entity
type CatalogDocument struct {
	ID          string     `json:"id"`
	Kind        EntityKind `json:"kind"`
	Name        string     `json:"name"`
	Version     string     `json:"version,omitempty"`
	Provider    string     `json:"provider,omitempty"`
	Context     string     `json:"context,omitempty"`
	Description string     `json:"description,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	OwnerID     string     `json:"owner_id,omitempty"`
}

func NewAPICatalogDocument(api dbmodels.API) CatalogDocument {
	return CatalogDocument{
		ID:          api.ID.String(),
		Kind:        EntityKindAPI,
		Name:        api.Name,
		Version:     api.Version,
		Provider:    api.Provider,
		Context:     api.ContextTemplate,
		Description: api.Description,
	}
}

func NewAPIProductCatalogDocument(product dbmodels.APIProduct) CatalogDocument {
	return CatalogDocument{
		ID:          product.ID.String(),
		Kind:        EntityKindAPIProduct,
		Name:        product.Name,
		Version:     product.Version,
		Provider:    product.Provider,
		Context:     product.ContextTemplate,
		Description: product.Description,
	}
}

func NewDocumentationCatalogDocument(doc dbmodels.Documentation) CatalogDocument {
	record := CatalogDocument{
		ID:      doc.ID.String(),
		Kind:    EntityKindDocument,
		Name:    doc.Name,
		Summary: doc.Summary,
	}
	switch {
	case doc.APIID != nil:
		record.OwnerID = doc.APIID.String()
	case doc.APIProductID != nil:
		record.OwnerID = doc.APIProductID.String()
	}
	return record
}
