package services

import (
	"fmt"
	"strings"

	dbmodels "catalog-search-backend/db/models"
	"catalog-search-backend/search/models"
)

// APIVersionParam is the context template placeholder substituted with the API version
const APIVersionParam = "{version}"

// NormalizeContext strips every trailing "/{version}" segment from a context template
func NormalizeContext(contextTemplate string) string {
	suffix := "/" + APIVersionParam
	for strings.HasSuffix(contextTemplate, suffix) {
		contextTemplate = strings.TrimSuffix(contextTemplate, suffix)
	}
	return contextTemplate
}

// ProjectAPI builds the search result representation of an API
func ProjectAPI(api dbmodels.API) *models.APISearchResult {
	return &models.APISearchResult{
		ID:           api.ID.String(),
		Name:         api.Name,
		Type:         models.ResultTypeAPI,
		Version:      api.Version,
		Provider:     api.Provider,
		Context:      NormalizeContext(api.ContextTemplate),
		Description:  api.Description,
		Status:       api.Status,
		ThumbnailURI: api.ThumbnailURL,
	}
}

// ProjectAPIProduct builds the search result representation of an API product
func ProjectAPIProduct(product dbmodels.APIProduct) *models.APIProductSearchResult {
	return &models.APIProductSearchResult{
		ID:           product.ID.String(),
		Name:         product.Name,
		Type:         models.ResultTypeAPIProduct,
		Provider:     product.Provider,
		Context:      NormalizeContext(product.ContextTemplate),
		Description:  product.Description,
		ThumbnailURI: product.ThumbnailURL,
	}
}

// ProjectDocument builds the search result of a document owned by an API
func ProjectDocument(doc dbmodels.Documentation, owner *dbmodels.API) (*models.DocumentSearchResult, error) {
	if owner == nil {
		return nil, fmt.Errorf("%w: document %s has no API", ErrMissingOwner, doc.ID)
	}

	result, err := projectDocumentFields(doc)
	if err != nil {
		return nil, err
	}
	result.AssociatedType = models.AssociatedTypeAPI
	result.APIName = owner.Name
	result.APIVersion = owner.Version
	result.APIProvider = owner.Provider
	result.APIID = owner.ID.String()
	return result, nil
}

// ProjectProductDocument builds the search result of a document owned by an API product
func ProjectProductDocument(doc dbmodels.Documentation, owner *dbmodels.APIProduct) (*models.DocumentSearchResult, error) {
	if owner == nil {
		return nil, fmt.Errorf("%w: document %s has no API product", ErrMissingOwner, doc.ID)
	}

	result, err := projectDocumentFields(doc)
	if err != nil {
		return nil, err
	}
	result.AssociatedType = models.AssociatedTypeAPIProduct
	result.APIName = owner.Name
	result.APIVersion = owner.Version
	result.APIProvider = owner.Provider
	result.APIID = owner.ID.String()
	return result, nil
}

func projectDocumentFields(doc dbmodels.Documentation) (*models.DocumentSearchResult, error) {
	docType, err := models.ParseDocType(doc.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: document %s: %v", ErrInvalidEnumValue, doc.ID, err)
	}
	visibility, err := models.ParseVisibility(doc.Visibility)
	if err != nil {
		return nil, fmt.Errorf("%w: document %s: %v", ErrInvalidEnumValue, doc.ID, err)
	}
	sourceType, err := models.ParseSourceType(doc.SourceType)
	if err != nil {
		return nil, fmt.Errorf("%w: document %s: %v", ErrInvalidEnumValue, doc.ID, err)
	}

	return &models.DocumentSearchResult{
		ID:            doc.ID.String(),
		Name:          doc.Name,
		Type:          models.ResultTypeDocument,
		DocType:       docType,
		Summary:       doc.Summary,
		Visibility:    visibility,
		SourceType:    sourceType,
		OtherTypeName: doc.OtherTypeName,
	}, nil
}
