package seeds

import (
	"errors"
	"fmt"

	"catalog-search-backend/config"
	"catalog-search-backend/db/models"
	searchmodels "catalog-search-backend/search/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedCatalogAPIs seeds a few published APIs for local development
func SeedCatalogAPIs(db *gorm.DB) error {
	config.Logger.Info("Starting catalog API seeding...")

	apis := []models.API{
		{
			Name:            "PetStore",
			Version:         "1.0.0",
			Provider:        "admin",
			ContextTemplate: "/petstore/{version}",
			Description:     "Sample pet store API for browsing and ordering pets",
			Status:          "PUBLISHED",
		},
		{
			Name:            "PizzaShack",
			Version:         "2.1.0",
			Provider:        "admin",
			ContextTemplate: "/pizzashack/{version}",
			Description:     "Order pizzas and track deliveries",
			Status:          "PUBLISHED",
		},
		{
			Name:            "Weather",
			Version:         "v3",
			Provider:        "metservice",
			ContextTemplate: "/weather",
			Description:     "Current conditions and forecasts by city",
			Status:          "PUBLISHED",
		},
	}

	createdCount := 0
	updatedCount := 0

	for _, api := range apis {
		var existingAPI models.API
		result := db.Where("name = ? AND version = ? AND provider = ?", api.Name, api.Version, api.Provider).First(&existingAPI)

		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				config.Logger.Error("Error checking for existing API",
					zap.String("name", api.Name),
					zap.Error(result.Error))
				return fmt.Errorf("error checking for API %s: %w", api.Name, result.Error)
			}
			if err := db.Create(&api).Error; err != nil {
				config.Logger.Error("Failed to create API", zap.String("name", api.Name), zap.Error(err))
				return fmt.Errorf("failed to create API %s: %w", api.Name, err)
			}
			createdCount++
			config.Logger.Info("Created API", zap.String("name", api.Name))
			continue
		}

		api.ID = existingAPI.ID
		if err := db.Model(&existingAPI).Updates(api).Error; err != nil {
			config.Logger.Error("Failed to update API", zap.String("name", api.Name), zap.Error(err))
			return fmt.Errorf("failed to update API %s: %w", api.Name, err)
		}
		updatedCount++
	}

	config.Logger.Info("Catalog API seeding completed",
		zap.Int("created", createdCount),
		zap.Int("updated", updatedCount))

	return nil
}

// SeedCatalogProducts seeds API products
func SeedCatalogProducts(db *gorm.DB) error {
	products := []models.APIProduct{
		{
			Name:            "Pets Bundle",
			Version:         "1.0.0",
			Provider:        "admin",
			ContextTemplate: "/pets-bundle/{version}",
			Description:     "Pet store and pizza ordering in one subscription",
		},
	}

	for _, product := range products {
		var existingProduct models.APIProduct
		err := db.Where("name = ? AND provider = ?", product.Name, product.Provider).First(&existingProduct).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("error checking for API product %s: %w", product.Name, err)
		}
		if err := db.Create(&product).Error; err != nil {
			config.Logger.Error("Failed to create API product", zap.String("name", product.Name), zap.Error(err))
			return fmt.Errorf("failed to create API product %s: %w", product.Name, err)
		}
		config.Logger.Info("Created API product", zap.String("name", product.Name))
	}
	return nil
}

type documentSeed struct {
	ownerAPI     string
	ownerProduct string
	doc          models.Documentation
}

// SeedCatalogDocumentation attaches documentation to the seeded APIs and products
func SeedCatalogDocumentation(db *gorm.DB) error {
	docs := []documentSeed{
		{
			ownerAPI: "PetStore",
			doc: models.Documentation{
				Name:       "Getting started with PetStore",
				Type:       string(searchmodels.DocTypeHowTo),
				Summary:    "Create an application, subscribe and make your first call",
				Visibility: string(searchmodels.VisibilityAPILevel),
				SourceType: string(searchmodels.SourceTypeMarkdown),
			},
		},
		{
			ownerAPI: "PetStore",
			doc: models.Documentation{
				Name:       "PetStore OpenAPI definition",
				Type:       string(searchmodels.DocTypeSwaggerDoc),
				Visibility: string(searchmodels.VisibilityAPILevel),
				SourceType: string(searchmodels.SourceTypeURL),
				SourceURL:  "https://petstore.swagger.io/v2/swagger.json",
			},
		},
		{
			ownerAPI: "Weather",
			doc: models.Documentation{
				Name:          "Rate limits",
				Type:          string(searchmodels.DocTypeOther),
				OtherTypeName: "Policy",
				Summary:       "Request quotas per subscription tier",
				Visibility:    string(searchmodels.VisibilityOwnerOnly),
				SourceType:    string(searchmodels.SourceTypeInline),
			},
		},
		{
			ownerProduct: "Pets Bundle",
			doc: models.Documentation{
				Name:       "Bundle samples",
				Type:       string(searchmodels.DocTypeSamples),
				Summary:    "Calling both bundled APIs with one token",
				Visibility: string(searchmodels.VisibilityPrivate),
				SourceType: string(searchmodels.SourceTypeInline),
			},
		},
	}

	for _, seed := range docs {
		doc := seed.doc
		switch {
		case seed.ownerAPI != "":
			var api models.API
			if err := db.Where("name = ?", seed.ownerAPI).First(&api).Error; err != nil {
				return fmt.Errorf("owner API %s not found for document %s: %w", seed.ownerAPI, doc.Name, err)
			}
			doc.APIID = &api.ID
		case seed.ownerProduct != "":
			var product models.APIProduct
			if err := db.Where("name = ?", seed.ownerProduct).First(&product).Error; err != nil {
				return fmt.Errorf("owner API product %s not found for document %s: %w", seed.ownerProduct, doc.Name, err)
			}
			doc.APIProductID = &product.ID
		}

		var existing models.Documentation
		err := db.Where("name = ?", doc.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("error checking for document %s: %w", doc.Name, err)
		}
		if err := db.Create(&doc).Error; err != nil {
			config.Logger.Error("Failed to create documentation", zap.String("name", doc.Name), zap.Error(err))
			return fmt.Errorf("failed to create document %s: %w", doc.Name, err)
		}
	}

	config.Logger.Info("Catalog documentation seeding completed", zap.Int("documents", len(docs)))
	return nil
}

func SeedCatalogAll(db *gorm.DB) error {
	config.Logger.Info("Starting catalog database seeding...")

	// Seed in order of dependencies
	if err := SeedCatalogAPIs(db); err != nil {
		return fmt.Errorf("failed to seed APIs: %w", err)
	}

	if err := SeedCatalogProducts(db); err != nil {
		return fmt.Errorf("failed to seed API products: %w", err)
	}

	if err := SeedCatalogDocumentation(db); err != nil {
		return fmt.Errorf("failed to seed documentation: %w", err)
	}

	config.Logger.Info("All catalog seeding completed successfully")
	return nil
}
