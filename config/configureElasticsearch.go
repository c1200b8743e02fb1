package config

import (
	"context"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
)

// InitElasticsearch initializes the Elasticsearch client used as the external catalog index
func InitElasticsearch(ctx context.Context) *elasticsearch.Client {
	cfg := elasticsearch.Config{
		Addresses: []string{
			GetEnv("ELASTICSEARCH_ADDRESS"),
		},
		Username: GetEnv("ELASTICSEARCH_USERNAME"),
		Password: GetEnv("ELASTICSEARCH_PASSWORD"),
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Fatalf("Error initializing Elasticsearch: %s", err)
	}

	// Test the connection using the Info API
	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		log.Fatalf("Error connecting to Elasticsearch: %s", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Fatalf("Elasticsearch info request failed: %s", res.Status())
	}

	Logger.Info("Elasticsearch is up and running")
	return client
}
