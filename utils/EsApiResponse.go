package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// maxErrorBody caps how much of an error response ends up in logs
const maxErrorBody = 2048

func ReadResponseBody(response *esapi.Response) (string, error) {
	if response.Body == nil {
		return "", fmt.Errorf("response body is nil")
	}

	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(body)), nil
}

// EsResponseError turns a failed Elasticsearch response into an error carrying its status and body
func EsResponseError(operation string, response *esapi.Response) error {
	body, err := ReadResponseBody(response)
	if err != nil || body == "" {
		return fmt.Errorf("elasticsearch %s failed: %s", operation, response.Status())
	}
	return fmt.Errorf("elasticsearch %s failed: %s: %s", operation, response.Status(), body)
}
