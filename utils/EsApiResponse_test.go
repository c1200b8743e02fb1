package utils

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadResponseBody(t *testing.T) {
	res := &esapi.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(" {\"acknowledged\":true}\n"))}

	body, err := ReadResponseBody(res)
	require.NoError(t, err)
	assert.Equal(t, `{"acknowledged":true}`, body)

	_, err = ReadResponseBody(&esapi.Response{StatusCode: http.StatusOK})
	assert.Error(t, err)
}

func TestEsResponseError(t *testing.T) {
	res := &esapi.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(strings.NewReader(`{"error":"parsing_exception"}`)),
	}
	err := EsResponseError("search", res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elasticsearch search failed: 400 Bad Request")
	assert.Contains(t, err.Error(), "parsing_exception")

	err = EsResponseError("bulk", &esapi.Response{StatusCode: http.StatusInternalServerError})
	assert.EqualError(t, err, "elasticsearch bulk failed: 500 Internal Server Error")
}
