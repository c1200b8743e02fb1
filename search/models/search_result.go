// models/search_result.go
package models

// SearchResult is one entry of a search response. The set of implementations
// is closed: APISearchResult, APIProductSearchResult and DocumentSearchResult.
type SearchResult interface {
	ResultType() ResultType
	isSearchResult()
}

type APISearchResult struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         ResultType `json:"type"`
	Version      string     `json:"version"`
	Provider     string     `json:"provider"`
	Context      string     `json:"context"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	ThumbnailURI string     `json:"thumbnail_uri"`
}

type APIProductSearchResult struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         ResultType `json:"type"`
	Provider     string     `json:"provider"`
	Context      string     `json:"context"`
	Description  string     `json:"description"`
	ThumbnailURI string     `json:"thumbnail_uri"`
}

// DocumentSearchResult carries a snapshot of the owning API or API product,
// since a document is only navigable through its owner.
type DocumentSearchResult struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           ResultType     `json:"type"`
	DocType        DocType        `json:"doc_type"`
	Summary        string         `json:"summary"`
	Visibility     Visibility     `json:"visibility"`
	SourceType     SourceType     `json:"source_type"`
	OtherTypeName  string         `json:"other_type_name"`
	AssociatedType AssociatedType `json:"associated_type"`
	APIName        string         `json:"api_name"`
	APIVersion     string         `json:"api_version"`
	APIProvider    string         `json:"api_provider"`
	APIID          string         `json:"api_id"`
}

func (*APISearchResult) ResultType() ResultType        { return ResultTypeAPI }
func (*APIProductSearchResult) ResultType() ResultType { return ResultTypeAPIProduct }
func (*DocumentSearchResult) ResultType() ResultType   { return ResultTypeDocument }

func (*APISearchResult) isSearchResult()        {}
func (*APIProductSearchResult) isSearchResult() {}
func (*DocumentSearchResult) isSearchResult()   {}

// PaginationInfo holds navigation links; Next and Previous are empty when there is no such page.
type PaginationInfo struct {
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
	Total    int    `json:"total"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

type SearchResultList struct {
	Count      int            `json:"count"`
	List       []SearchResult `json:"list"`
	Pagination PaginationInfo `json:"pagination"`
}
