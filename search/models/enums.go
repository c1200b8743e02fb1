package models

import "fmt"

// ResultType discriminates the variants of SearchResult
type ResultType string

const (
	ResultTypeAPI        ResultType = "API"
	ResultTypeAPIProduct ResultType = "APIPRODUCT"
	ResultTypeDocument   ResultType = "DOC"
)

// AssociatedType records which kind of entity owns a document
type AssociatedType string

const (
	AssociatedTypeAPI        AssociatedType = "API"
	AssociatedTypeAPIProduct AssociatedType = "API_PRODUCT"
)

type DocType string

const (
	DocTypeHowTo            DocType = "HOWTO"
	DocTypeSamples          DocType = "SAMPLES"
	DocTypePublicForum      DocType = "PUBLIC_FORUM"
	DocTypeSupportForum     DocType = "SUPPORT_FORUM"
	DocTypeAPIMessageFormat DocType = "API_MESSAGE_FORMAT"
	DocTypeSwaggerDoc       DocType = "SWAGGER_DOC"
	DocTypeOther            DocType = "OTHER"
)

var docTypes = map[string]DocType{
	string(DocTypeHowTo):            DocTypeHowTo,
	string(DocTypeSamples):          DocTypeSamples,
	string(DocTypePublicForum):      DocTypePublicForum,
	string(DocTypeSupportForum):     DocTypeSupportForum,
	string(DocTypeAPIMessageFormat): DocTypeAPIMessageFormat,
	string(DocTypeSwaggerDoc):       DocTypeSwaggerDoc,
	string(DocTypeOther):            DocTypeOther,
}

// ParseDocType accepts only the exact enumeration names.
func ParseDocType(value string) (DocType, error) {
	if t, ok := docTypes[value]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown doc type %q", value)
}

type Visibility string

const (
	VisibilityOwnerOnly Visibility = "OWNER_ONLY"
	VisibilityPrivate   Visibility = "PRIVATE"
	VisibilityAPILevel  Visibility = "API_LEVEL"
)

var visibilities = map[string]Visibility{
	string(VisibilityOwnerOnly): VisibilityOwnerOnly,
	string(VisibilityPrivate):   VisibilityPrivate,
	string(VisibilityAPILevel):  VisibilityAPILevel,
}

func ParseVisibility(value string) (Visibility, error) {
	if v, ok := visibilities[value]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown visibility %q", value)
}

type SourceType string

const (
	SourceTypeInline   SourceType = "INLINE"
	SourceTypeMarkdown SourceType = "MARKDOWN"
	SourceTypeURL      SourceType = "URL"
	SourceTypeFile     SourceType = "FILE"
)

var sourceTypes = map[string]SourceType{
	string(SourceTypeInline):   SourceTypeInline,
	string(SourceTypeMarkdown): SourceTypeMarkdown,
	string(SourceTypeURL):      SourceTypeURL,
	string(SourceTypeFile):     SourceTypeFile,
}

func ParseSourceType(value string) (SourceType, error) {
	if s, ok := sourceTypes[value]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown source type %q", value)
}
