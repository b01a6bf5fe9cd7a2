package apiref

import "strings"

// Vendor identifies an API description grammar family and major version.
type Vendor string

const (
	// VendorUnknown is used when no vendor was supplied or detected.
	VendorUnknown Vendor = ""
	// VendorRAML08 is RAML 0.8.
	VendorRAML08 Vendor = "RAML_08"
	// VendorRAML10 is RAML 1.0.
	VendorRAML10 Vendor = "RAML_10"
	// VendorRAML is RAML without a known version.
	VendorRAML Vendor = "RAML"
	// VendorOAS20 is Swagger/OpenAPI 2.0.
	VendorOAS20 Vendor = "OAS_20"
	// VendorOAS30 is OpenAPI 3.x.
	VendorOAS30 Vendor = "OAS_30"
)

// IsRAML reports whether v is any RAML vendor.
func (v Vendor) IsRAML() bool {
	return v == VendorRAML08 || v == VendorRAML10 || v == VendorRAML
}

// IsOAS reports whether v is any OpenAPI vendor.
func (v Vendor) IsOAS() bool {
	return v == VendorOAS20 || v == VendorOAS30
}

// String returns the vendor name, or "UNKNOWN".
func (v Vendor) String() string {
	if v == VendorUnknown {
		return "UNKNOWN"
	}
	return string(v)
}

// ParseVendor parses a vendor name. It accepts the constant names as well as
// common spellings such as "raml-0.8", "RAML 1.0", "swagger", "oas3" and
// "openapi-3.0". The boolean reports whether the name was recognized.
func ParseVendor(s string) (Vendor, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "", ".", "").Replace(key)
	switch key {
	case "RAML08":
		return VendorRAML08, true
	case "RAML10", "RAML1":
		return VendorRAML10, true
	case "RAML":
		return VendorRAML, true
	case "OAS20", "OAS2", "SWAGGER", "SWAGGER20", "OPENAPI20":
		return VendorOAS20, true
	case "OAS30", "OAS3", "OPENAPI", "OPENAPI30", "OPENAPI3", "OAS31", "OPENAPI31":
		return VendorOAS30, true
	default:
		return VendorUnknown, false
	}
}

// Format is the syntax a document is written in.
type Format string

const (
	// FormatUnknown is used when the format has not been determined.
	FormatUnknown Format = ""
	// FormatJSON indicates JSON syntax.
	FormatJSON Format = "JSON"
	// FormatYAML indicates YAML syntax.
	FormatYAML Format = "YAML"
)

// String returns the format name, or "UNKNOWN".
func (f Format) String() string {
	if f == FormatUnknown {
		return "UNKNOWN"
	}
	return string(f)
}

// ParseFormat parses "json" or "yaml" (any case; "yml" is accepted).
func ParseFormat(s string) (Format, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "JSON":
		return FormatJSON, true
	case "YAML", "YML":
		return FormatYAML, true
	default:
		return FormatUnknown, false
	}
}
