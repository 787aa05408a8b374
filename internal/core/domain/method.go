package domain

import "strings"

// TransferMethod identifies the payment rail used to deliver funds.
type TransferMethod string

const (
	MethodSEPA  TransferMethod = "sepa"
	MethodACH   TransferMethod = "ach"
	MethodSWIFT TransferMethod = "swift"
)

// ResolveMethod maps a destination currency to its transfer rail.
// EUR settles over SEPA, USD over ACH, everything else over SWIFT.
func ResolveMethod(destinationCurrency string) TransferMethod {
	switch destinationCurrency {
	case "EUR":
		return MethodSEPA
	case "USD":
		return MethodACH
	default:
		return MethodSWIFT
	}
}

// AvailableMethods returns the rails usable for a destination. The rail is
// determined by the corridor, not chosen by the user, so the set holds
// exactly the resolved rail.
func AvailableMethods(destinationCurrency string) []TransferMethod {
	return []TransferMethod{ResolveMethod(destinationCurrency)}
}

// FieldType is the input type of a method form field.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeSelect FieldType = "select"
)

// FieldSpec describes one recipient/bank detail field required by a rail.
type FieldSpec struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// MethodSchema is the full form definition for a transfer method.
type MethodSchema struct {
	Method TransferMethod `json:"method"`
	Label  string         `json:"label"`
	Fields []FieldSpec    `json:"fields"`
}

// methodSchemas is the static field table for each rail.
var methodSchemas = map[TransferMethod]MethodSchema{
	MethodSEPA: {
		Method: MethodSEPA,
		Label:  "SEPA Credit Transfer",
		Fields: []FieldSpec{
			{Name: "recipient_name", Label: "Recipient name", Type: FieldTypeText, Required: true},
			{Name: "iban", Label: "IBAN", Type: FieldTypeText, Required: true},
			{Name: "bic", Label: "BIC / SWIFT code", Type: FieldTypeText, Required: true},
		},
	},
	MethodACH: {
		Method: MethodACH,
		Label:  "ACH Transfer",
		Fields: []FieldSpec{
			{Name: "recipient_name", Label: "Recipient name", Type: FieldTypeText, Required: true},
			{Name: "routing_number", Label: "Routing number", Type: FieldTypeText, Required: true},
			{Name: "account_number", Label: "Account number", Type: FieldTypeText, Required: true},
			{Name: "account_type", Label: "Account type", Type: FieldTypeSelect, Required: true, Options: []string{"checking", "savings"}},
		},
	},
	MethodSWIFT: {
		Method: MethodSWIFT,
		Label:  "SWIFT Wire",
		Fields: []FieldSpec{
			{Name: "recipient_name", Label: "Recipient name", Type: FieldTypeText, Required: true},
			{Name: "account_number", Label: "Account number", Type: FieldTypeText, Required: true},
			{Name: "swift_code", Label: "SWIFT code", Type: FieldTypeText, Required: true},
			{Name: "bank_name", Label: "Bank name", Type: FieldTypeText, Required: true},
			{Name: "bank_address", Label: "Bank address", Type: FieldTypeText, Required: false},
		},
	},
}

// SchemaFor returns the field schema for a method, or nil if unknown.
func SchemaFor(method TransferMethod) *MethodSchema {
	schema, ok := methodSchemas[method]
	if !ok {
		return nil
	}
	return &schema
}

// MissingRequiredFields returns the names of required fields absent or blank
// in the given values. Only presence is checked; format validation (IBAN
// checksums etc.) is a server-side concern downstream of submission.
func MissingRequiredFields(method TransferMethod, values map[string]string) []string {
	schema := SchemaFor(method)
	if schema == nil {
		return nil
	}
	var missing []string
	for _, f := range schema.Fields {
		if !f.Required {
			continue
		}
		if strings.TrimSpace(values[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
