package dto

// CheckoutSubmissionRequest is one checkout request from the host frontend.
// A non-empty payment method marks a final order-submission attempt; live
// field edits omit it.
type CheckoutSubmissionRequest struct {
	PaymentMethod string            `json:"payment_method" binding:"omitempty,max=100"`
	Fields        map[string]string `json:"fields" binding:"required"`
}

// FieldErrorResponse is a single field-tagged validation error
type FieldErrorResponse struct {
	FieldID string `json:"fieldId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CheckoutResponse is the response envelope for checkout requests
type CheckoutResponse struct {
	Status string               `json:"status"`
	Errors []FieldErrorResponse `json:"errors,omitempty"`
}

// FieldDefinitionResponse describes one registered checkout field for the
// host frontend
type FieldDefinitionResponse struct {
	ID                string `json:"id"`
	Label             string `json:"label"`
	Location          string `json:"location"`
	Type              string `json:"type"`
	Required          bool   `json:"required"`
	ShowOptionalLabel bool   `json:"showOptionalLabel"`
}
