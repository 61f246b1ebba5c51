package model

import "time"

// ResultKind describes the shape of a generation result.
type ResultKind string

const (
	ResultKindText  ResultKind = "text"
	ResultKindImage ResultKind = "image"
)

// GenerationRequest is the inbound body of a generation call.
type GenerationRequest struct {
	FeatureType       string `json:"featureType" binding:"required"`
	Prompt            string `json:"prompt"`
	SystemInstruction string `json:"systemInstruction,omitempty"`
	ImageURI          string `json:"imageUri,omitempty"`
	DeviceID          string `json:"deviceId"`
}

// GenerationInput is what the provider receives once a request is authorized.
type GenerationInput struct {
	Kind              FeatureKind
	Prompt            string
	SystemInstruction string
	ImageURI          string
}

// GenerationResult is an opaque provider payload.
type GenerationResult struct {
	Kind     ResultKind `json:"kind"`
	Text     string     `json:"text,omitempty"`
	ImageURI string     `json:"imageUri,omitempty"`
	MimeType string     `json:"mimeType,omitempty"`
}

// GenerationResponse is returned to the caller after settlement.
type GenerationResponse struct {
	Result           *GenerationResult `json:"result"`
	RemainingBalance int64             `json:"remainingBalance"`
	Charged          int64             `json:"charged"`
}

// AccountStatusResponse describes the current credit state of an account.
type AccountStatusResponse struct {
	Balance     int64     `json:"balance"`
	LastResetAt time.Time `json:"lastResetAt"`
	NextResetAt time.Time `json:"nextResetAt"`
	DeviceBound bool      `json:"boundDevice"`
}

// FeatureCost is one row of the public price list.
type FeatureCost struct {
	Kind FeatureKind `json:"featureType"`
	Cost int64       `json:"cost"`
	Free bool        `json:"free"`
}
