package services

import (
	"errors"
	"testing"

	"donations/pkg/utils"
)

func TestDonationStatusResolver_Classify(t *testing.T) {
	resolver := NewDonationStatusResolver(newTestTokens(t))

	tests := []struct {
		code string
		want StatusCategory
	}{
		{"00000", StatusSuccess},
		{"00001", StatusGatewayError},
		{"00003", StatusGatewayError},
		{"00004", StatusInvalidCard},
		{"00008", StatusInvalidCard},
		{"00021", StatusInvalidCard},
		{"00030", StatusTimeout},
		{"00099", StatusUnknownError},
		{"", StatusUnknownError},
		{"ZZZ", StatusUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := resolver.Classify(tt.code); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestDonationStatusResolver_CreateCallbackStatus(t *testing.T) {
	resolver := NewDonationStatusResolver(newTestTokens(t))

	paid := awaitingDonation(t)
	paid.Finish(map[string]any{"result": "00000", "authorization": "XXXXXX"})

	status, err := resolver.CreateCallbackStatus(paid)
	if err != nil {
		t.Fatalf("CreateCallbackStatus() error = %v", err)
	}
	if status.Code != StatusSuccess || status.Status != ResultStatusSuccess || !status.IsSuccess() {
		t.Errorf("unexpected status %+v", status)
	}
	if status.UUID != paid.UUID.String() {
		t.Errorf("UUID = %q, want %q", status.UUID, paid.UUID)
	}
	if err := resolver.ValidateCallbackStatus(string(status.Code), status.Token); err != nil {
		t.Errorf("ValidateCallbackStatus() on own status = %v", err)
	}

	q := status.Query()
	if q.Get("code") != "success" || q.Get(CallbackTokenPurpose) != status.Token {
		t.Errorf("Query() = %v", q)
	}

	refused := awaitingDonation(t)
	refused.Finish(map[string]any{"result": "00004"})

	status, err = resolver.CreateCallbackStatus(refused)
	if err != nil {
		t.Fatalf("CreateCallbackStatus() error = %v", err)
	}
	if status.Code != StatusInvalidCard || status.Status != ResultStatusError {
		t.Errorf("unexpected status %+v", status)
	}
}

func TestDonationStatusResolver_ValidateCallbackStatus(t *testing.T) {
	tokens := newTestTokens(t)
	resolver := NewDonationStatusResolver(tokens)

	callbackToken, _ := tokens.Issue(CallbackTokenPurpose)
	retryToken, _ := tokens.Issue(RetryTokenPurpose)

	tests := []struct {
		name    string
		code    string
		token   string
		wantErr bool
	}{
		{"valid", "timeout", callbackToken, false},
		{"unknown category is still a category", "unknown-error", callbackToken, false},
		{"raw gateway code", "00000", callbackToken, true},
		{"retry token", "success", retryToken, true},
		{"missing token", "success", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolver.ValidateCallbackStatus(tt.code, tt.token)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidateCallbackStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, utils.ErrInvalidDonationToken) {
				t.Errorf("error = %v, want ErrInvalidDonationToken", err)
			}
		})
	}
}
