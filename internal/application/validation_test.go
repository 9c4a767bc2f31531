package application

import (
	"errors"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		wantMsg   string
	}{
		{
			name:      "valid value",
			fieldName: "variableID",
			value:     "VariableID:1:2",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "variableID",
			value:     "",
			wantErr:   true,
			wantMsg:   "variableID: variable ID is required",
		},
		{
			name:      "whitespace only",
			fieldName: "document",
			value:     "   ",
			wantErr:   true,
			wantMsg:   "document: document path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
				if err.Error() != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, err.Error())
				}
			}
		})
	}
}

func TestValidateVariableIDs(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		wantErr bool
	}{
		{name: "single ID", ids: []string{"VariableID:1"}, wantErr: false},
		{name: "several IDs", ids: []string{"VariableID:1", "VariableID:2"}, wantErr: false},
		{name: "nil", ids: nil, wantErr: true},
		{name: "blank entry", ids: []string{"VariableID:1", " "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVariableIDs(tt.ids)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVariableIDs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotFoundError_Is(t *testing.T) {
	err := &NotFoundError{Kind: "variable", ID: "VariableID:9"}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected NotFoundError to match ErrNotFound")
	}
	if err.Error() != "variable VariableID:9 not found" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestDocumentError_Is(t *testing.T) {
	err := &DocumentError{Path: "missing.json", Reason: "no such file"}
	if !errors.Is(err, ErrNoDocument) {
		t.Error("expected DocumentError to match ErrNoDocument")
	}
}
