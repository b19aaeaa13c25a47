package errors

import (
	"strings"
	"testing"
)

func TestValidateYearLabel(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{name: "calendar year", label: "2024", wantErr: false},
		{name: "raw tournament id", label: "studchr77", wantErr: false},
		{name: "cyrillic label", label: "весна2023", wantErr: false},
		{name: "empty", label: "", wantErr: true},
		{name: "control character", label: "2024\n", wantErr: true},
		{name: "tab", label: "20\t24", wantErr: true},
		{name: "too long", label: strings.Repeat("x", 65), wantErr: true},
		{name: "max length ok", label: strings.Repeat("x", 64), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateYearLabel(tt.label)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateYearLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidMapping) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidMapping)
			}
		})
	}
}

func TestValidateCollectionName(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		wantErr    bool
	}{
		{name: "simple", collection: "diagrams", wantErr: false},
		{name: "with dots", collection: "rosterflow.diagrams", wantErr: false},
		{name: "empty", collection: "", wantErr: true},
		{name: "dollar sign", collection: "dia$grams", wantErr: true},
		{name: "null byte", collection: "dia\x00grams", wantErr: true},
		{name: "system prefix", collection: "system.users", wantErr: true},
		{name: "too long", collection: strings.Repeat("d", 121), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCollectionName(tt.collection)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCollectionName(%q) error = %v, wantErr %v", tt.collection, err, tt.wantErr)
			}
		})
	}
}
