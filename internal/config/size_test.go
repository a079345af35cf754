package config

import (
	"testing"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"", constants.DefaultMaxUploadSizeBytes, false},
		{"100", 100, false},
		{"100B", 100, false},
		{"512k", 512 * 1024, false},
		{"512 KB", 512 * 1024, false},
		{"10M", 10 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"MB", 0, true},
		{"10T", 0, true},
		{"-5K", 0, true},
		{"9223372036854775807G", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
