package utils

import (
	"testing"
)

func TestValidateBridgeURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "valid WSS URL",
			url:     "wss://bridge.example.com",
			wantErr: false,
		},
		{
			name:    "valid WSS URL with path",
			url:     "wss://bridge.example.com/provider",
			wantErr: false,
		},
		{
			name:    "invalid WS URL",
			url:     "ws://bridge.example.com",
			wantErr: true,
		},
		{
			name:    "valid localhost for testing",
			url:     "ws://localhost:8546",
			wantErr: false,
		},
		{
			name:    "valid 127.0.0.1 for testing",
			url:     "ws://127.0.0.1:8546",
			wantErr: false,
		},
		{
			name:    "valid IPv6 localhost for testing",
			url:     "ws://[::1]:8546",
			wantErr: false,
		},
		{
			name:    "invalid loopback lookalike",
			url:     "ws://localhost.example.com",
			wantErr: true,
		},
		{
			name:    "invalid WSS without host",
			url:     "wss://",
			wantErr: true,
		},
		{
			name:    "invalid no protocol",
			url:     "bridge.example.com",
			wantErr: true,
		},
		{
			name:    "invalid empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "invalid https protocol",
			url:     "https://bridge.example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBridgeURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBridgeURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
