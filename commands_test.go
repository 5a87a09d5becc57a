package ftpstream

import (
	"testing"
)

func TestParsePassiveReply(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantPort int
		wantErr  bool
	}{
		{
			name:     "standard reply",
			input:    "227 entering passive mode (127,0,0,1,200,10)",
			wantPort: 51210,
		},
		{
			name:     "reply with trailing text",
			input:    "227 entering passive mode (10,0,0,5,78,52).",
			wantPort: 20020,
		},
		{
			name:     "spaces between fields",
			input:    "227 ok (192, 168, 1, 1, 4, 0)",
			wantPort: 1024,
		},
		{
			name:    "missing parentheses",
			input:   "227 entering passive mode",
			wantErr: true,
		},
		{
			name:    "missing closing parenthesis",
			input:   "227 entering passive mode (127,0,0,1,200,10",
			wantErr: true,
		},
		{
			name:    "too few fields",
			input:   "227 entering passive mode (127,0,0,1,200)",
			wantErr: true,
		},
		{
			name:    "non-numeric port field",
			input:   "227 entering passive mode (127,0,0,1,abc,10)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, err := parsePassiveReply(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePassiveReply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && port != tt.wantPort {
				t.Errorf("parsePassiveReply() = %d, want %d", port, tt.wantPort)
			}
		})
	}
}

func TestParseWorkingDir(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain directory",
			input: `257 "/pub" is the current directory`,
			want:  "/pub",
		},
		{
			name:  "trailing slash stripped",
			input: `257 "/pub/" is the current directory`,
			want:  "/pub",
		},
		{
			name:  "root keeps its slash",
			input: `257 "/" is the current directory`,
			want:  "/",
		},
		{
			name:  "empty path",
			input: `257 "" created`,
			want:  "",
		},
		{
			name:    "no quotes",
			input:   "257 current directory is /pub",
			wantErr: true,
		},
		{
			name:    "single quote only",
			input:   `257 "/pub`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := parseWorkingDir(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseWorkingDir() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && dir != tt.want {
				t.Errorf("parseWorkingDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestParseSizeReply(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{
			name:  "plain size",
			input: "213 10",
			want:  10,
		},
		{
			name:  "large size",
			input: "213 5368709120",
			want:  5368709120,
		},
		{
			name:  "trailing text ignored",
			input: "213 42 bytes",
			want:  42,
		},
		{
			name:    "line too short",
			input:   "213",
			wantErr: true,
		},
		{
			name:    "non-numeric size",
			input:   "213 large",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, err := parseSizeReply(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSizeReply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && size != tt.want {
				t.Errorf("parseSizeReply() = %d, want %d", size, tt.want)
			}
		})
	}
}
