package errors

import (
	"testing"
)

func TestValidateSegment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "guava", false},
		{"valid with dash", "commons-lang3", false},
		{"valid with dot", "32.1.0-jre", false},
		{"valid with underscore", "my_artifact", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"placeholder", "${lib.version}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSegment("artifactId", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSegment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCoordinate) {
				t.Errorf("ValidateSegment(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidCoordinate)
			}
		})
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name                     string
		group, artifact, version string
		wantErr                  bool
	}{
		{"valid", "com.example", "widget", "1.0", false},
		{"deep group", "a.b.c", "x", "2.0-SNAPSHOT", false},

		{"empty group", "", "widget", "1.0", true},
		{"leading dot", ".com.example", "widget", "1.0", true},
		{"trailing dot", "com.example.", "widget", "1.0", true},
		{"traversal artifact", "com.example", "..", "1.0", true},
		{"empty version", "com.example", "widget", "", true},
		{"unresolved version", "com.example", "widget", "${v}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.group, tt.artifact, tt.version)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://repo.maven.apache.org/maven2", false},
		{"http", "http://localhost:8080/maven2", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
