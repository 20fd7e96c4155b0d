package httputil

import (
	"errors"
	"testing"
)

func TestHostOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://repo.maven.apache.org/maven2/a/b.jar", "repo.maven.apache.org"},
		{"http://127.0.0.1:8080/maven2/x.pom", "127.0.0.1:8080"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		if got := hostOf(tt.url); got != tt.want {
			t.Errorf("hostOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestBreakers_Disabled(t *testing.T) {
	b := NewBreakers(0)
	boom := errors.New("boom")
	for range 10 {
		if err := b.Do("https://h/x", func() error { return boom }); err != boom {
			t.Fatalf("err = %v, want boom", err)
		}
	}
	if len(b.State()) != 0 {
		t.Error("disabled breakers should not track hosts")
	}
}

func TestBreakers_PerHost(t *testing.T) {
	b := NewBreakers(1)
	_ = b.Do("https://down.example/x", func() error { return ErrNetwork })

	if err := b.Do("https://down.example/y", func() error { return nil }); !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("down host: err = %v, want ErrBreakerOpen", err)
	}
	if err := b.Do("https://up.example/y", func() error { return nil }); err != nil {
		t.Errorf("other host: err = %v, want nil", err)
	}

	state := b.State()
	if state["down.example"] != "open" || state["up.example"] != "closed" {
		t.Errorf("State() = %v", state)
	}
}
