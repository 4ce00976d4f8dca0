package server

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolvePort(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"80", 80},
		{"8080", 8080},
		{"1", 1},
		{"65535", 65535},
		{"00080", 80},
		{"", DefaultPort},
		{"0", DefaultPort},
		{"65536", DefaultPort},
		{"99999", DefaultPort},
		{"123456", DefaultPort},
		{"abc", DefaultPort},
		{"-1", DefaultPort},
		{"+80", DefaultPort},
		{" 80", DefaultPort},
		{"0x50", DefaultPort},
		{"8O80", DefaultPort},
	}
	for _, tc := range cases {
		if got := ResolvePort(tc.raw, nil); got != tc.want {
			t.Errorf("ResolvePort(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestResolvePort_WarnsOnFallback(t *testing.T) {
	zc, logs := observer.New(zapcore.WarnLevel)
	if got := ResolvePort("abc", zap.New(zc)); got != DefaultPort {
		t.Fatalf("got %d", got)
	}
	if logs.FilterMessage("invalid port, using default").Len() != 1 {
		t.Fatalf("logs = %+v", logs.All())
	}
	ResolvePort("9000", zap.New(zc))
	if logs.Len() != 1 {
		t.Fatal("valid port should not warn")
	}
}

func TestParsePort_ConfigError(t *testing.T) {
	_, err := ParsePort("70000")
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "port" || ce.Value != "70000" {
		t.Fatalf("err = %v", err)
	}
}
