package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"1.2.3.4:8080":  "1.2.3.4",
		"[::1]:443":     "::1",
		"example.com":   "example.com",
		" 10.0.0.1 ":    "10.0.0.1",
		"[2001:db8::1]": "2001:db8::1",
		"":              "",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", want: "192.0.2.1"},
		{name: "headers ignored without trust", headers: map[string]string{"X-Forwarded-For": "9.9.9.9"}, want: "192.0.2.1"},
		{name: "cloudflare first", headers: map[string]string{"CF-Connecting-IP": "8.8.8.8", "X-Forwarded-For": "9.9.9.9"}, trustProxy: true, want: "8.8.8.8"},
		{name: "left-most forwarded", headers: map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"}, trustProxy: true, want: "9.9.9.9"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "7.7.7.7"}, trustProxy: true, want: "7.7.7.7"},
		{name: "trusted but no headers", trustProxy: true, want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = "192.0.2.1:5555"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.10 ", "2001:db8::/32", "not-an-ip", ""})

	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}
	if got := m.Invalid(); len(got) != 1 || got[0] != "not-an-ip" {
		t.Errorf("Invalid() = %v", got)
	}

	allowed := []string{"10.1.2.3", "192.168.1.10", "2001:db8::42", "::ffff:10.0.0.1"}
	for _, ip := range allowed {
		if !m.Allow(ip) {
			t.Errorf("Allow(%q) = false, want true", ip)
		}
	}
	denied := []string{"192.168.1.11", "11.0.0.1", "garbage", ""}
	for _, ip := range denied {
		if m.Allow(ip) {
			t.Errorf("Allow(%q) = true, want false", ip)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should give an empty matcher")
	}
}
