package config

import (
	"reflect"
	"testing"
)

func TestSplitOrigins(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"http://localhost:3000", []string{"http://localhost:3000"}},
		{"https://a.com, https://b.com", []string{"https://a.com", "https://b.com"}},
		{" https://a.com ,https://b.com, ", []string{"https://a.com", "https://b.com"}},
	}
	for _, c := range cases {
		got := splitOrigins(c.raw)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitOrigins(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}
