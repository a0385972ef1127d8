package source

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	src, err := Parse("https://example.com/contact.html")
	if err != nil || src.Kind() != KindURL {
		t.Fatalf("expected URL source, got %v %v", src, err)
	}

	src, err = Parse(" ./pages/../contact.html ")
	if err != nil || src.Kind() != KindFile || src.Location() != "contact.html" {
		t.Fatalf("expected cleaned file source, got %#v %v", src, err)
	}

	if src, err := Parse("   "); src != nil || err != nil {
		t.Fatalf("expected nil for empty input, got %v %v", src, err)
	}
}

func TestFromURLValidates(t *testing.T) {
	if _, err := FromURL(""); err == nil {
		t.Fatalf("expected error for empty URL")
	}
	if _, err := FromURL("not a url"); err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewLoaderOptions(t *testing.T) {
	opts := NewLoaderOptions(nil, WithHTTPFallback(time.Second))
	if !opts.AllowHTTPFallback || opts.RequestTimeout != time.Second {
		t.Fatalf("unexpected options %#v", opts)
	}
	if FromFS("groups.yaml").Kind() != KindFS {
		t.Fatalf("expected fs kind")
	}
}
