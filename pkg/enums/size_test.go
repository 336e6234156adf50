package enums

import "testing"

func TestParseSizeDefaultsToMedium(t *testing.T) {
	size, err := ParseSize("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != SizeM {
		t.Fatalf("expected default M, got %s", size)
	}
}

func TestParseSizeRejectsUnknownLabel(t *testing.T) {
	if _, err := ParseSize("XXS"); err == nil {
		t.Fatalf("expected error for unknown size")
	}
}

func TestSizeIsValid(t *testing.T) {
	for _, size := range AllSizes {
		if !size.IsValid() {
			t.Fatalf("size %s should be valid", size)
		}
	}
	if Size("medium").IsValid() {
		t.Fatalf("lowercase label should not validate")
	}
}
