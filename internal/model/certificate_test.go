package model

import (
	"testing"
	"time"
)

func TestCertificateCode(t *testing.T) {
	issued := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)
	got := CertificateCode(7, 42, issued)
	want := "CERT-7-42-20240301"
	if got != want {
		t.Errorf("CertificateCode = %q, want %q", got, want)
	}
}
