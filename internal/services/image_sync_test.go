package services

import "testing"

func TestExtractSKU(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		want     string
		ok       bool
	}{
		{name: "short_form", filename: "PRO_HD-123.webp", want: "HD-123", ok: true},
		{name: "long_form", filename: "PRO_hd-123_product_hd-123_usn.png", want: "HD-123", ok: true},
		{name: "long_form_without_usn", filename: "PRO_AB9_product_AB9.jpg", want: "AB9", ok: true},
		{name: "duplicate_download_suffix", filename: "PRO_HD-123_product_HD-123_usn (2).jpeg", want: "HD-123", ok: true},
		{name: "lowercase_prefix", filename: "pro_hd-123.webp", want: "HD-123", ok: true},
		{name: "not_a_product_image", filename: "IMG_0042.png", ok: false},
		{name: "wrong_extension", filename: "PRO_HD-123.gif", ok: false},
		{name: "trailing_garbage", filename: "PRO_HD-123.webp.bak", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractSKU(tc.filename)
			if ok != tc.ok {
				t.Fatalf("ExtractSKU(%q) ok=%v, want %v", tc.filename, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("ExtractSKU(%q)=%q, want %q", tc.filename, got, tc.want)
			}
		})
	}
}

func TestCleanSiteFolderName(t *testing.T) {
	cases := []struct {
		name   string
		folder string
		want   string
	}{
		{name: "plain", folder: "Riverside Plaza", want: "RIVERSIDE PLAZA"},
		{name: "parenthetical_note", folder: "Riverside Plaza (done)", want: "RIVERSIDE PLAZA"},
		{name: "completed_marker", folder: "Oak Mall COMPLETED", want: "OAK MALL"},
		{name: "completed_lowercase", folder: "Oak Mall completed", want: "OAK MALL"},
		{name: "supplier_note", folder: "Depot 42 N-A IN HD SUPPLY", want: "DEPOT 42"},
		{name: "supplier_note_no_dash", folder: "Depot 42 NA IN HD SUPPLY", want: "DEPOT 42"},
		{name: "completed_inside_word_kept", folder: "Completedville", want: "COMPLETEDVILLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeSiteName(CleanSiteFolderName(tc.folder))
			if got != tc.want {
				t.Fatalf("clean(%q)=%q, want %q", tc.folder, got, tc.want)
			}
		})
	}
}
