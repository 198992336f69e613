package parser

import "testing"

func TestExtractReference(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "labeled three segment", text: "Incident: INC-2025-001", want: "INC-2025-001"},
		{name: "labeled reference", text: "Incident Reference: INC-2025-001", want: "INC-2025-001"},
		{name: "label beats earlier bare code", text: "Ref: ABC-123 and also XYZ-999", want: "ABC-123"},
		{name: "ticket label", text: "see ticket #TKT-42 for details", want: "TKT-42"},
		{name: "case label with hash", text: "Case #CS-2024-17", want: "CS-2024-17"},
		{name: "bare three segment", text: "mentioned INC-2025-001 in passing", want: "INC-2025-001"},
		{name: "bare two segment", text: "mentioned INC-001 in passing", want: "INC-001"},
		{name: "upper cased output", text: "incident: inc-2025-001", want: "INC-2025-001"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractReference(tc.text)
			if got == nil {
				t.Fatalf("got nil want %q", tc.want)
			}
			if *got != tc.want {
				t.Fatalf("got %q want %q", *got, tc.want)
			}
		})
	}
}

func TestExtractReferenceAbsent(t *testing.T) {
	if got := ExtractReference("no codes in this message"); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}
}
