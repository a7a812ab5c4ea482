package modeljson

import "testing"

func TestStrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here is the JSON:\n{\"a\":1}\nHope it helps.", `{"a":1}`},
		{"array", "```json\n[1,2]\n```", `[1,2]`},
		{"whitespace", "   {\"a\": 1}  ", `{"a": 1}`},
		{
			"backticks inside value",
			"```json\n{\"explanation\": \"wrap the snippet in ``` fences\"}\n```",
			`{"explanation": "wrap the snippet in ` + "```" + ` fences"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Strip(tc.in); got != tc.want {
				t.Fatalf("Strip(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Decision   string  `json:"decision"`
		Confidence float64 `json:"confidence"`
	}
	raw := "```json\n{\"decision\": \"rejected\", \"confidence\": 0.55}\n```"
	if err := Decode(raw, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Decision != "rejected" || out.Confidence != 0.55 {
		t.Fatalf("unexpected decode result: %+v", out)
	}
}

func TestDecodeEmpty(t *testing.T) {
	var out map[string]any
	if err := Decode("", &out); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestDecodeInvalid(t *testing.T) {
	var out map[string]any
	if err := Decode("not json at all", &out); err == nil {
		t.Fatal("expected error for non-JSON input")
	}
}
