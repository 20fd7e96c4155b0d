package pom

import (
	"encoding/xml"
	"testing"
)

func TestTextUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		want     string
		wantOK   bool
		wantNode bool
	}{
		{"plain", `<v>1.0</v>`, "1.0", true, false},
		{"whitespace", "<v>\n  1.0\n</v>", "1.0", true, false},
		{"empty plain", `<v></v>`, "", true, false},
		{"attribute", `<v a="b">2.0</v>`, "2.0", true, true},
		{"child markup", `<v>3.0<x>ignored</x></v>`, "3.0", true, true},
		{"comment", `<v>4.0<!-- pinned --></v>`, "4.0", true, true},
		{"node without text", `<v><x>only</x></v>`, "", false, true},
		{"cdata", `<v><![CDATA[5.0]]></v>`, "5.0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Text
			if err := xml.Unmarshal([]byte(tt.doc), &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			v, ok := got.Value()
			if v != tt.want || ok != tt.wantOK {
				t.Errorf("Value() = (%q, %v), want (%q, %v)", v, ok, tt.want, tt.wantOK)
			}
			if got.IsNode() != tt.wantNode {
				t.Errorf("IsNode() = %v, want %v", got.IsNode(), tt.wantNode)
			}
		})
	}
}

func TestTextZeroValue(t *testing.T) {
	var z Text
	if _, ok := z.Value(); ok {
		t.Error("zero Text should be absent")
	}
	if z.String() != "" {
		t.Errorf("String() = %q, want empty", z.String())
	}
}

func TestMerge(t *testing.T) {
	base := Properties{"a": "1", "b": "2"}
	top := Properties{"b": "20", "c": "30"}

	got := Merge(base, top)
	want := Properties{"a": "1", "b": "20", "c": "30"}
	if len(got) != len(want) {
		t.Fatalf("Merge() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Merge()[%q] = %q, want %q", k, got[k], v)
		}
	}
	if base["b"] != "2" {
		t.Error("Merge must not modify its inputs")
	}

	if m := Merge(nil, nil); m == nil {
		t.Error("Merge(nil, nil) should return an empty table")
	}
}
