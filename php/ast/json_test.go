package ast

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestMarshalJSONShape(t *testing.T) {
	data, err := MarshalJSON(&Binary{
		Base:  At(NewSpan(0, 5)),
		Left:  &IntLit{Base: At(NewSpan(0, 1)), Value: 1},
		Op:    Add,
		Right: &NullLit{Base: At(NewSpan(4, 5))},
	})
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, data)
	}
	if got["kind"] != "Binary" {
		t.Errorf("kind: got %v, want Binary", got["kind"])
	}
	if got["op"] != "Add" {
		t.Errorf("op: got %v, want Add", got["op"])
	}
	span := got["span"].(map[string]any)
	if span["start"] != 0.0 || span["end"] != 5.0 {
		t.Errorf("span: got %v, want 0..5", span)
	}
	left := got["left"].(map[string]any)
	if left["kind"] != "IntLit" || left["value"] != 1.0 {
		t.Errorf("left: got %v", left)
	}
}

func TestMarshalJSONKeyOrder(t *testing.T) {
	data, err := MarshalJSON(&Property{Base: At(NewSpan(3, 9)), Name: "x", SetVisibility: Private})
	if err != nil {
		t.Fatal(err)
	}
	compact := new(bytes.Buffer)
	if err := json.Compact(compact, data); err != nil {
		t.Fatal(err)
	}
	s := compact.String()
	want := `{"kind":"Property","span":{"start":3,"end":9},"name":"x","visibility":"None","set_visibility":"Private",`
	if !strings.HasPrefix(s, want) {
		t.Errorf("got %s\nwant prefix %s", s, want)
	}
}

func TestMarshalJSONNilChildren(t *testing.T) {
	data, err := MarshalJSON(&ArrayLit{
		Base:  At(NewSpan(0, 4)),
		Items: []*ArrayItem{nil, {Base: At(NewSpan(2, 3)), Value: &Variable{Base: At(NewSpan(2, 3)), Name: "a"}}},
		List:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`null`)) {
		t.Errorf("missing null slot in %s", data)
	}
	if !bytes.Contains(data, []byte(`"list": true`)) {
		t.Errorf("missing list flag in %s", data)
	}
}

func TestFprintJSONDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := FprintJSON(&a, sample()); err != nil {
		t.Fatal(err)
	}
	if err := FprintJSON(&b, sample()); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("output differs between runs")
	}
	if !strings.HasSuffix(a.String(), "\n") {
		t.Error("missing trailing newline")
	}
}
