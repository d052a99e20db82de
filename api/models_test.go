package api

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComments_orderPreserved(t *testing.T) {
	// Key order in the document is the display order; a map-based decode
	// would scramble it.
	doc := `{
		"c3": {"id": "c3", "username": "Ben Yan", "message": "third"},
		"c1": {"id": "c1", "username": "Andy Wang", "message": "first"},
		"c2": {"id": "c2", "username": "Ben Yan", "message": "second"}
	}`

	var got Comments
	if err := json.Unmarshal([]byte(doc), &got); err != nil {
		t.Fatal(err)
	}

	want := Comments{
		{ID: "c3", Username: "Ben Yan", Message: "third"},
		{ID: "c1", Username: "Andy Wang", Message: "first"},
		{ID: "c2", Username: "Ben Yan", Message: "second"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Comments mismatch (-want +got):\n%s", diff)
	}

	encoded, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	wantEncoded := `{"c3":{"id":"c3","username":"Ben Yan","message":"third"},` +
		`"c1":{"id":"c1","username":"Andy Wang","message":"first"},` +
		`"c2":{"id":"c2","username":"Ben Yan","message":"second"}}`
	if string(encoded) != wantEncoded {
		t.Errorf("Encoded comments\n  %s\nwant\n  %s", encoded, wantEncoded)
	}
}

func TestComments_empty(t *testing.T) {
	var cs Comments
	encoded, err := json.Marshal(cs)
	if err != nil {
		t.Fatal(err)
	}
	if string(encoded) != "{}" {
		t.Errorf("Encoded nil comments as %s, want {}", encoded)
	}

	var got Comments
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Decoded %d comments from empty object", len(got))
	}
}

func TestComments_ByID(t *testing.T) {
	cs := Comments{
		{ID: "c1", Username: "Andy Wang", Message: "first"},
		{ID: "c2", Username: "Ben Yan", Message: "second"},
	}

	c, ok := cs.ByID("c2")
	if !ok || c.Message != "second" {
		t.Errorf("ByID(c2) = (%v, %t), want second comment", c, ok)
	}
	if _, ok := cs.ByID("nope"); ok {
		t.Error("ByID(nope) found a comment")
	}
}
