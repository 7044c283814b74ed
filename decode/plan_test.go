package decode

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildPlan_FieldLookup(t *testing.T) {
	type sample struct {
		UserID    int
		FirstName string `json:"first"`
		Skipped   string `json:"-"`
		hidden    int
	}
	_ = sample{hidden: 0}
	plan := buildPlan(reflect.TypeOf(sample{}), nil)
	if plan.err != nil {
		t.Fatalf("unexpected plan error: %v", plan.err)
	}
	if len(plan.fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(plan.fields))
	}
	var testCases = []struct {
		key    string
		expect string
	}{
		{key: "UserID", expect: "UserID"},
		{key: "user_id", expect: "UserID"},
		{key: "userId", expect: "UserID"},
		{key: "first", expect: "FirstName"},
		{key: "FIRST", expect: "FirstName"},
	}
	for _, testCase := range testCases {
		fp, ok := lookupField(plan, testCase.key)
		if !ok {
			t.Fatalf("%s: expected match", testCase.key)
		}
		if fp.fieldName != testCase.expect {
			t.Fatalf("%s: expected field %s, got %s", testCase.key, testCase.expect, fp.fieldName)
		}
	}
	if _, ok := lookupField(plan, "unknown"); ok {
		t.Fatalf("expected no match for unknown key")
	}
}

func TestBuildPlan_EmbeddedFlattening(t *testing.T) {
	type Base struct {
		ID int
	}
	type Extra struct {
		Note string
	}
	type sample struct {
		Base
		*Extra
		Name string
	}
	plan := buildPlan(reflect.TypeOf(sample{}), nil)
	if plan.err != nil {
		t.Fatalf("unexpected plan error: %v", plan.err)
	}
	for _, key := range []string{"ID", "Note", "Name"} {
		if _, ok := lookupField(plan, key); !ok {
			t.Fatalf("expected flattened field %s", key)
		}
	}
}

func TestBuildPlan_UnionValidation(t *testing.T) {
	type valid struct {
		Kind   string  `discriminator:"true"`
		Radius float64 `variant:"circle"`
	}
	type notFirst struct {
		Radius float64 `variant:"circle"`
		Kind   string  `discriminator:"true"`
	}
	type nonString struct {
		Kind   int     `discriminator:"true"`
		Radius float64 `variant:"circle"`
	}
	type missingVariant struct {
		Kind   string `discriminator:"true"`
		Radius float64
	}
	type orphanVariant struct {
		Radius float64 `variant:"circle"`
	}
	type doubled struct {
		Kind  string `discriminator:"true"`
		Other string `discriminator:"true"`
	}

	var testCases = []struct {
		description string
		rType       reflect.Type
		fragment    string
	}{
		{description: "valid union", rType: reflect.TypeOf(valid{})},
		{description: "discriminator not first", rType: reflect.TypeOf(notFirst{}), fragment: "must be the first field"},
		{description: "non-string discriminator", rType: reflect.TypeOf(nonString{}), fragment: "must be a string"},
		{description: "field without variant", rType: reflect.TypeOf(missingVariant{}), fragment: "must declare a variant"},
		{description: "variant without discriminator", rType: reflect.TypeOf(orphanVariant{}), fragment: "without a discriminator"},
		{description: "multiple discriminators", rType: reflect.TypeOf(doubled{}), fragment: "multiple discriminator fields"},
	}
	for _, testCase := range testCases {
		plan := buildPlan(testCase.rType, nil)
		if testCase.fragment == "" {
			if plan.err != nil {
				t.Fatalf("%s: unexpected error: %v", testCase.description, plan.err)
			}
			if plan.union == nil {
				t.Fatalf("%s: expected union plan", testCase.description)
			}
			continue
		}
		if plan.err == nil {
			t.Fatalf("%s: expected plan error", testCase.description)
		}
		if !strings.Contains(plan.err.Error(), testCase.fragment) {
			t.Fatalf("%s: expected %q in error, got %v", testCase.description, testCase.fragment, plan.err)
		}
	}
}

func TestBuildPlan_CompileNameAlias(t *testing.T) {
	type sample struct {
		FirstName string
		Explicit  string `json:"explicit_name"`
	}
	lower := func(name string) string { return strings.ToLower(name[:1]) + name[1:] }
	plan := buildPlan(reflect.TypeOf(sample{}), lower)
	if plan.err != nil {
		t.Fatalf("unexpected plan error: %v", plan.err)
	}
	if fp, ok := plan.byName["firstName"]; !ok || fp.fieldName != "FirstName" {
		t.Fatalf("expected compiled alias firstName")
	}
	if _, ok := plan.byName["explicit_name"]; !ok {
		t.Fatalf("expected explicit name preserved")
	}
}
