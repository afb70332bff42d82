package model

import "testing"

func TestParseTraitKind(t *testing.T) {
	for _, s := range []string{"faction", "clan", "ability", "feature"} {
		k, err := ParseTraitKind(s)
		if err != nil {
			t.Fatalf("ParseTraitKind(%q): %v", s, err)
		}
		if k.Label() == "" {
			t.Errorf("empty label for %q", s)
		}
	}

	if _, err := ParseTraitKind("discipline"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestTraitKindExclusive(t *testing.T) {
	if !TraitClan.Exclusive() || !TraitFaction.Exclusive() {
		t.Error("clan and faction should be exclusive")
	}
	if TraitAbility.Exclusive() || TraitFeature.Exclusive() {
		t.Error("abilities and features should stack")
	}
}
