package abtest

import (
	"strconv"
	"testing"

	"appMatch/domain"
)

func TestPickArmStickyIsDeterministic(t *testing.T) {
	cases := []struct {
		name      string
		partnerID string
		appID     string
		weight    float64
	}{
		{"both ids", "partner-123", "app-456", 0.5},
		{"partner only", "partner-123", "", 0.5},
		{"app only", "", "app-456", 0.3},
		{"both empty", "", "", 0.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := NewController(Policy{V1Weight: tc.weight, Sticky: true})

			first := ctrl.PickArm(tc.partnerID, tc.appID)
			if !domain.ValidArm(first) {
				t.Fatalf("PickArm returned unknown arm %q", first)
			}

			for i := 0; i < 20; i++ {
				if got := ctrl.PickArm(tc.partnerID, tc.appID); got != first {
					t.Fatalf("call %d returned %q, first call returned %q", i, got, first)
				}
			}

			// a separate controller with the same policy must agree,
			// simulating a process restart
			other := NewController(Policy{V1Weight: tc.weight, Sticky: true})
			if got := other.PickArm(tc.partnerID, tc.appID); got != first {
				t.Fatalf("fresh controller returned %q, want %q", got, first)
			}
		})
	}
}

func TestPickArmWeightBoundaries(t *testing.T) {
	zero := NewController(Policy{V1Weight: 0, Sticky: true})
	one := NewController(Policy{V1Weight: 1, Sticky: true})

	keys := []struct{ partner, app string }{
		{"p1", "a1"}, {"p2", "a2"}, {"", ""}, {"p3", ""}, {"", "a4"},
	}

	for _, k := range keys {
		if got := zero.PickArm(k.partner, k.app); got != domain.ArmV2 {
			t.Errorf("weight=0 PickArm(%q,%q) = %q, want v2", k.partner, k.app, got)
		}
		if got := one.PickArm(k.partner, k.app); got != domain.ArmV1 {
			t.Errorf("weight=1 PickArm(%q,%q) = %q, want v1", k.partner, k.app, got)
		}
	}
}

func TestPickArmStickySplitIsRoughlyProportional(t *testing.T) {
	ctrl := NewController(Policy{V1Weight: 0.5, Sticky: true})

	v1 := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if ctrl.PickArm("partner", "app-"+strconv.Itoa(i)) == domain.ArmV1 {
			v1++
		}
	}

	ratio := float64(v1) / float64(n)
	if ratio < 0.4 || ratio > 0.6 {
		t.Fatalf("v1 share %.3f too far from 0.5", ratio)
	}
}

func TestPickArmNonStickyReturnsValidArms(t *testing.T) {
	ctrl := NewController(Policy{V1Weight: 0.5, Sticky: false})

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		arm := ctrl.PickArm("p", "a")
		if !domain.ValidArm(arm) {
			t.Fatalf("unknown arm %q", arm)
		}
		seen[arm] = true
	}

	if !seen[domain.ArmV1] || !seen[domain.ArmV2] {
		t.Fatalf("non-sticky mode never produced both arms: %v", seen)
	}
}

func TestHashToUnitRange(t *testing.T) {
	for _, key := range []string{"", ":", "a:b", "partner-1:app-2", "x"} {
		u := hashToUnit(key)
		if u < 0 || u >= 1 {
			t.Errorf("hashToUnit(%q) = %v, want [0,1)", key, u)
		}
	}
}

