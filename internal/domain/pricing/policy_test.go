package pricing

import (
	"testing"

	"turbostock/internal/core/types"
)

func TestMarkupPolicy(t *testing.T) {
	tests := []struct {
		name   string
		factor string
		cost   string
		want   string
	}{
		{"default markup", "1.2", "100", "120"},
		{"fractional cost", "1.2", "10.50", "12.60"},
		{"zero cost", "1.5", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewMarkupPolicy(tt.factor)
			if err != nil {
				t.Fatalf("NewMarkupPolicy(%q): %v", tt.factor, err)
			}
			got, err := p.SuggestedPrice(types.MustMoney(tt.cost))
			if err != nil {
				t.Fatalf("SuggestedPrice: %v", err)
			}
			if !got.Equal(types.MustMoney(tt.want)) {
				t.Errorf("SuggestedPrice(%s) = %s, want %s", tt.cost, got, tt.want)
			}
		})
	}
}

func TestMarkupPolicyRejectsBadFactor(t *testing.T) {
	for _, factor := range []string{"", "abc", "0", "-1.2"} {
		if _, err := NewMarkupPolicy(factor); err == nil {
			t.Errorf("NewMarkupPolicy(%q) succeeded, want error", factor)
		}
	}
}

func TestRulePolicy(t *testing.T) {
	p, err := NewRulePolicy(`cost < 500.0 ? cost * 1.4 : cost * 1.2`)
	if err != nil {
		t.Fatalf("NewRulePolicy: %v", err)
	}

	tests := []struct {
		cost string
		want string
	}{
		{"100", "140"},
		{"500", "600"},
		{"1000", "1200"},
	}

	for _, tt := range tests {
		got, err := p.SuggestedPrice(types.MustMoney(tt.cost))
		if err != nil {
			t.Fatalf("SuggestedPrice(%s): %v", tt.cost, err)
		}
		if !got.Equal(types.MustMoney(tt.want)) {
			t.Errorf("SuggestedPrice(%s) = %s, want %s", tt.cost, got, tt.want)
		}
	}
}

func TestRulePolicyRejectsBadRules(t *testing.T) {
	tests := []struct {
		name string
		rule string
	}{
		{"syntax error", `cost *`},
		{"unknown variable", `price * 1.2`},
		{"non-numeric result", `"expensive"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRulePolicy(tt.rule); err == nil {
				t.Errorf("NewRulePolicy(%q) succeeded, want error", tt.rule)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	t.Run("rule takes precedence", func(t *testing.T) {
		p, err := FromConfig("1.2", `cost * 2.0`)
		if err != nil {
			t.Fatalf("FromConfig: %v", err)
		}
		got, err := p.SuggestedPrice(types.MustMoney("100"))
		if err != nil {
			t.Fatalf("SuggestedPrice: %v", err)
		}
		if !got.Equal(types.MustMoney("200")) {
			t.Errorf("SuggestedPrice = %s, want 200", got)
		}
	})

	t.Run("empty config falls back to the default markup", func(t *testing.T) {
		p, err := FromConfig("", "")
		if err != nil {
			t.Fatalf("FromConfig: %v", err)
		}
		got, err := p.SuggestedPrice(types.MustMoney("100"))
		if err != nil {
			t.Fatalf("SuggestedPrice: %v", err)
		}
		if !got.Equal(types.MustMoney("120")) {
			t.Errorf("SuggestedPrice = %s, want 120", got)
		}
	})
}
