package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanTypeValid(t *testing.T) {
	for _, p := range PlanTypes {
		assert.True(t, p.Valid(), "%s should be valid", p)
	}
	assert.False(t, PlanType("PARCMEI").Valid())
	assert.False(t, PlanType("").Valid())
}

func TestParsePlanType(t *testing.T) {
	tests := []struct {
		in   string
		want PlanType
		ok   bool
	}{
		{"MEI_INSTALLMENT", PlanMEI, true},
		{"PARCMEI", PlanMEI, true},
		{"PARCSN", PlanSimplesNacional, true},
		{"SIEFPAR", PlanFederal, true},
		{"SISPAR", PlanPGFN, true},
		{"SICOB", PlanSuspendedDebt, true},
		{"DÉBITO", PlanPendingDebt, true},
		{"nope", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePlanType(tt.in)
		assert.Equal(t, tt.ok, ok, "ParsePlanType(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParsePlanType(%q)", tt.in)
	}
}
