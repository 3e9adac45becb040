package extract

import (
	"github.com/cleared-dev/parcelas/internal/model"
)

// Rule turns the text of one document into records of a single plan type.
// Rules only fill plan-specific fields; identity and filename are set by the Extractor.
type Rule interface {
	Code() model.PlanType
	// Marker is the literal that must appear in the text for the rule to run.
	Marker() string
	Extract(text string) ([]model.InstallmentRecord, error)
}

// Registry holds rules in registration order.
type Registry struct {
	rules  []Rule
	byCode map[model.PlanType]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{byCode: make(map[model.PlanType]Rule)}
}

// Register adds a rule. Panics on duplicate plan type.
func (r *Registry) Register(rule Rule) {
	code := rule.Code()
	if _, ok := r.byCode[code]; ok {
		panic("duplicate rule for plan type: " + string(code))
	}
	r.byCode[code] = rule
	r.rules = append(r.rules, rule)
}

// Get returns the rule for a plan type, or nil.
func (r *Registry) Get(code model.PlanType) Rule {
	return r.byCode[code]
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Options selects optional rules.
type Options struct {
	IncludePendingDebt bool
}

// DefaultRegistry returns a registry with the built-in rules.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	r.Register(meiRule)
	r.Register(simplesRule)
	r.Register(&federalRule{})
	r.Register(&pgfnRule{})
	r.Register(&suspendedDebtRule{})
	if opts.IncludePendingDebt {
		r.Register(&pendingDebtRule{limit: pendingDebtLimit})
	}
	return r
}
