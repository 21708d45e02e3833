package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"go-payroll/internal/domain"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// DefaultPolicies: admins may do anything, viewers may read and export.
var DefaultPolicies = [][]string{
	{domain.RoleAdmin, "*", "*"},
	{domain.RoleViewer, "*", domain.ActionRead},
	{domain.RoleViewer, domain.ResourceSalaryRecord, domain.ActionExport},
}

// NewEnforcer builds an in-memory enforcer loaded with the given policies.
// A nil policy set loads DefaultPolicies.
func NewEnforcer(policies [][]string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if policies == nil {
		policies = DefaultPolicies
	}
	if len(policies) > 0 {
		if _, err := e.AddPolicies(policies); err != nil {
			return nil, err
		}
	}
	return e, nil
}
