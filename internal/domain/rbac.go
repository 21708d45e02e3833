package domain

const (
	RoleAdmin  = "ADMIN"
	RoleViewer = "VIEWER"
)

const (
	ResourceShop           = "shop"
	ResourceEmployee       = "employee"
	ResourceSalaryRecord   = "salary_record"
	ResourceLeaveEntry     = "leave_entry"
	ResourcePayrollSummary = "payroll_summary"
)

const (
	ActionRead     = "read"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionGenerate = "generate"
	ActionExport   = "export"
)

var Resources = []string{
	ResourceShop,
	ResourceEmployee,
	ResourceSalaryRecord,
	ResourceLeaveEntry,
	ResourcePayrollSummary,
}

var Actions = []string{
	ActionRead,
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionGenerate,
	ActionExport,
}

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
