package domain

import "fmt"

// DocumentType is the closed set of document kinds the engine assigns.
type DocumentType string

const (
	TypeInvoice           DocumentType = "invoice"
	TypeTechnicalDoc      DocumentType = "technical_documentation"
	TypeProjectTimeline   DocumentType = "project_timeline"
	TypeSafetyReport      DocumentType = "safety_report"
	TypeComplianceDoc     DocumentType = "compliance_document"
	TypeHRDocument        DocumentType = "hr_document"
	TypeEngineeringReport DocumentType = "engineering_report"
	TypeOperationsManual  DocumentType = "operations_manual"
	TypeProcurementOrder  DocumentType = "procurement_order"
	TypeAdministrative    DocumentType = "administrative"
	TypeUnknown           DocumentType = "unknown"
)

var documentTypes = []DocumentType{
	TypeInvoice,
	TypeTechnicalDoc,
	TypeProjectTimeline,
	TypeSafetyReport,
	TypeComplianceDoc,
	TypeHRDocument,
	TypeEngineeringReport,
	TypeOperationsManual,
	TypeProcurementOrder,
	TypeAdministrative,
	TypeUnknown,
}

// AllDocumentTypes returns every document type in declaration order.
func AllDocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

func ParseDocumentType(raw string) (DocumentType, bool) {
	for _, t := range documentTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}

// Department is the closed set of organizational owners.
type Department string

const (
	DeptEngineering Department = "engineering"
	DeptOperations  Department = "operations"
	DeptProcurement Department = "procurement"
	DeptHR          Department = "hr"
	DeptSafety      Department = "safety"
	DeptCompliance  Department = "compliance"
	DeptAdmin       Department = "admin"
	DeptFinance     Department = "finance"
	DeptManagement  Department = "management"
)

var departments = []Department{
	DeptEngineering,
	DeptOperations,
	DeptProcurement,
	DeptHR,
	DeptSafety,
	DeptCompliance,
	DeptAdmin,
	DeptFinance,
	DeptManagement,
}

// AllDepartments returns every department in declaration order.
func AllDepartments() []Department {
	out := make([]Department, len(departments))
	copy(out, departments)
	return out
}

func ParseDepartment(raw string) (Department, bool) {
	for _, d := range departments {
		if string(d) == raw {
			return d, true
		}
	}
	return "", false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// defaultRouting is the degraded-mode owner of every document type.
var defaultRouting = map[DocumentType]Department{
	TypeInvoice:           DeptFinance,
	TypeTechnicalDoc:      DeptEngineering,
	TypeProjectTimeline:   DeptOperations,
	TypeSafetyReport:      DeptSafety,
	TypeComplianceDoc:     DeptCompliance,
	TypeHRDocument:        DeptHR,
	TypeEngineeringReport: DeptEngineering,
	TypeOperationsManual:  DeptOperations,
	TypeProcurementOrder:  DeptProcurement,
	TypeAdministrative:    DeptAdmin,
	TypeUnknown:           DeptAdmin,
}

func init() {
	if err := validateRoutingTable(defaultRouting); err != nil {
		panic(err)
	}
}

func validateRoutingTable(table map[DocumentType]Department) error {
	if len(table) != len(documentTypes) {
		return fmt.Errorf("routing table covers %d of %d document types", len(table), len(documentTypes))
	}
	for _, t := range documentTypes {
		dept, ok := table[t]
		if !ok {
			return fmt.Errorf("routing table has no department for %q", t)
		}
		if _, known := ParseDepartment(string(dept)); !known {
			return fmt.Errorf("routing table maps %q to unknown department %q", t, dept)
		}
	}
	return nil
}

// DefaultDepartment returns the static owner for a document type. Values
// outside the enumeration route to admin.
func DefaultDepartment(t DocumentType) Department {
	if dept, ok := defaultRouting[t]; ok {
		return dept
	}
	return DeptAdmin
}
