package domain

import "testing"

func TestDefaultRoutingCoversEveryDocumentType(t *testing.T) {
	if err := validateRoutingTable(defaultRouting); err != nil {
		t.Fatalf("validateRoutingTable() error = %v", err)
	}
}

func TestValidateRoutingTableRejectsMissingType(t *testing.T) {
	table := make(map[DocumentType]Department, len(defaultRouting))
	for k, v := range defaultRouting {
		table[k] = v
	}
	delete(table, TypeAdministrative)

	if err := validateRoutingTable(table); err == nil {
		t.Fatalf("expected error for incomplete routing table")
	}
}

func TestDefaultDepartmentMapping(t *testing.T) {
	cases := map[DocumentType]Department{
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
	for docType, want := range cases {
		if got := DefaultDepartment(docType); got != want {
			t.Fatalf("DefaultDepartment(%s) = %s, want %s", docType, got, want)
		}
	}
	if got := DefaultDepartment(DocumentType("memo")); got != DeptAdmin {
		t.Fatalf("expected admin for unknown value, got %s", got)
	}
}

func TestNewBatchOutcomeHasEveryDepartment(t *testing.T) {
	outcome := NewBatchOutcome()
	for _, dept := range AllDepartments() {
		results, ok := outcome.ByDepartment[dept]
		if !ok {
			t.Fatalf("missing department key %s", dept)
		}
		if results == nil || len(results) != 0 {
			t.Fatalf("expected empty non-nil list for %s, got %#v", dept, results)
		}
	}
	if outcome.Processed() != 0 {
		t.Fatalf("expected zero processed, got %d", outcome.Processed())
	}
}

func TestSourceFileExtension(t *testing.T) {
	cases := []struct {
		file SourceFile
		want string
	}{
		{SourceFile{Key: "a_b.PDF", OriginalFilename: "Report.PDF"}, "pdf"},
		{SourceFile{Key: "123_notes.md"}, "md"},
		{SourceFile{Key: "blob", OriginalFilename: "README"}, ""},
	}
	for _, tc := range cases {
		if got := tc.file.Extension(); got != tc.want {
			t.Fatalf("Extension(%+v) = %q, want %q", tc.file, got, tc.want)
		}
	}
}
