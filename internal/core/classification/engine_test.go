package classification

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
)

const (
	markerType       = "classify it as exactly one"
	markerDepartment = "DETERMINE DEPARTMENT"
	markerSummary    = "Create a comprehensive summary"
	markerKeyPoints  = `{"key_points"`
	markerActions    = `{"action_items"`
)

type scriptedCompletion struct {
	replies map[string]string
	err     error
	calls   []ports.CompletionRequest
}

func (f *scriptedCompletion) Complete(_ context.Context, req ports.CompletionRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	for marker, reply := range f.replies {
		if strings.Contains(req.Prompt, marker) {
			return reply, nil
		}
	}
	return "", errors.New("no scripted reply")
}

type observerFake struct {
	outcomes map[string]string
}

func (f *observerFake) ObserveStep(step, outcome string) {
	if f.outcomes == nil {
		f.outcomes = map[string]string{}
	}
	f.outcomes[step] = outcome
}

func safetyIncidentText() string {
	var b strings.Builder
	b.WriteString("SAFETY INCIDENT REPORT\n")
	b.WriteString("Location: Main Construction Site - Building A\n")
	b.WriteString("URGENT: Requires immediate attention from the site crew.\n")
	for b.Len() < 5200 {
		b.WriteString("Area secured and crew briefed on site.\n")
	}
	b.WriteString("DEADLINE: March 20, 2024 for all corrective actions\n")
	return b.String()
}

func TestAnalyzeSafetyReportWithCompletionDisabled(t *testing.T) {
	engine := NewEngine(nil, Options{})

	got := engine.Analyze(context.Background(), safetyIncidentText())

	if got.DocumentType != domain.TypeSafetyReport {
		t.Fatalf("expected safety_report, got %s", got.DocumentType)
	}
	if got.Department != domain.DeptSafety {
		t.Fatalf("expected safety department, got %s", got.Department)
	}
	if got.Priority != domain.PriorityHigh {
		t.Fatalf("expected high priority, got %s", got.Priority)
	}
	if got.Deadline == nil || *got.Deadline != "March 20, 2024" {
		t.Fatalf("expected deadline March 20, 2024, got %v", got.Deadline)
	}
	if !reflect.DeepEqual(got.KeyPoints, []string{keyPointsPlaceholder}) {
		t.Fatalf("expected placeholder key points, got %#v", got.KeyPoints)
	}
	if got.ActionItems == nil || len(got.ActionItems) != 0 {
		t.Fatalf("expected empty action items, got %#v", got.ActionItems)
	}
	if !strings.HasPrefix(got.Summary, "Summary of safety_report:\n") {
		t.Fatalf("unexpected fallback summary: %q", got.Summary)
	}
}

func TestAnalyzeUsesCompletionAnswers(t *testing.T) {
	client := &scriptedCompletion{replies: map[string]string{
		markerType:       `"Invoice"`,
		markerDepartment: `Here you go: {"department": "Finance"}`,
		markerSummary:    "Invoice for March maintenance.",
		markerKeyPoints:  `{"key_points": ["Total 1200", "Net 30"]}`,
		markerActions:    `{"action_items": ["Pay vendor"]}`,
	}}
	observer := &observerFake{}
	engine := NewEngine(client, Options{Observer: observer})

	got := engine.Analyze(context.Background(), "Invoice #42\nAmount due: 1200\nPlease review.")

	if got.DocumentType != domain.TypeInvoice || got.Department != domain.DeptFinance {
		t.Fatalf("unexpected routing: %s/%s", got.DocumentType, got.Department)
	}
	if got.Summary != "Invoice for March maintenance." {
		t.Fatalf("unexpected summary: %q", got.Summary)
	}
	if !reflect.DeepEqual(got.KeyPoints, []string{"Total 1200", "Net 30"}) {
		t.Fatalf("unexpected key points: %#v", got.KeyPoints)
	}
	if !reflect.DeepEqual(got.ActionItems, []string{"Pay vendor"}) {
		t.Fatalf("unexpected action items: %#v", got.ActionItems)
	}
	if got.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium priority, got %s", got.Priority)
	}
	if len(client.calls) != 5 {
		t.Fatalf("expected 5 completion calls, got %d", len(client.calls))
	}
	for _, step := range []string{StepDocumentType, StepDepartment, StepSummary, StepKeyPoints, StepActionItems} {
		if observer.outcomes[step] != OutcomeCompletion {
			t.Fatalf("expected completion outcome for %s, got %q", step, observer.outcomes[step])
		}
	}
}

func TestClassifyTypeAcceptsLabels(t *testing.T) {
	cases := map[string]domain.DocumentType{
		"hr_document":                    domain.TypeHRDocument,
		"  'Operations_Manual'  ":        domain.TypeOperationsManual,
		"The type is procurement_order.": domain.TypeProcurementOrder,
		"administrative":                 domain.TypeAdministrative,
	}
	for reply, want := range cases {
		engine := NewEngine(&scriptedCompletion{replies: map[string]string{markerType: reply}}, Options{})
		if got := engine.ClassifyType(context.Background(), "plain text"); got != want {
			t.Fatalf("ClassifyType(reply=%q) = %s, want %s", reply, got, want)
		}
	}
}

func TestClassifyTypeFallsBackOnUnknownLabel(t *testing.T) {
	observer := &observerFake{}
	engine := NewEngine(&scriptedCompletion{replies: map[string]string{markerType: "banana"}}, Options{Observer: observer})

	got := engine.ClassifyType(context.Background(), "Quarterly compliance audit findings")
	if got != domain.TypeComplianceDoc {
		t.Fatalf("expected keyword fallback compliance_document, got %s", got)
	}
	if observer.outcomes[StepDocumentType] != OutcomeFallbackMalformed {
		t.Fatalf("expected malformed outcome, got %q", observer.outcomes[StepDocumentType])
	}
}

func TestClassifyTypeAlwaysReturnsEnumMember(t *testing.T) {
	engine := NewEngine(&scriptedCompletion{err: errors.New("down")}, Options{})
	inputs := []string{"", "lorem ipsum", "\x00\xff", strings.Repeat("z", 10000)}
	for _, in := range inputs {
		got := engine.ClassifyType(context.Background(), in)
		if _, ok := domain.ParseDocumentType(string(got)); !ok {
			t.Fatalf("ClassifyType(%q) returned non-member %q", in, got)
		}
	}
}

func TestRouteDepartmentFallsBackToTableWhenCompletionFails(t *testing.T) {
	observer := &observerFake{}
	engine := NewEngine(&scriptedCompletion{err: errors.New("timeout")}, Options{Observer: observer})

	for _, docType := range domain.AllDocumentTypes() {
		got := engine.RouteDepartment(context.Background(), docType, "text")
		if got != domain.DefaultDepartment(docType) {
			t.Fatalf("RouteDepartment(%s) = %s, want %s", docType, got, domain.DefaultDepartment(docType))
		}
	}
	if observer.outcomes[StepDepartment] != OutcomeFallbackUnavailable {
		t.Fatalf("expected unavailable outcome, got %q", observer.outcomes[StepDepartment])
	}
}

func TestRouteDepartmentRejectsUnknownOrMalformedReplies(t *testing.T) {
	replies := []string{
		`{"department": "legal"}`,
		`{"department": 7}`,
		`{"dept": "finance"}`,
		`department: finance`,
		`{"department": "finance"`,
	}
	for _, reply := range replies {
		observer := &observerFake{}
		engine := NewEngine(&scriptedCompletion{replies: map[string]string{markerDepartment: reply}}, Options{Observer: observer})
		got := engine.RouteDepartment(context.Background(), domain.TypeProcurementOrder, "text")
		if got != domain.DeptProcurement {
			t.Fatalf("reply %q: expected fallback procurement, got %s", reply, got)
		}
		if observer.outcomes[StepDepartment] != OutcomeFallbackMalformed {
			t.Fatalf("reply %q: expected malformed outcome, got %q", reply, observer.outcomes[StepDepartment])
		}
	}
}

func TestKeyPointsToleratesSurroundingProse(t *testing.T) {
	engine := NewEngine(&scriptedCompletion{replies: map[string]string{
		markerKeyPoints: `Sure! {"key_points": ["A", "B"]} Hope that helps.`,
	}}, Options{})

	got := engine.KeyPoints(context.Background(), "text")
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("expected [A B], got %#v", got)
	}
}

func TestKeyPointsTruncatesAndStringifies(t *testing.T) {
	engine := NewEngine(&scriptedCompletion{replies: map[string]string{
		markerKeyPoints: `{"key_points": ["a", 2, true, "d", "e", "f", "g"]}`,
	}}, Options{})

	got := engine.KeyPoints(context.Background(), "text")
	want := []string{"a", "2", "true", "d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestListStepsFallBackOnMalformedJSON(t *testing.T) {
	engine := NewEngine(&scriptedCompletion{replies: map[string]string{
		markerKeyPoints: `{"key_points": "not a list"}`,
		markerActions:   `no json here`,
	}}, Options{})

	if got := engine.KeyPoints(context.Background(), "text"); !reflect.DeepEqual(got, []string{keyPointsPlaceholder}) {
		t.Fatalf("expected placeholder key points, got %#v", got)
	}
	if got := engine.ActionItems(context.Background(), "text"); len(got) != 0 {
		t.Fatalf("expected empty action items, got %#v", got)
	}
}

func TestListStepsTreatMissingKeyAsMalformed(t *testing.T) {
	engine := NewEngine(&scriptedCompletion{replies: map[string]string{
		markerKeyPoints: `{"points": ["A", "B"]}`,
		markerActions:   `{"items": ["call vendor"]}`,
	}}, Options{})

	if got := engine.KeyPoints(context.Background(), "text"); !reflect.DeepEqual(got, []string{keyPointsPlaceholder}) {
		t.Fatalf("expected placeholder key points, got %#v", got)
	}
	if got := engine.ActionItems(context.Background(), "text"); len(got) != 0 {
		t.Fatalf("expected empty action items, got %#v", got)
	}
}

func TestSummarizeFallsBackOnEmptyCompletion(t *testing.T) {
	engine := NewEngine(&scriptedCompletion{replies: map[string]string{markerSummary: "   "}}, Options{})
	text := "short\nThis line is definitely longer than thirty characters.\n   \nSecond long line that also passes the length threshold.\n"

	got := engine.Summarize(context.Background(), domain.TypeUnknown, text)
	want := "Summary of unknown:\nThis line is definitely longer than thirty characters.\nSecond long line that also passes the length threshold."
	if got != want {
		t.Fatalf("unexpected summary:\n%q\nwant\n%q", got, want)
	}
}

func TestCompletionPromptsUseBoundedExcerpts(t *testing.T) {
	client := &scriptedCompletion{err: errors.New("down")}
	engine := NewEngine(client, Options{})
	text := strings.Repeat("é", 10000)

	engine.Analyze(context.Background(), text)

	limits := []int{typeExcerptRunes, departmentExcerptRunes, summaryExcerptRunes, listExcerptRunes, listExcerptRunes}
	if len(client.calls) != len(limits) {
		t.Fatalf("expected %d calls, got %d", len(limits), len(client.calls))
	}
	for i, call := range client.calls {
		if n := strings.Count(call.Prompt, "é"); n != limits[i] {
			t.Fatalf("call %d carried %d runes of text, want %d", i, n, limits[i])
		}
	}
	if client.calls[1].System != routingSystemPrompt || client.calls[3].System != analysisSystemPrompt {
		t.Fatalf("unexpected system prompts: %+v", client.calls)
	}
}
