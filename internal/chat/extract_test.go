package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeLLM implements llm.Client for tests.
type fakeLLM struct {
	jsonResp  string
	jsonErr   error
	textResp  string
	textErr   error
	jsonCalls int
	textCalls int
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ string) (string, error) {
	f.textCalls++
	return f.textResp, f.textErr
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _ string) (string, error) {
	f.jsonCalls++
	return f.jsonResp, f.jsonErr
}

func (f *fakeLLM) Close() error { return nil }

func TestExtract_IDShortcutBeatsClassification(t *testing.T) {
	// The classifier would answer chitchat, but the id reference must
	// win regardless of external-service availability.
	client := &fakeLLM{jsonResp: `{"intent":"chitchat"}`}
	e := NewExtractor(client, zap.NewNop())

	for _, text := range []string{"xem tin #123", "id 123 còn tuyển không?", "id: 123"} {
		intent := e.Extract(context.Background(), text)
		assert.Equal(t, IntentJobDetail, intent.Kind, text)
		assert.Equal(t, int64(123), intent.JobID, text)
		assert.Equal(t, 1, intent.Page, text)
	}
	assert.Zero(t, client.jsonCalls)
}

func TestExtract_ClassificationParsed(t *testing.T) {
	client := &fakeLLM{jsonResp: "Here you go:\n" +
		`{"intent":"SEARCH_JOBS","query":"flutter","city":"HCM","salary_min":15000000,"fields":"Công nghệ thông tin","page":0}`}
	e := NewExtractor(client, zap.NewNop())

	intent := e.Extract(context.Background(), "tìm việc flutter ở HCM")

	require.Equal(t, IntentSearchJobs, intent.Kind)
	assert.Equal(t, "llm", intent.Source)
	assert.Equal(t, "flutter", intent.Search.Query)
	assert.Equal(t, "HCM", intent.Search.City)
	require.NotNil(t, intent.Search.SalaryMin)
	assert.Equal(t, int64(15000000), *intent.Search.SalaryMin)
	// Scalar fields value is wrapped as a one-element list.
	assert.Equal(t, []string{"Công nghệ thông tin"}, intent.Search.Fields)
	// Page is normalized to at least 1.
	assert.Equal(t, 1, intent.Page)
}

func TestExtract_NonStringFieldsWrapped(t *testing.T) {
	// A numeric "fields" value must not sink the whole classification;
	// it is stringified and wrapped like any other scalar.
	client := &fakeLLM{jsonResp: `{"intent":"search_jobs","query":"kế toán","fields":123}`}
	e := NewExtractor(client, zap.NewNop())

	intent := e.Extract(context.Background(), "tìm việc kế toán")

	require.Equal(t, IntentSearchJobs, intent.Kind)
	assert.Equal(t, "llm", intent.Source)
	assert.Equal(t, []string{"123"}, intent.Search.Fields)
}

func TestExtract_MalformedClassificationFallsBack(t *testing.T) {
	cases := map[string]*fakeLLM{
		"transport error": {jsonErr: errors.New("timeout")},
		"no json":         {jsonResp: "I cannot classify that."},
		"missing intent":  {jsonResp: `{"query":"flutter"}`},
		"empty intent":    {jsonResp: `{"intent":""}`},
		"unknown intent":  {jsonResp: `{"intent":"order_pizza"}`},
		"wrong types":     {jsonResp: `{"intent":"search_jobs","salary_min":"a lot"}`},
	}

	for name, client := range cases {
		e := NewExtractor(client, zap.NewNop())
		intent := e.Extract(context.Background(), "tìm việc flutter ở hcm")
		assert.Equal(t, IntentSearchJobs, intent.Kind, name)
		assert.Equal(t, "heuristic", intent.Source, name)
		assert.Equal(t, "flutter", intent.Search.Query, name)
	}
}

func TestHeuristic_SearchScenario(t *testing.T) {
	// Offline classification of a typical Vietnamese query. The
	// captured term keeps its original casing.
	intent := heuristicIntent("dev Flutter ở HCM lương 15–25tr đăng 7 ngày")

	require.Equal(t, IntentSearchJobs, intent.Kind)
	assert.Equal(t, "Flutter", intent.Search.Query)
	assert.Equal(t, "Hồ Chí Minh", intent.Search.City)
	assert.Equal(t, 1, intent.Page)
}

func TestHeuristic_AccentedQueryKept(t *testing.T) {
	// The free-text term must keep its diacritics: a stripped "ke toan"
	// can never substring-match an accented listing title.
	intent := heuristicIntent("tìm việc kế toán ở Hà Nội")

	require.Equal(t, IntentSearchJobs, intent.Kind)
	assert.Equal(t, "kế toán", intent.Search.Query)
	assert.Equal(t, "Hà Nội", intent.Search.City)
}

func TestHeuristic_CompanyMarker(t *testing.T) {
	intent := heuristicIntent("có việc làm nào ở công ty FPT Software không?")

	require.Equal(t, IntentSearchJobs, intent.Kind)
	assert.Equal(t, "FPT Software", intent.Search.Company)
}

func TestHeuristic_AccentedCompanyKept(t *testing.T) {
	intent := heuristicIntent("có việc làm ở công ty Sông Đà không?")

	require.Equal(t, IntentSearchJobs, intent.Kind)
	assert.Equal(t, "Sông Đà", intent.Search.Company)
}

func TestHeuristic_Chitchat(t *testing.T) {
	intent := heuristicIntent("chào bạn, hôm nay thế nào?")

	assert.Equal(t, IntentChitchat, intent.Kind)
	assert.Equal(t, 1, intent.Page)
}

func TestHeuristic_IDReference(t *testing.T) {
	intent := heuristicIntent("cho mình xem tin #42")

	assert.Equal(t, IntentJobDetail, intent.Kind)
	assert.Equal(t, int64(42), intent.JobID)
}

func TestMatchIDRef_Limits(t *testing.T) {
	_, ok := matchIDRef("tin số 99999999999") // 11 digits, no marker
	assert.False(t, ok)

	id, ok := matchIDRef("#0042")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
