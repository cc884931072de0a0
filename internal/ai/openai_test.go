package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/stylecast-backend/internal/types"
)

func newOpenAIForTest(t *testing.T, baseURL string) *OpenAIProvider {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", baseURL)
	p, err := NewOpenAIProvider(testLog(t))
	require.NoError(t, err)
	return p
}

func TestOpenAIFallsBackToLooseJSONWhenSchemaUnsupported(t *testing.T) {
	var formats []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		format, _ := req.ResponseFormat["type"].(string)
		formats = append(formats, format)

		if format == "json_schema" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter: 'response_format' of type 'json_schema' is not supported with this model"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"outfits\":[{\"topClothingId\":1,\"bottomClothingId\":2,\"score\":90,\"reason\":\"clean pairing\"}]}"}}]}`))
	}))
	defer server.Close()

	p := newOpenAIForTest(t, server.URL)
	suggestions, err := p.Suggest(context.Background(), SuggestRequest{
		Member: &types.Member{Name: "Mei"},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	require.EqualValues(t, 1, suggestions[0].TopClothingID)
	require.EqualValues(t, 2, suggestions[0].BottomClothingID)

	// Strict json_schema first, loose json_object on the schema rejection.
	require.Equal(t, []string{"json_schema", "json_object"}, formats)
}

func TestOpenAIDoesNotFallBackOnOtherErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	p := newOpenAIForTest(t, server.URL)
	_, err := p.Suggest(context.Background(), SuggestRequest{
		Member: &types.Member{Name: "Mei"},
	})
	require.Error(t, err)
	require.Equal(t, 1, calls, "only schema rejections trigger the loose retry")
}
