package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Domenick1991/farescope/internal/domain"
	"github.com/Domenick1991/farescope/internal/service/search"
	"github.com/Domenick1991/farescope/internal/upstream"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSearchUseCase is a mock implementation of search.SearchUseCase
type MockSearchUseCase struct {
	mock.Mock
}

func (m *MockSearchUseCase) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

func newTestContext(t *testing.T, method, target string, form url.Values) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	require.NoError(t, RegisterValidators())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	engine.SetHTMLTemplate(Templates())

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, body)
	if form != nil {
		c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return c, w
}

func formValues(from, to, month string) url.Values {
	return url.Values{
		"from_entity_id": {from},
		"to_entity_id":   {to},
		"year_month":     {month},
	}
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["detail"]
}

func TestSearchHandler_index(t *testing.T) {
	handler := NewSearchHandler(&MockSearchUseCase{})
	c, w := newTestContext(t, http.MethodGet, "/", nil)

	handler.index(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="from_entity_id"`)
	assert.Contains(t, w.Body.String(), `name="to_entity_id"`)
	assert.Contains(t, w.Body.String(), `name="year_month"`)
}

func TestSearchHandler_search(t *testing.T) {
	mockService := &MockSearchUseCase{}
	handler := NewSearchHandler(mockService)
	c, w := newTestContext(t, http.MethodPost, "/search", formValues("LOND", "NYCA", "2024-06"))

	q := domain.SearchQuery{FromEntityID: "LOND", ToEntityID: "NYCA", YearMonth: "2024-06"}
	result := &domain.SearchResult{
		Query:      q,
		LeastPrice: 450,
		Legs: []domain.FlightLeg{
			{Price: 450, FlightType: "I", DepartureCity: "LOND", ArrivalCity: "DUB", FlightDate: "10-06-2024", Airline: "EI", AirlineCode: "EI155"},
		},
		ImageBase64: "iVBORw0KGgo=",
		ImageURI:    "data:image/png;base64,iVBORw0KGgo=",
	}
	mockService.On("Search", c.Request.Context(), q).Return(result, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Least price: 450")
	assert.Contains(t, body, "10-06-2024")
	assert.Contains(t, body, "EI155")
	assert.Contains(t, body, `src="data:image/png;base64,iVBORw0KGgo="`)
	mockService.AssertExpectations(t)
}

func TestSearchHandler_search_BindingErrors(t *testing.T) {
	testCases := []struct {
		name       string
		form       url.Values
		wantDetail string
	}{
		{name: "missing origin", form: url.Values{"to_entity_id": {"NYCA"}, "year_month": {"2024-06"}}, wantDetail: "from_entity_id: field required"},
		{name: "missing month", form: url.Values{"from_entity_id": {"LOND"}, "to_entity_id": {"NYCA"}}, wantDetail: "year_month: field required"},
		{name: "malformed month", form: formValues("LOND", "NYCA", "June 2024"), wantDetail: "year_month: expected YYYY-MM"},
		{name: "month out of range", form: formValues("LOND", "NYCA", "2024-13"), wantDetail: "year_month: expected YYYY-MM"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockSearchUseCase{}
			handler := NewSearchHandler(mockService)
			c, w := newTestContext(t, http.MethodPost, "/search", tc.form)

			handler.search(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			detail := decodeDetail(t, w)
			assert.Equal(t, tc.wantDetail, detail)
			assert.NotContains(t, detail, "searchForm")
			mockService.AssertNotCalled(t, "Search")
		})
	}
}

func TestBindingDetail_NonValidationError(t *testing.T) {
	assert.Equal(t, "invalid form submission", bindingDetail(errors.New("malformed body")))
}

func TestSearchHandler_search_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name: "upstream status passthrough",
			err: &search.Error{
				Kind:    search.KindUpstreamHTTP,
				Status:  http.StatusForbidden,
				Message: "HTTP error occurred: 403 Forbidden for url: http://x",
				Err:     &upstream.Error{StatusCode: http.StatusForbidden},
			},
			wantStatus: http.StatusForbidden,
			wantDetail: "HTTP error occurred: 403 Forbidden for url: http://x",
		},
		{
			name:       "not found",
			err:        &search.Error{Kind: search.KindNotFound, Status: http.StatusNotFound, Message: "No flight details available."},
			wantStatus: http.StatusNotFound,
			wantDetail: "No flight details available.",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "An unexpected error occurred: boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockSearchUseCase{}
			handler := NewSearchHandler(mockService)
			c, w := newTestContext(t, http.MethodPost, "/search", formValues("LOND", "NYCA", "2024-06"))

			mockService.On("Search", c.Request.Context(), mock.Anything).Return(nil, tc.err)

			handler.search(c)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantDetail, decodeDetail(t, w))
		})
	}
}
