package rule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

type mockRuleService struct {
	mock.Mock
}

func (m *mockRuleService) CreateAccountRule(ctx context.Context, keyword string, accountID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, keyword, accountID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockRuleService) SetAccountRuleActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockRuleService) DeleteAccountRule(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRuleService) CreateCategoryRule(ctx context.Context, keyword string, categoryID, subcategoryID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, keyword, categoryID, subcategoryID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockRuleService) CreateCategory(ctx context.Context, name string) (uuid.UUID, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockRuleService) CreateSubcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error) {
	args := m.Called(ctx, categoryID, name)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockRuleService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func decodeID(t *testing.T, body []byte) string {
	t.Helper()
	var resp IDResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.ID
}

// -- Account rule tests --

func TestCreateAccountRule_Success(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	ruleID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockRuleService)
	mockSvc.On("CreateAccountRule", mock.Anything, "revolut", accountID).Return(ruleID, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/account-rule", map[string]any{
		"keyword":   "revolut",
		"accountID": accountID.String(),
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, ruleID.String(), decodeID(t, resp.Body.Bytes()))
}

func TestCreateAccountRule_Duplicate(t *testing.T) {
	mockSvc := new(mockRuleService)
	mockSvc.On("CreateAccountRule", mock.Anything, "revolut", mock.Anything).
		Return(uuid.Nil, fmt.Errorf("account rule: %w", ledger.ErrConflict))

	resp := newTestAPI(t, mockSvc).Post("/v1/account-rule", map[string]any{
		"keyword":   "revolut",
		"accountID": uuid.Must(uuid.NewV4()).String(),
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestCreateAccountRule_InvalidAccountID(t *testing.T) {
	mockSvc := new(mockRuleService)

	resp := newTestAPI(t, mockSvc).Post("/v1/account-rule", map[string]any{
		"keyword":   "revolut",
		"accountID": "nope",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateAccountRule", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetAccountRuleActive(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockRuleService)
	mockSvc.On("SetAccountRuleActive", mock.Anything, id, false).Return(nil)

	resp := newTestAPI(t, mockSvc).Put("/v1/account-rule/"+id.String(), map[string]any{"isActive": false})

	assert.Less(t, resp.Code, 300)
	mockSvc.AssertExpectations(t)
}

func TestDeleteAccountRule_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockRuleService)
	mockSvc.On("DeleteAccountRule", mock.Anything, id).Return(ledger.ErrNotFound)

	resp := newTestAPI(t, mockSvc).Delete("/v1/account-rule/" + id.String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteAccountRule_Success(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockRuleService)
	mockSvc.On("DeleteAccountRule", mock.Anything, id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/v1/account-rule/" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
}

// -- Category tests --

func TestCreateCategoryRule_SubcategoryMismatch(t *testing.T) {
	mockSvc := new(mockRuleService)
	mockSvc.On("CreateCategoryRule", mock.Anything, "lidl", mock.Anything, mock.Anything).
		Return(uuid.Nil, ledger.ErrSubcategoryMismatch)

	resp := newTestAPI(t, mockSvc).Post("/v1/category-rule", map[string]any{
		"keyword":       "lidl",
		"categoryID":    uuid.Must(uuid.NewV4()).String(),
		"subcategoryID": uuid.Must(uuid.NewV4()).String(),
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateCategoryAndSubcategory(t *testing.T) {
	categoryID := uuid.Must(uuid.NewV4())
	subcategoryID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockRuleService)
	mockSvc.On("CreateCategory", mock.Anything, "Jedzenie").Return(categoryID, nil)
	mockSvc.On("CreateSubcategory", mock.Anything, categoryID, "Zakupy spożywcze").Return(subcategoryID, nil)
	api := newTestAPI(t, mockSvc)

	resp := api.Post("/v1/category", map[string]any{"name": "Jedzenie"})
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, categoryID.String(), decodeID(t, resp.Body.Bytes()))

	resp = api.Post("/v1/category/"+categoryID.String()+"/subcategory", map[string]any{"name": "Zakupy spożywcze"})
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, subcategoryID.String(), decodeID(t, resp.Body.Bytes()))
}
