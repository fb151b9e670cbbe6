// Package rule exposes account rules, category rules and the category tree.
package rule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/handlers/v1/apierror"
	"github.com/carson-networks/finances-tracker/internal/logging"
)

type IDResponse struct {
	ID string `json:"id" doc:"Created UUID"`
}

type CreatedOutput struct {
	Status int
	Body   IDResponse
}

type CreateAccountRuleInput struct {
	Body struct {
		Keyword   string `json:"keyword" minLength:"1" doc:"Case-insensitive substring matched against account labels"`
		AccountID string `json:"accountID" doc:"Account the keyword resolves to"`
	}
}

type SetAccountRuleActiveInput struct {
	ID   string `path:"id" doc:"Account rule UUID"`
	Body struct {
		IsActive bool `json:"isActive" doc:"Whether the rule takes part in resolution"`
	}
}

type AccountRuleIDInput struct {
	ID string `path:"id" doc:"Account rule UUID"`
}

type CreateCategoryRuleInput struct {
	Body struct {
		Keyword       string `json:"keyword" minLength:"1" doc:"Case-insensitive substring matched against descriptions"`
		CategoryID    string `json:"categoryID" doc:"Category UUID"`
		SubcategoryID string `json:"subcategoryID" doc:"Subcategory UUID belonging to the category"`
	}
}

type CreateCategoryInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" doc:"Category name"`
	}
}

type CreateSubcategoryInput struct {
	CategoryID string `path:"id" doc:"Parent category UUID"`
	Body       struct {
		Name string `json:"name" minLength:"1" doc:"Subcategory name"`
	}
}

// ruleManager is the interface for managing rules and categories.
type ruleManager interface {
	CreateAccountRule(ctx context.Context, keyword string, accountID uuid.UUID) (uuid.UUID, error)
	SetAccountRuleActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteAccountRule(ctx context.Context, id uuid.UUID) error
	CreateCategoryRule(ctx context.Context, keyword string, categoryID, subcategoryID uuid.UUID) (uuid.UUID, error)
	CreateCategory(ctx context.Context, name string) (uuid.UUID, error)
	CreateSubcategory(ctx context.Context, categoryID uuid.UUID, name string) (uuid.UUID, error)
}

// Handler registers the rule and category endpoints.
type Handler struct {
	RuleService ruleManager
}

func NewHandler(svc ruleManager) *Handler {
	return &Handler{RuleService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account-rule",
		Method:      http.MethodPost,
		Path:        "/v1/account-rule",
		Summary:     "Create an account rule",
		Tags:        []string{"Rules"},
	}, h.createAccountRule)

	huma.Register(api, huma.Operation{
		OperationID: "set-account-rule-active",
		Method:      http.MethodPut,
		Path:        "/v1/account-rule/{id}",
		Summary:     "Activate or deactivate an account rule",
		Tags:        []string{"Rules"},
	}, h.setAccountRuleActive)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-account-rule",
		Method:        http.MethodDelete,
		Path:          "/v1/account-rule/{id}",
		Summary:       "Delete an account rule",
		Tags:          []string{"Rules"},
		DefaultStatus: http.StatusNoContent,
	}, h.deleteAccountRule)

	huma.Register(api, huma.Operation{
		OperationID: "create-category-rule",
		Method:      http.MethodPost,
		Path:        "/v1/category-rule",
		Summary:     "Create a category rule",
		Tags:        []string{"Rules"},
	}, h.createCategoryRule)

	huma.Register(api, huma.Operation{
		OperationID: "create-category",
		Method:      http.MethodPost,
		Path:        "/v1/category",
		Summary:     "Create a category",
		Tags:        []string{"Categories"},
	}, h.createCategory)

	huma.Register(api, huma.Operation{
		OperationID: "create-subcategory",
		Method:      http.MethodPost,
		Path:        "/v1/category/{id}/subcategory",
		Summary:     "Create a subcategory",
		Tags:        []string{"Categories"},
	}, h.createSubcategory)
}

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

func created(ctx context.Context, id uuid.UUID) *CreatedOutput {
	logging.GetLogData(ctx).AddData("createdID", id.String())
	return &CreatedOutput{Status: http.StatusCreated, Body: IDResponse{ID: id.String()}}
}

func (h *Handler) createAccountRule(ctx context.Context, input *CreateAccountRuleInput) (*CreatedOutput, error) {
	accountID, err := parseID("accountID", input.Body.AccountID)
	if err != nil {
		return nil, err
	}
	id, err := h.RuleService.CreateAccountRule(ctx, input.Body.Keyword, accountID)
	if err != nil {
		return nil, apierror.New("failed to create account rule", err)
	}
	return created(ctx, id), nil
}

func (h *Handler) setAccountRuleActive(ctx context.Context, input *SetAccountRuleActiveInput) (*struct{}, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.RuleService.SetAccountRuleActive(ctx, id, input.Body.IsActive); err != nil {
		return nil, apierror.New("failed to update account rule", err)
	}
	return nil, nil
}

func (h *Handler) deleteAccountRule(ctx context.Context, input *AccountRuleIDInput) (*struct{}, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.RuleService.DeleteAccountRule(ctx, id); err != nil {
		return nil, apierror.New("failed to delete account rule", err)
	}
	return nil, nil
}

func (h *Handler) createCategoryRule(ctx context.Context, input *CreateCategoryRuleInput) (*CreatedOutput, error) {
	categoryID, err := parseID("categoryID", input.Body.CategoryID)
	if err != nil {
		return nil, err
	}
	subcategoryID, err := parseID("subcategoryID", input.Body.SubcategoryID)
	if err != nil {
		return nil, err
	}
	id, err := h.RuleService.CreateCategoryRule(ctx, input.Body.Keyword, categoryID, subcategoryID)
	if err != nil {
		return nil, apierror.New("failed to create category rule", err)
	}
	return created(ctx, id), nil
}

func (h *Handler) createCategory(ctx context.Context, input *CreateCategoryInput) (*CreatedOutput, error) {
	id, err := h.RuleService.CreateCategory(ctx, input.Body.Name)
	if err != nil {
		return nil, apierror.New("failed to create category", err)
	}
	return created(ctx, id), nil
}

func (h *Handler) createSubcategory(ctx context.Context, input *CreateSubcategoryInput) (*CreatedOutput, error) {
	categoryID, err := parseID("id", input.CategoryID)
	if err != nil {
		return nil, err
	}
	id, err := h.RuleService.CreateSubcategory(ctx, categoryID, input.Body.Name)
	if err != nil {
		return nil, apierror.New("failed to create subcategory", err)
	}
	return created(ctx, id), nil
}
