package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"dijital-vitrin/models"
	"dijital-vitrin/repository"
	"dijital-vitrin/schema"
)

// CategoryService lets a tenant author category attribute schemas
type CategoryService struct {
	categories repository.CategoryRepositoryInterface
	schemas    *schema.Cache
}

func NewCategoryService(categories repository.CategoryRepositoryInterface, schemas *schema.Cache) *CategoryService {
	if schemas == nil {
		schemas = schema.NewCache()
	}
	return &CategoryService{categories: categories, schemas: schemas}
}

// Get returns the tenant's category
func (s *CategoryService) Get(ctx context.Context, storeID, categoryID string) (*models.Category, error) {
	return s.categories.GetByID(ctx, storeID, categoryID)
}

// Compiled returns the memoized validator and defaults of the category schema
func (s *CategoryService) Compiled(ctx context.Context, storeID, categoryID string) (*schema.Compiled, error) {
	c, err := s.categories.GetByID(ctx, storeID, categoryID)
	if err != nil {
		return nil, err
	}
	return s.schemas.Get(c.AttributeSchema)
}

// ReplaceSchema parses a JSON descriptor document and stores it
func (s *CategoryService) ReplaceSchema(ctx context.Context, storeID, categoryID string, raw []byte) (schema.Schema, error) {
	parsed, err := schema.ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	if err := s.categories.UpdateAttributeSchema(ctx, storeID, categoryID, parsed); err != nil {
		return nil, err
	}
	log.Printf("✅ Attribute schema replaced for category %s (%d fields)", categoryID, len(parsed))
	return parsed, nil
}

// AddField appends one field built from a form post. Options is the
// comma-separated tag list of a select field.
func (s *CategoryService) AddField(ctx context.Context, storeID, categoryID string, req models.AddFieldRequest) (schema.Schema, error) {
	c, err := s.categories.GetByID(ctx, storeID, categoryID)
	if err != nil {
		return nil, err
	}

	field := schema.Field{
		Name:     strings.TrimSpace(req.Name),
		Kind:     schema.Kind(strings.TrimSpace(req.Kind)),
		Label:    strings.TrimSpace(req.Label),
		Required: req.Required,
	}
	if field.Kind == schema.KindSelect {
		field.Options = schema.OptionsFromTags(schema.ParseTags(req.Options))
	}

	updated := append(append(schema.Schema{}, c.AttributeSchema...), field)
	if err := schema.ValidateSchema(updated); err != nil {
		return nil, err
	}
	if err := s.categories.UpdateAttributeSchema(ctx, storeID, categoryID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// AddFieldRequestFromForm reads name, type, label, required and options
func AddFieldRequestFromForm(form url.Values) models.AddFieldRequest {
	required := form.Get("required")
	return models.AddFieldRequest{
		Name:     form.Get("name"),
		Kind:     form.Get("type"),
		Label:    form.Get("label"),
		Required: required == "on" || required == "true" || required == "1",
		Options:  form.Get("options"),
	}
}

// ValidateProductAttributes checks product attribute values against the
// category schema. Every value of a multi-valued attribute must pass.
func (s *CategoryService) ValidateProductAttributes(fields schema.Schema, attrs models.Attributes) (schema.FieldErrors, error) {
	errs := schema.FieldErrors{}
	for _, f := range fields {
		compiled, err := s.schemas.Get(schema.Schema{f})
		if err != nil {
			return nil, fmt.Errorf("category schema does not compile: %w", err)
		}

		var inputs []any
		if v, ok := attrs[f.Name]; ok && len(v.List()) > 0 {
			for _, value := range v.List() {
				inputs = append(inputs, value)
			}
		} else {
			inputs = []any{nil}
		}

		for _, in := range inputs {
			res := compiled.Validator.Validate(map[string]any{f.Name: in})
			if !res.Valid() {
				errs[f.Name] = append(errs[f.Name], res.Errors[f.Name]...)
			}
		}
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}
