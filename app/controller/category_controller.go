package controller

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"dijital-vitrin/app/middleware"
	"dijital-vitrin/models"
	"dijital-vitrin/schema"
	"dijital-vitrin/service"
	"dijital-vitrin/templates"
)

const maxSchemaBytes = 64 << 10

// CategoryController handles attribute schema authoring for the dashboard
type CategoryController struct {
	categories *service.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categories *service.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

type schemaResponse struct {
	CategoryID string         `json:"categoryId"`
	Fields     schema.Schema  `json:"fields"`
	JSONSchema map[string]any `json:"jsonSchema"`
}

func newSchemaResponse(categoryID string, s schema.Schema) schemaResponse {
	if s == nil {
		s = schema.Schema{}
	}
	return schemaResponse{CategoryID: categoryID, Fields: s, JSONSchema: s.JSONSchema()}
}

// writeSchemaError answers 422 with every authoring problem
func writeSchemaError(w http.ResponseWriter, err error) bool {
	var se *schema.SchemaError
	if !errors.As(err, &se) {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"problems": se.Problems})
	return true
}

// category loads {id} for the authenticated tenant
func (c *CategoryController) category(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	tenantID := middleware.TenantFromContext(r.Context())
	cat, err := c.categories.Get(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		log.Printf("❌ Category lookup failed for tenant=%s id=%s: %v", tenantID, r.PathValue("id"), err)
		writeLookupError(w, "Category", err)
		return nil, false
	}
	return cat, true
}

// compiled loads the memoized schema of {id}
func (c *CategoryController) compiled(w http.ResponseWriter, r *http.Request) (*schema.Compiled, bool) {
	compiled, err := c.categories.Compiled(r.Context(), middleware.TenantFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		if writeSchemaError(w, err) {
			return nil, false
		}
		writeLookupError(w, "Category", err)
		return nil, false
	}
	return compiled, true
}

// GetSchema handles GET /admin/categories/{id}/attribute-schema
func (c *CategoryController) GetSchema(w http.ResponseWriter, r *http.Request) {
	cat, ok := c.category(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSchemaResponse(cat.ID, cat.AttributeSchema))
}

// PutSchema handles PUT /admin/categories/{id}/attribute-schema
func (c *CategoryController) PutSchema(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 PutSchema: Received %s request to %s", r.Method, r.URL.Path)

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSchemaBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	s, err := c.categories.ReplaceSchema(r.Context(), middleware.TenantFromContext(r.Context()), id, raw)
	if err != nil {
		log.Printf("❌ PutSchema: %v", err)
		if writeSchemaError(w, err) {
			return
		}
		writeLookupError(w, "Category", err)
		return
	}

	log.Printf("✅ PutSchema: category %s now has %d field(s)", id, len(s))
	writeJSON(w, http.StatusOK, newSchemaResponse(id, s))
}

// Defaults handles GET /admin/categories/{id}/attribute-schema/defaults
func (c *CategoryController) Defaults(w http.ResponseWriter, r *http.Request) {
	compiled, ok := c.compiled(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, compiled.Defaults())
}

// Validate handles POST /admin/categories/{id}/attribute-schema/validate
func (c *CategoryController) Validate(w http.ResponseWriter, r *http.Request) {
	var input map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSchemaBytes)).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	compiled, ok := c.compiled(w, r)
	if !ok {
		return
	}

	result := compiled.Validator.Validate(input)
	status := http.StatusOK
	if !result.Valid() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{"valid": result.Valid(), "values": result.Values, "errors": result.Errors})
}

// AddField handles POST /admin/categories/{id}/attribute-schema/fields
func (c *CategoryController) AddField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	req := service.AddFieldRequestFromForm(r.PostForm)
	s, err := c.categories.AddField(r.Context(), middleware.TenantFromContext(r.Context()), id, req)
	if err != nil {
		log.Printf("❌ AddField: %v", err)
		if writeSchemaError(w, err) {
			return
		}
		writeLookupError(w, "Category", err)
		return
	}

	log.Printf("✅ AddField: %s added to category %s", req.Name, id)
	writeJSON(w, http.StatusCreated, newSchemaResponse(id, s))
}

type formPreview struct {
	Category  models.Category
	Fields    []schema.FieldView
	Submitted bool
	Valid     bool
}

// Form handles GET|POST /admin/categories/{id}/form, an HTML preview of the generated form
func (c *CategoryController) Form(w http.ResponseWriter, r *http.Request) {
	cat, ok := c.category(w, r)
	if !ok {
		return
	}
	compiled, ok := c.compiled(w, r)
	if !ok {
		return
	}

	view := formPreview{Category: *cat, Fields: schema.BuildForm(compiled.Schema, compiled.Defaults(), nil)}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form body", http.StatusBadRequest)
			return
		}
		result := compiled.Validator.ValidateForm(r.PostForm)
		submitted := make(map[string]any, len(r.PostForm))
		for key := range r.PostForm {
			submitted[key] = r.PostForm.Get(key)
		}
		view.Fields = schema.BuildForm(compiled.Schema, submitted, result.Errors)
		view.Submitted = true
		view.Valid = result.Valid()
		if !view.Valid {
			status = http.StatusUnprocessableEntity
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Render(w, templates.FormPage, view); err != nil {
		log.Printf("❌ Form: render failed: %v", err)
	}
}
