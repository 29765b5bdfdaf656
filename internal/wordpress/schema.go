package wordpress

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// APIBase is the REST namespace of the core WordPress resources.
const APIBase = "/wp-json/wp/v2"

// OperationName identifies a CRUD operation.
type OperationName string

const (
	OpCreate OperationName = "create"
	OpDelete OperationName = "delete"
	OpGet    OperationName = "get"
	OpGetAll OperationName = "getAll"
	OpUpdate OperationName = "update"
)

// FieldType is the kind of value a field holds.
type FieldType string

const (
	FieldString     FieldType = "string"
	FieldNumber     FieldType = "number"
	FieldBoolean    FieldType = "boolean"
	FieldOptions    FieldType = "options"
	FieldCollection FieldType = "collection"
)

// Option is one allowed value of an options field.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Field describes one parameter of an operation.
type Field struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required,omitempty"`
	Default     any       `json:"default,omitempty"`
	Description string    `json:"description,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	MinValue    *int      `json:"minValue,omitempty"`
	MaxValue    *int      `json:"maxValue,omitempty"`
	// LoadOptions names the host lookup that populates the choices of a dynamic options field.
	LoadOptions string `json:"loadOptions,omitempty"`
	// Fields holds the members of a collection field.
	Fields []Field `json:"fields,omitempty"`
}

// Operation describes one CRUD operation on a resource.
type Operation struct {
	Name        OperationName `json:"name"`
	DisplayName string        `json:"displayName"`
	Action      string        `json:"action"`
	Method      string        `json:"method"`
	// TargetsID is true when the request path ends with the resource ID.
	TargetsID bool    `json:"targetsId"`
	Fields    []Field `json:"fields"`
}

// Resource describes a REST resource and its operations.
type Resource struct {
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	IDField    string      `json:"idField"`
	Operations []Operation `json:"operations"`
}

// Operation returns the named operation.
func (r Resource) Operation(name OperationName) (Operation, bool) {
	for _, op := range r.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// Endpoint renders the REST path for op, appending id when the operation targets one.
func (r Resource) Endpoint(name OperationName, id string) (string, error) {
	op, found := r.Operation(name)
	if !found {
		return "", errors.Errorf("resource %s has no operation %s", r.Name, name)
	}
	path := APIBase + "/" + strings.Trim(r.Path, "/")
	if !op.TargetsID {
		return path, nil
	}
	if id == "" {
		return "", errors.Errorf("%s %s requires %s", r.Name, name, r.IDField)
	}
	return path + "/" + id, nil
}

// Resources lists the described resources.
var Resources = []Resource{Categories, Tags}

// Lookup returns the operation of the named resource.
func Lookup(resource string, name OperationName) (Operation, error) {
	for _, r := range Resources {
		if r.Name == resource {
			if op, found := r.Operation(name); found {
				return op, nil
			}
			return Operation{}, errors.Errorf("resource %s has no operation %s", resource, name)
		}
	}
	return Operation{}, errors.Errorf("unknown resource %s", resource)
}

func intPtr(v int) *int {
	return &v
}

var contextField = Field{
	Name:        "context",
	DisplayName: "Context",
	Type:        FieldOptions,
	Default:     "view",
	Description: "Scope under which the request is made; determines fields present in response",
	Options: []Option{
		{Name: "Edit", Value: "edit"},
		{Name: "Embed", Value: "embed"},
		{Name: "View", Value: "view"},
	},
}

var forceField = Field{
	Name:        "force",
	DisplayName: "Force",
	Type:        FieldBoolean,
	Default:     false,
	Description: "Whether to bypass trash and force deletion (required for terms)",
}

func idField(name, displayName string) Field {
	return Field{
		Name:        name,
		DisplayName: displayName,
		Type:        FieldString,
		Required:    true,
		Default:     "",
		Description: "Unique identifier for the term",
	}
}

func nameField(required bool) Field {
	return Field{Name: "name", DisplayName: "Name", Type: FieldString, Required: required, Default: "", Description: "HTML title for the term"}
}

var (
	descriptionField = Field{Name: "description", DisplayName: "Description", Type: FieldString, Default: "", Description: "HTML description of the term"}
	slugField        = Field{Name: "slug", DisplayName: "Slug", Type: FieldString, Default: "", Description: "An alphanumeric identifier for the term unique to its type"}
	parentField      = Field{
		Name:        "parent",
		DisplayName: "Parent Name or ID",
		Type:        FieldOptions,
		Default:     "",
		LoadOptions: "getCategories",
		Description: "The parent term ID",
	}
)

func listFields(withParent bool) []Field {
	options := []Field{
		contextField,
		{Name: "hide_empty", DisplayName: "Hide Empty", Type: FieldBoolean, Default: false, Description: "Whether to hide terms not assigned to any posts"},
		{
			Name:        "order",
			DisplayName: "Order",
			Type:        FieldOptions,
			Default:     "asc",
			Description: "Order sort attribute ascending or descending",
			Options:     []Option{{Name: "ASC", Value: "asc"}, {Name: "DESC", Value: "desc"}},
		},
		{
			Name:        "orderby",
			DisplayName: "Order By",
			Type:        FieldOptions,
			Default:     "name",
			Description: "Sort collection by term attribute",
			Options: []Option{
				{Name: "Count", Value: "count"},
				{Name: "Description", Value: "description"},
				{Name: "ID", Value: "id"},
				{Name: "Include", Value: "include"},
				{Name: "Include Slugs", Value: "include_slugs"},
				{Name: "Name", Value: "name"},
				{Name: "Slug", Value: "slug"},
				{Name: "Term Group", Value: "term_group"},
			},
		},
	}
	if withParent {
		options = append(options, Field{Name: "parent", DisplayName: "Parent ID", Type: FieldNumber, Default: 0, Description: "Limit result set to terms assigned to a specific parent"})
	}
	options = append(options,
		Field{Name: "search", DisplayName: "Search", Type: FieldString, Default: "", Description: "Limit results to those matching a string"},
		Field{Name: "slug", DisplayName: "Slug", Type: FieldString, Default: "", Description: "Limit result set to terms with one or more specific slugs"},
	)

	return []Field{
		{Name: "returnAll", DisplayName: "Return All", Type: FieldBoolean, Default: false, Description: "Whether to return all results or only up to a given limit"},
		{Name: "limit", DisplayName: "Limit", Type: FieldNumber, Default: 50, MinValue: intPtr(1), MaxValue: intPtr(100), Description: "Max number of results to return"},
		{Name: "options", DisplayName: "Options", Type: FieldCollection, Default: map[string]any{}, Fields: options},
	}
}

func termResource(name, path, singular, plural, idName, idDisplay string, hierarchical bool) Resource {
	createFields := []Field{descriptionField}
	updateFields := []Field{descriptionField, nameField(false)}
	if hierarchical {
		createFields = append(createFields, parentField)
		updateFields = append(updateFields, parentField)
	}
	createFields = append(createFields, slugField)
	updateFields = append(updateFields, slugField)

	return Resource{
		Name:    name,
		Path:    path,
		IDField: idName,
		Operations: []Operation{
			{
				Name: OpCreate, DisplayName: "Create", Action: "Create a " + singular, Method: http.MethodPost,
				Fields: []Field{
					nameField(true),
					{Name: "additionalFields", DisplayName: "Additional Fields", Type: FieldCollection, Default: map[string]any{}, Fields: createFields},
				},
			},
			{
				Name: OpDelete, DisplayName: "Delete", Action: "Delete a " + singular, Method: http.MethodDelete, TargetsID: true,
				Fields: []Field{
					idField(idName, idDisplay),
					{Name: "options", DisplayName: "Options", Type: FieldCollection, Default: map[string]any{}, Fields: []Field{forceField}},
				},
			},
			{
				Name: OpGet, DisplayName: "Get", Action: "Get a " + singular, Method: http.MethodGet, TargetsID: true,
				Fields: []Field{
					idField(idName, idDisplay),
					{Name: "options", DisplayName: "Options", Type: FieldCollection, Default: map[string]any{}, Fields: []Field{contextField}},
				},
			},
			{
				Name: OpGetAll, DisplayName: "Get Many", Action: "Get many " + plural, Method: http.MethodGet,
				Fields: listFields(hierarchical),
			},
			{
				Name: OpUpdate, DisplayName: "Update", Action: "Update a " + singular, Method: http.MethodPost, TargetsID: true,
				Fields: []Field{
					idField(idName, idDisplay),
					{Name: "updateFields", DisplayName: "Update Fields", Type: FieldCollection, Default: map[string]any{}, Fields: updateFields},
				},
			},
		},
	}
}

// Categories describes the category resource.
var Categories = termResource("category", "categories", "category", "categories", "categoryId", "Category ID", true)

// Tags describes the tag resource.
var Tags = termResource("tag", "tags", "tag", "tags", "tagId", "Tag ID", false)
