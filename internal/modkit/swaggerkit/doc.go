package swaggerkit

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// Operation documents one endpoint; Path is relative to the API base
type Operation struct {
	Method  string
	Path    string
	Tag     string
	Summary string
	// Body and Result are sample values whose types describe the payloads
	Body   any
	Result any
}

// SpecMutator adjusts the parsed document before it is served
type SpecMutator func(map[string]any)

var (
	mu       sync.Mutex
	ops      []Operation
	mutators []SpecMutator
)

// Document adds operations to the served document
func Document(in ...Operation) {
	mu.Lock()
	ops = append(ops, in...)
	mu.Unlock()
}

// Register adds a spec mutator
// call this from module wiring so it runs on every doc.json request
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// Reset forgets every operation and mutator
func Reset() {
	mu.Lock()
	ops, mutators = nil, nil
	mu.Unlock()
}

func snapshot() ([]Operation, []SpecMutator) {
	mu.Lock()
	defer mu.Unlock()
	return append([]Operation(nil), ops...), append([]SpecMutator(nil), mutators...)
}

const envelopeRef = "#/components/schemas/Envelope"

// OpenAPI renders the 3.0 document for everything documented so far
// Title and version are left as swag template fields and filled in on read
func OpenAPI(serverURL string) (*openapi3.T, error) {
	list, _ := snapshot()

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: "{{.Title}}", Version: "{{.Version}}"},
		Servers: openapi3.Servers{{URL: serverURL}},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{"Envelope": envelopeSchema().NewRef()},
		},
	}

	gen := openapi3gen.NewGenerator(openapi3gen.SchemaCustomizer(fromValidateTags))
	for _, op := range list {
		o, err := operation(gen, op, doc.Components.Schemas)
		if err != nil {
			return nil, err
		}
		doc.AddOperation(op.Path, strings.ToUpper(op.Method), o)
	}
	return doc, nil
}

func operation(gen *openapi3gen.Generator, op Operation, schemas openapi3.Schemas) (*openapi3.Operation, error) {
	data := openapi3.NewSchemaRef("", &openapi3.Schema{})
	if op.Result != nil {
		ref, err := gen.NewSchemaRefForValue(op.Result, schemas)
		if err != nil {
			return nil, err
		}
		data = ref
	}
	ok := &openapi3.Schema{AllOf: openapi3.SchemaRefs{
		openapi3.NewSchemaRef(envelopeRef, nil),
		openapi3.NewObjectSchema().WithPropertyRef("data", data).NewRef(),
	}}

	o := openapi3.NewOperation()
	o.Summary = op.Summary
	o.OperationID = operationID(op)
	if op.Tag != "" {
		o.Tags = []string{op.Tag}
	}
	o.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("OK").WithJSONSchemaRef(ok.NewRef())}),
		openapi3.WithStatus(400, errorResponse("Bad Request")),
		openapi3.WithStatus(422, errorResponse("Unprocessable Entity")),
		openapi3.WithStatus(500, errorResponse("Internal Server Error")),
	)
	if op.Body != nil {
		ref, err := gen.NewSchemaRefForValue(op.Body, schemas)
		if err != nil {
			return nil, err
		}
		o.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithJSONSchemaRef(ref)}
	}
	return o, nil
}

func operationID(op Operation) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(op.Method))
	for _, part := range strings.FieldsFunc(op.Path, func(r rune) bool { return r == '/' || r == '-' || r == '_' }) {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}

func errorResponse(desc string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(desc).
		WithJSONSchemaRef(openapi3.NewSchemaRef(envelopeRef, nil))}
}

// envelopeSchema mirrors phttp.Envelope
func envelopeSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("status_code", openapi3.NewIntegerSchema()).
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("code", openapi3.NewIntegerSchema()).
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("request_id", openapi3.NewStringSchema()).
		WithProperty("data", &openapi3.Schema{}).
		WithRequired([]string{"status_code", "status"})
	s.Description = "Every response is wrapped in this envelope"
	return s
}

// fromValidateTags carries validator rules into the schema: oneof becomes an
// enum and required fields of a struct are listed on it
func fromValidateTags(_ string, t reflect.Type, tag reflect.StructTag, schema *openapi3.Schema) error {
	if enum := oneOf(tag.Get("validate")); len(enum) > 0 {
		schema.Enum = enum
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		if req := requiredFields(t); len(req) > 0 {
			schema.Required = req
		}
	}
	return nil
}

func requiredFields(t reflect.Type) []string {
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || strings.Contains(opts, "omitempty") {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.Contains(","+f.Tag.Get("validate")+",", ",required,") {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// oneOf reads the values of a validator oneof rule
func oneOf(rules string) []any {
	for _, r := range strings.Split(rules, ",") {
		if v, ok := strings.CutPrefix(r, "oneof="); ok {
			var out []any
			for _, s := range strings.Fields(v) {
				out = append(out, s)
			}
			return out
		}
	}
	return nil
}
