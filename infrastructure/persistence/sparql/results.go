package sparql

// Results is the application/sparql-results+json document.
type Results struct {
	Head    Head  `json:"head"`
	Boolean *bool `json:"boolean,omitempty"`
	Results Rows  `json:"results"`
}

// Head lists the projected variables.
type Head struct {
	Vars []string `json:"vars"`
}

// Rows holds the solutions of a SELECT query.
type Rows struct {
	Bindings []map[string]Binding `json:"bindings"`
}

// Binding is one RDF term bound to a variable.
type Binding struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// IsURI reports whether the binding is an IRI.
func (b Binding) IsURI() bool {
	return b.Type == "uri"
}

// Values returns the value of variable in every solution that binds it.
func (r *Results) Values(variable string) []string {
	if r == nil {
		return nil
	}
	values := make([]string, 0, len(r.Results.Bindings))
	for _, row := range r.Results.Bindings {
		if b, ok := row[variable]; ok {
			values = append(values, b.Value)
		}
	}
	return values
}

// First returns the value of variable in the first solution binding it.
func (r *Results) First(variable string) (string, bool) {
	values := r.Values(variable)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
