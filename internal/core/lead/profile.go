package lead

import "strings"

// Profile is the descriptive part of a lead shown in the lead table
type Profile struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Company   string `json:"company,omitempty"`
	Product   string `json:"product,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// UnnamedLead is shown when a lead has neither first nor last name
const UnnamedLead = "Lead sem Nome"

// DisplayName joins first and last name
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name == "" {
		return UnnamedLead
	}
	return name
}

var profileColumns = struct {
	first, last, company, product, summary []string
}{
	first:   []string{"first_name", "nome"},
	last:    []string{"last_name", "sobrenome"},
	company: []string{"company", "empresa"},
	product: []string{"product", "produto"},
	summary: []string{"summary", "resumo"},
}

// DecodeProfile reads the descriptive columns from a raw row
func DecodeProfile(raw map[string]any) Profile {
	get := func(keys []string) string { return strings.TrimSpace(toString(pick(raw, keys))) }
	return Profile{
		FirstName: get(profileColumns.first),
		LastName:  get(profileColumns.last),
		Company:   get(profileColumns.company),
		Product:   get(profileColumns.product),
		Summary:   get(profileColumns.summary),
	}
}
