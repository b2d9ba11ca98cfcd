// Package models defines the records returned by the citizen registry.
// All person fields besides the CUI are optional: an empty string means the
// registry did not answer that field, and the operator must capture it
// manually.
package models

import "time"

// BasicPersonRecord is the first-tier lookup result: just enough identity
// to let the operator confirm they found the right person.
type BasicPersonRecord struct {
	CUI      string `json:"cui"`
	FullName string `json:"full_name"`
	Sex      string `json:"sex"`
}

// FullPersonRecord is the second-tier lookup result with the complete
// demographic profile. Geography fields carry the registry's numeric codes
// as strings, matching the selector values used by the portal.
type FullPersonRecord struct {
	CUI      string `json:"cui"`
	FullName string `json:"full_name"`
	Sex      string `json:"sex"`

	BirthDate         string `json:"birth_date,omitempty"`
	BirthDepartment   string `json:"birth_department,omitempty"`
	BirthMunicipality string `json:"birth_municipality,omitempty"`

	EthnicGroup         string `json:"ethnic_group,omitempty"`
	LinguisticCommunity string `json:"linguistic_community,omitempty"`
	Language            string `json:"language,omitempty"`

	HouseholdID string `json:"household_id,omitempty"`

	ResidenceDepartment   string `json:"residence_department,omitempty"`
	ResidenceMunicipality string `json:"residence_municipality,omitempty"`
	Address               string `json:"address,omitempty"`
	Phone                 string `json:"phone,omitempty"`

	SchoolingLevel string `json:"schooling_level,omitempty"`
	Disability     string `json:"disability,omitempty"`
	Works          string `json:"works,omitempty"`

	CheckedAt time.Time `json:"checked_at"`
}

// Basic projects the full record down to its first-tier form.
func (r FullPersonRecord) Basic() BasicPersonRecord {
	return BasicPersonRecord{
		CUI:      r.CUI,
		FullName: r.FullName,
		Sex:      r.Sex,
	}
}
