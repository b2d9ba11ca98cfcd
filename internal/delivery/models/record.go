package models

import (
	"time"

	id "solidario/pkg/domain"
)

// Delivery statuses. A record is created REGISTRADA and may later be voided
// by an administrator.
const (
	StatusRegistered = "REGISTRADA"
	StatusVoided     = "ANULADA"
)

// DeliveryRecord is the persisted result of one benefit delivery. It is
// assembled once at submission time from the union of registry-sourced and
// manually entered fields and never mutated afterwards (status changes
// excepted).
type DeliveryRecord struct {
	ID id.DeliveryID `json:"id"`

	CUI           string `json:"cui"`
	FirstName     string `json:"first_name"`
	SecondName    string `json:"second_name,omitempty"`
	ThirdName     string `json:"third_name,omitempty"`
	FirstSurname  string `json:"first_surname"`
	SecondSurname string `json:"second_surname,omitempty"`
	ThirdSurname  string `json:"third_surname,omitempty"`

	// SexCode is 1 for male, 2 for female.
	SexCode   int    `json:"sex_code"`
	BirthDate string `json:"birth_date"`

	BirthDepartment   int `json:"birth_department"`
	BirthMunicipality int `json:"birth_municipality"`

	EthnicGroupCode         int `json:"ethnic_group_code,omitempty"`
	LinguisticCommunityCode int `json:"linguistic_community_code,omitempty"`
	LanguageCode            int `json:"language_code,omitempty"`

	HouseholdID string `json:"household_id,omitempty"`

	ResidenceDepartment   int    `json:"residence_department,omitempty"`
	ResidenceMunicipality int    `json:"residence_municipality,omitempty"`
	Address               string `json:"address,omitempty"`
	Phone                 string `json:"phone,omitempty"`

	SchoolingCode int `json:"schooling_code,omitempty"`
	// DisabilityFlag and WorksFlag use the registry's 1=yes 2=no encoding.
	DisabilityFlag int `json:"disability_flag"`
	WorksFlag      int `json:"works_flag"`

	InstitutionCode int           `json:"institution_code"`
	ProgramID       id.ProgramID  `json:"program_id"`
	BenefitID       id.BenefitID  `json:"benefit_id"`

	DeliveryDepartment   int       `json:"delivery_department"`
	DeliveryMunicipality int       `json:"delivery_municipality"`
	DeliveryDate         time.Time `json:"delivery_date"`

	Quantity  int     `json:"quantity"`
	Value     float64 `json:"value"`
	Reference string  `json:"reference"`

	Status string `json:"status"`

	CreatedBy id.UserID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName joins the non-empty name parts in display order.
func (r *DeliveryRecord) FullName() string {
	parts := []string{
		r.FirstName, r.SecondName, r.ThirdName,
		r.FirstSurname, r.SecondSurname, r.ThirdSurname,
	}
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
