// Package models defines the catalog entities: social programs with their
// benefits, the static geography of departments and municipalities, and the
// participating institutions.
package models

import (
	"time"

	id "solidario/pkg/domain"
)

// Program is a social program deliveries are registered against.
type Program struct {
	ID       id.ProgramID `json:"id"`
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	Active   bool         `json:"active"`
	Benefits []Benefit    `json:"benefits"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Benefit is one deliverable item within a program.
type Benefit struct {
	ID        id.BenefitID `json:"id"`
	ProgramID id.ProgramID `json:"program_id"`
	Code      string       `json:"code"`
	ShortName string       `json:"short_name"`
	Active    bool         `json:"active"`
}

// Department is a first-level administrative division. Codes are 1-based and
// match the codes embedded in the CUI.
type Department struct {
	Code           int            `json:"code"`
	Name           string         `json:"name"`
	Municipalities []Municipality `json:"municipalities"`
}

// Municipality is a second-level division, coded 1-based within its
// department.
type Municipality struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// Institution is a government body that hands out deliveries.
type Institution struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}
