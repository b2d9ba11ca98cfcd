package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"

	"solidario/internal/delivery/models"
)

// Registry label-to-code mappings. The registry and the selectors speak in
// Spanish labels; the persisted record carries the institutional codes.
const (
	sexMale   = 1
	sexFemale = 2

	flagYes = 1
	flagNo  = 2
)

// Accepted delivery-date layouts. Values are normalized to a single
// timestamp at assembly time.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
}

// validateRequired checks every mandatory field before the confirmation
// dialog may open. Delivery-attribute fields are always mandatory; the core
// person fields become mandatory once the session is confirmed, except where
// the registry already answered them.
func (s *Service) validateRequired(sess *models.Session) error {
	var missing []string

	for _, f := range models.DeliveryFields {
		if strings.TrimSpace(sess.Fields[f]) == "" {
			missing = append(missing, models.Label(f))
		}
	}

	if sess.State.Confirmed() {
		for _, f := range models.CorePersonFields {
			if sess.Known[f] {
				continue
			}
			if strings.TrimSpace(sess.Fields[f]) == "" {
				missing = append(missing, models.Label(f))
			}
		}
	} else {
		missing = append(missing, "Confirmación de persona")
	}

	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation,
			"Complete los campos requeridos: "+strings.Join(missing, ", "))
	}
	return nil
}

// buildRecord assembles the immutable DeliveryRecord from the session. All
// numeric selector values are parsed with explicit guards so a malformed
// value surfaces as a validation error instead of a corrupt record.
func (s *Service) buildRecord(sess *models.Session, operatorID id.UserID) (*models.DeliveryRecord, error) {
	fields := sess.Fields

	programID, err := id.ParseProgramID(fields[models.FieldProgram])
	if err != nil {
		return nil, invalidValue(models.FieldProgram)
	}
	benefitID, err := id.ParseBenefitID(fields[models.FieldBenefit])
	if err != nil {
		return nil, invalidValue(models.FieldBenefit)
	}

	institution, err := requiredInt(fields, models.FieldInstitution)
	if err != nil {
		return nil, err
	}
	birthDept, err := requiredInt(fields, models.FieldBirthDepartment)
	if err != nil {
		return nil, err
	}
	birthMuni, err := requiredInt(fields, models.FieldBirthMunicipality)
	if err != nil {
		return nil, err
	}
	deliveryDept, err := requiredInt(fields, models.FieldDeliveryDepartment)
	if err != nil {
		return nil, err
	}
	deliveryMuni, err := requiredInt(fields, models.FieldDeliveryMunicipality)
	if err != nil {
		return nil, err
	}

	if err := checkGeography(models.FieldBirthDepartment, birthDept, birthMuni); err != nil {
		return nil, err
	}
	if err := checkGeography(models.FieldDeliveryDepartment, deliveryDept, deliveryMuni); err != nil {
		return nil, err
	}

	ethnic, err := optionalInt(fields, models.FieldEthnicGroup)
	if err != nil {
		return nil, err
	}
	linguistic, err := optionalInt(fields, models.FieldLinguisticCommunity)
	if err != nil {
		return nil, err
	}
	language, err := optionalInt(fields, models.FieldLanguage)
	if err != nil {
		return nil, err
	}
	schooling, err := optionalInt(fields, models.FieldSchoolingLevel)
	if err != nil {
		return nil, err
	}
	residenceDept, err := optionalInt(fields, models.FieldResidenceDepartment)
	if err != nil {
		return nil, err
	}
	residenceMuni, err := optionalInt(fields, models.FieldResidenceMunicipality)
	if err != nil {
		return nil, err
	}

	quantity, err := requiredInt(fields, models.FieldQuantity)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, invalidValue(models.FieldQuantity)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(fields[models.FieldValue]), 64)
	if err != nil || value < 0 {
		return nil, invalidValue(models.FieldValue)
	}

	deliveryDate, err := parseDate(fields[models.FieldDeliveryDate])
	if err != nil {
		return nil, invalidValue(models.FieldDeliveryDate)
	}
	birthDate, err := parseDate(fields[models.FieldBirthDate])
	if err != nil {
		return nil, invalidValue(models.FieldBirthDate)
	}

	now := s.now()
	return &models.DeliveryRecord{
		ID: id.NewDeliveryID(),

		CUI:           fields[models.FieldCUI],
		FirstName:     fields[models.FieldFirstName],
		SecondName:    fields[models.FieldSecondName],
		ThirdName:     fields[models.FieldThirdName],
		FirstSurname:  fields[models.FieldFirstSurname],
		SecondSurname: fields[models.FieldSecondSurname],
		ThirdSurname:  fields[models.FieldThirdSurname],

		SexCode:   sexCode(fields[models.FieldSex]),
		BirthDate: birthDate.Format("2006-01-02"),

		BirthDepartment:   birthDept,
		BirthMunicipality: birthMuni,

		EthnicGroupCode:         ethnic,
		LinguisticCommunityCode: linguistic,
		LanguageCode:            language,

		HouseholdID: fields[models.FieldHouseholdID],

		ResidenceDepartment:   residenceDept,
		ResidenceMunicipality: residenceMuni,
		Address:               fields[models.FieldAddress],
		Phone:                 fields[models.FieldPhone],

		SchoolingCode:  schooling,
		DisabilityFlag: disabilityFlag(fields[models.FieldDisability]),
		WorksFlag:      worksFlag(fields[models.FieldWorks]),

		InstitutionCode: institution,
		ProgramID:       programID,
		BenefitID:       benefitID,

		DeliveryDepartment:   deliveryDept,
		DeliveryMunicipality: deliveryMuni,
		DeliveryDate:         deliveryDate,

		Quantity:  quantity,
		Value:     value,
		Reference: strings.TrimSpace(fields[models.FieldReference]),

		Status: models.StatusRegistered,

		CreatedBy: operatorID,
		CreatedAt: now,
	}, nil
}

// ConfirmationSummary is the human-readable digest shown in the legal
// confirmation dialog before submission.
type ConfirmationSummary struct {
	FullName     string `json:"full_name"`
	CUI          string `json:"cui"`
	Sex          string `json:"sex"`
	Program      string `json:"program"`
	Benefit      string `json:"benefit"`
	Institution  string `json:"institution"`
	Department   string `json:"department"`
	Municipality string `json:"municipality"`
	DeliveryDate string `json:"delivery_date"`
	Quantity     string `json:"quantity"`
	Value        string `json:"value"`
}

func (s *Service) buildSummary(ctx context.Context, sess *models.Session) *ConfirmationSummary {
	fields := sess.Fields
	summary := &ConfirmationSummary{
		FullName:     joinNames(fields),
		CUI:          fields[models.FieldCUI],
		Sex:          fields[models.FieldSex],
		Program:      fields[models.FieldProgram],
		Benefit:      fields[models.FieldBenefit],
		Institution:  fields[models.FieldInstitution],
		Department:   fields[models.FieldDeliveryDepartment],
		Municipality: fields[models.FieldDeliveryMunicipality],
		DeliveryDate: fields[models.FieldDeliveryDate],
		Quantity:     fields[models.FieldQuantity],
		Value:        fields[models.FieldValue],
	}
	if s.catalog == nil {
		return summary
	}

	// Display names fall back to the raw selector codes when the catalog
	// cannot resolve them.
	if programID, err := id.ParseProgramID(fields[models.FieldProgram]); err == nil {
		if name, err := s.catalog.ProgramName(ctx, programID); err == nil {
			summary.Program = name
		}
	}
	if benefitID, err := id.ParseBenefitID(fields[models.FieldBenefit]); err == nil {
		if name, err := s.catalog.BenefitName(ctx, benefitID); err == nil {
			summary.Benefit = name
		}
	}
	if code, err := strconv.Atoi(fields[models.FieldInstitution]); err == nil {
		if name, ok := s.catalog.InstitutionName(code); ok {
			summary.Institution = name
		}
	}
	dept, deptErr := strconv.Atoi(fields[models.FieldDeliveryDepartment])
	if deptErr == nil {
		if name, ok := s.catalog.DepartmentName(dept); ok {
			summary.Department = name
		}
		if muni, err := strconv.Atoi(fields[models.FieldDeliveryMunicipality]); err == nil {
			if name, ok := s.catalog.MunicipalityName(dept, muni); ok {
				summary.Municipality = name
			}
		}
	}
	return summary
}

func joinNames(fields map[string]string) string {
	parts := []string{
		fields[models.FieldFirstName], fields[models.FieldSecondName], fields[models.FieldThirdName],
		fields[models.FieldFirstSurname], fields[models.FieldSecondSurname], fields[models.FieldThirdSurname],
	}
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

func sexCode(label string) int {
	if label == "Hombre" {
		return sexMale
	}
	return sexFemale
}

func worksFlag(label string) int {
	if label == "Si" {
		return flagYes
	}
	return flagNo
}

func disabilityFlag(label string) int {
	if strings.TrimSpace(label) != "" && label != "No" {
		return flagYes
	}
	return flagNo
}

func requiredInt(fields map[string]string, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(fields[field]))
	if err != nil {
		return 0, invalidValue(field)
	}
	return n, nil
}

func optionalInt(fields map[string]string, field string) (int, error) {
	raw := strings.TrimSpace(fields[field])
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidValue(field)
	}
	return n, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// checkGeography rejects municipality codes outside the department's range
// using the same table the identifier checksum is built on.
func checkGeography(departmentField string, dept, muni int) error {
	count := id.MunicipalityCount(dept)
	if count == 0 {
		return invalidValue(departmentField)
	}
	if muni < 1 || muni > count {
		switch departmentField {
		case models.FieldBirthDepartment:
			return invalidValue(models.FieldBirthMunicipality)
		default:
			return invalidValue(models.FieldDeliveryMunicipality)
		}
	}
	return nil
}

func invalidValue(field string) error {
	return dErrors.New(dErrors.CodeValidation,
		"Valor inválido para "+models.Label(field))
}
