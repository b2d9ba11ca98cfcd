// Package testutil provides shared fixtures for unit tests.
package testutil

import (
	"time"

	"github.com/google/uuid"

	authmodels "solidario/internal/auth/models"
	contentmodels "solidario/internal/content/models"
	deliverymodels "solidario/internal/delivery/models"
	id "solidario/pkg/domain"
)

// TestIDs holds deterministic identifiers so assertions can use stable
// values instead of comparing freshly generated UUIDs.
var TestIDs = struct {
	UserID1       id.UserID
	UserID2       id.UserID
	SessionID1    id.SessionID
	DeliveryID1   id.DeliveryID
	PublicationID id.PublicationID
}{
	UserID1:       id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2:       id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	SessionID1:    id.SessionID(uuid.MustParse("33333333-3333-3333-3333-333333333333")),
	DeliveryID1:   id.DeliveryID(uuid.MustParse("44444444-4444-4444-4444-444444444444")),
	PublicationID: id.PublicationID(uuid.MustParse("55555555-5555-5555-5555-555555555555")),
}

// TestCUI is a syntactically valid identifier for the Guatemala department 1,
// municipality 1 registry range.
const TestCUI = "3004735750101"

// StaffUserBuilder builds staff users with sensible defaults.
type StaffUserBuilder struct {
	user authmodels.StaffUser
}

// NewStaffUser returns a builder for an active operator account.
func NewStaffUser() *StaffUserBuilder {
	now := time.Now().UTC()
	return &StaffUserBuilder{
		user: authmodels.StaffUser{
			ID:           id.NewUserID(),
			Username:     "operadora1",
			FullName:     "Operadora de Prueba",
			PasswordHash: "$2a$04$notarealhashnotarealhashnotarealhashnotarealha",
			Role:         authmodels.RoleOperator,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

func (b *StaffUserBuilder) WithID(userID id.UserID) *StaffUserBuilder {
	b.user.ID = userID
	return b
}

func (b *StaffUserBuilder) WithUsername(username string) *StaffUserBuilder {
	b.user.Username = username
	return b
}

func (b *StaffUserBuilder) WithRole(role string) *StaffUserBuilder {
	b.user.Role = role
	return b
}

func (b *StaffUserBuilder) WithPasswordHash(hash string) *StaffUserBuilder {
	b.user.PasswordHash = hash
	return b
}

func (b *StaffUserBuilder) Inactive() *StaffUserBuilder {
	b.user.Active = false
	return b
}

func (b *StaffUserBuilder) Build() *authmodels.StaffUser {
	u := b.user
	return &u
}

// PublicationBuilder builds publications. Defaults to an unpublished noticia.
type PublicationBuilder struct {
	pub contentmodels.Publication
}

func NewPublication() *PublicationBuilder {
	now := time.Now().UTC()
	return &PublicationBuilder{
		pub: contentmodels.Publication{
			ID:        id.NewPublicationID(),
			Kind:      contentmodels.KindNews,
			Title:     "Entrega de alimentos",
			Slug:      "entrega-de-alimentos",
			Summary:   "Resumen de prueba.",
			Body:      "Cuerpo de prueba.",
			Status:    contentmodels.StatusDraft,
			AuthorID:  TestIDs.UserID1,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *PublicationBuilder) WithID(pubID id.PublicationID) *PublicationBuilder {
	b.pub.ID = pubID
	return b
}

func (b *PublicationBuilder) WithKind(kind contentmodels.Kind) *PublicationBuilder {
	b.pub.Kind = kind
	return b
}

func (b *PublicationBuilder) WithSlug(slug string) *PublicationBuilder {
	b.pub.Slug = slug
	return b
}

func (b *PublicationBuilder) WithTitle(title string) *PublicationBuilder {
	b.pub.Title = title
	return b
}

// PublishedAt marks the publication published at the given instant.
func (b *PublicationBuilder) PublishedAt(at time.Time) *PublicationBuilder {
	b.pub.Status = contentmodels.StatusPublished
	b.pub.PublishedAt = &at
	return b
}

func (b *PublicationBuilder) Build() *contentmodels.Publication {
	return b.pub.Clone()
}

// DeliveryRecordBuilder builds registered delivery records with enough
// fields populated to satisfy store and handler round-trips.
type DeliveryRecordBuilder struct {
	rec deliverymodels.DeliveryRecord
}

func NewDeliveryRecord() *DeliveryRecordBuilder {
	return &DeliveryRecordBuilder{
		rec: deliverymodels.DeliveryRecord{
			ID:                   id.NewDeliveryID(),
			CUI:                  TestCUI,
			FirstName:            "MARIA",
			FirstSurname:         "LOPEZ",
			SexCode:              2,
			BirthDate:            "15/03/1988",
			BirthDepartment:      1,
			BirthMunicipality:    1,
			DisabilityFlag:       2,
			WorksFlag:            2,
			InstitutionCode:      10,
			ProgramID:            1,
			BenefitID:            1,
			DeliveryDepartment:   1,
			DeliveryMunicipality: 1,
			DeliveryDate:         time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			Quantity:             1,
			Value:                250,
			Reference:            "ACTA-001",
			Status:               deliverymodels.StatusRegistered,
			CreatedBy:            TestIDs.UserID1,
			CreatedAt:            time.Now().UTC(),
		},
	}
}

func (b *DeliveryRecordBuilder) WithCUI(cui string) *DeliveryRecordBuilder {
	b.rec.CUI = cui
	return b
}

func (b *DeliveryRecordBuilder) WithProgram(programID id.ProgramID, benefitID id.BenefitID) *DeliveryRecordBuilder {
	b.rec.ProgramID = programID
	b.rec.BenefitID = benefitID
	return b
}

func (b *DeliveryRecordBuilder) WithCreatedBy(userID id.UserID) *DeliveryRecordBuilder {
	b.rec.CreatedBy = userID
	return b
}

func (b *DeliveryRecordBuilder) WithCreatedAt(at time.Time) *DeliveryRecordBuilder {
	b.rec.CreatedAt = at
	return b
}

func (b *DeliveryRecordBuilder) Voided() *DeliveryRecordBuilder {
	b.rec.Status = deliverymodels.StatusVoided
	return b
}

func (b *DeliveryRecordBuilder) Build() *deliverymodels.DeliveryRecord {
	r := b.rec
	return &r
}
