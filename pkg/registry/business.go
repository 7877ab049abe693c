package registry

import (
	"sync"

	"github.com/goliatone/go-appform/pkg/model"
)

// CategoryKey identifies one of the built-in business categories.
type CategoryKey string

const (
	LimitedCompany CategoryKey = "limitedCompany"
	SoleTrader     CategoryKey = "soleTrader"
	Partnership    CategoryKey = "partnership"
)

// BusinessCategories lists the built-in categories in display order.
var BusinessCategories = []CategoryKey{LimitedCompany, SoleTrader, Partnership}

// Collection keys of the built-in business application.
const (
	Pharmacies    = "pharmacies"
	Professionals = "professionals"
)

// Built-in patterns.
const (
	BusinessNamePattern     = `^[A-Za-z0-9 &'.-]+$`
	TelephonePattern        = `^(0|\+?44)7\d{9}$|^(0|\+?44)1\d{8,9}$`
	ODSPattern              = `^[a-zA-Z]{2,3}\d{2,3}$`
	GPhCPattern             = `^\d{7}$`
	ProfessionalNamePattern = `^[A-Za-z][A-Za-z '.-]*$`
)

// Confirmation is shown once an application has been posted.
const Confirmation = `<div class="alert alert-success" role="alert">Your application has been posted. Our team will contact you with the next steps</div>`

var (
	businessOnce sync.Once
	business     *Registry
)

// Business returns the built-in business application registry.
func Business() *Registry {
	businessOnce.Do(func() {
		business = MustNew(BusinessDefinition())
	})
	return business
}

// BusinessDefinition returns a fresh copy of the built-in business
// application definition, suitable as a base for customisation.
func BusinessDefinition() Definition {
	businessName := model.FieldSchema{
		Key:     "name",
		Label:   "Name",
		Kind:    model.KindText,
		Pattern: BusinessNamePattern,
		Hint:    "letters, digits, spaces and & ' . -",
	}
	address := model.FieldSchema{Key: "address", Label: "Address", Kind: model.KindAddress}

	return Definition{
		Name:            "business",
		Title:           "Business application",
		CategoryLabel:   "Business type",
		CategorySection: "business",
		Categories: []model.Category{
			{
				Key:   string(LimitedCompany),
				Label: "Limited Company",
				Fields: []model.FieldSchema{
					businessName,
					{Key: "number", Label: "Number", Kind: model.KindText, Placeholder: "01234567"},
					address,
				},
			},
			{
				Key:    string(SoleTrader),
				Label:  "Sole Trader",
				Fields: []model.FieldSchema{businessName, address},
			},
			{
				Key:   string(Partnership),
				Label: "Partnership",
				Fields: []model.FieldSchema{
					businessName,
					address,
					{Key: "partners", Label: "Partner names", Kind: model.KindText},
				},
			},
		},
		Contact: model.Section{
			Key:   "contact",
			Label: "Contact",
			Fields: []model.FieldSchema{
				{Key: "name", Label: "Name", Kind: model.KindText},
				{Key: "position", Label: "Position", Kind: model.KindText},
				{Key: "email", Label: "Email", Kind: model.KindEmail, Hint: "name@example.com"},
				{Key: "invoiceEmail", Label: "Invoice email (Optional)", Kind: model.KindEmail, Optional: true, Hint: "name@example.com"},
				{Key: "telephone", Label: "Telephone", Kind: model.KindTelephone, Pattern: TelephonePattern, Hint: "07123456789"},
			},
		},
		Collections: []model.CollectionSchema{
			{
				Key:        Pharmacies,
				Label:      "Pharmacies",
				EntryLabel: "pharmacy",
				AddLabel:   "Add pharmacy",
				Mandatory:  true,
				Components: []model.FieldSchema{
					{Key: "ods", Label: "ODS code", Kind: model.KindText, Pattern: ODSPattern, Placeholder: "ODS code", Hint: "AB123"},
				},
			},
			{
				Key:        Professionals,
				Label:      "Professionals",
				EntryLabel: "professional",
				AddLabel:   "Add professional",
				Components: []model.FieldSchema{
					{Key: "gphc", Label: "GPhC number", Kind: model.KindText, Pattern: GPhCPattern, Placeholder: "GPhC number", Hint: "1234567"},
					{Key: "name", Label: "Name", Kind: model.KindText, Pattern: ProfessionalNamePattern, Placeholder: "Name", Hint: "Jo Bloggs"},
				},
			},
		},
		Submit:       SubmitLabels{Apply: "Apply", Accept: "Accept"},
		Events:       Events{Application: "business-application", Accept: "business-accept"},
		Messages:     Messages{SelectCategory: "Please select a business type"},
		Confirmation: Confirmation,
	}
}
